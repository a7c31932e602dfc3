package merged

import (
	"testing"

	"chapter-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestRecognizeNumbers(t *testing.T) {
	tests := []struct {
		name    string
		chapter float64
		volume  int // 0 means no volume
	}{
		{"Vol.2 Chapter 12.5: Title", 12.5, 2},
		{"Chapter 7 - Part 2", 7, 0},
		{"Ch. 10,5", 10.5, 0},
		{"Volume 3 Ch.20", 20, 3},
		{"Episode 3", 3, 0},
		{"12 - The 99th Day", 12, 0},
		{"Oneshot", reconcile.UnknownNumber, 0},
		{"Volume 3 Extra", reconcile.UnknownNumber, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chapter, volume := RecognizeNumbers(tt.name)
			assert.Equal(t, tt.chapter, chapter)
			if tt.volume == 0 {
				assert.Nil(t, volume)
				return
			}
			if assert.NotNil(t, volume) {
				assert.Equal(t, tt.volume, *volume)
			}
		})
	}
}
