package merged

import (
	"regexp"
	"strings"

	"chapter-sync/core/reconcile"
	"chapter-sync/core/utils"
)

var (
	volumePattern  = regexp.MustCompile(`(?i)\bvol(?:ume)?\.?\s*(\d+)`)
	chapterPattern = regexp.MustCompile(`(?i)\bch(?:apter|\.)?\s*(\d+(?:[.,]\d+)?)`)
	// Bare numbers, used when the name has no chapter marker ("Episode 12", "12.5").
	numberPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)`)
)

// RecognizeNumbers extracts the chapter and volume numbers from a chapter name.
// The chapter number is reconcile.UnknownNumber when none is found.
func RecognizeNumbers(name string) (chapter float64, volume *int) {
	chapter = reconcile.UnknownNumber

	rest := name
	if m := volumePattern.FindStringSubmatchIndex(name); m != nil {
		if n, ok := utils.ParseInt(name[m[2]:m[3]]); ok {
			volume = &n
		}
		rest = name[:m[0]] + " " + name[m[1]:]
	}

	if m := chapterPattern.FindStringSubmatch(rest); m != nil {
		if f, ok := utils.ParseFloat(m[1]); ok {
			return f, volume
		}
	}

	// Titles after a separator often carry unrelated numbers.
	if i := strings.Index(rest, " - "); i >= 0 {
		rest = rest[:i]
	}
	if m := numberPattern.FindStringSubmatch(rest); m != nil {
		if f, ok := utils.ParseFloat(m[1]); ok {
			return f, volume
		}
	}
	return chapter, volume
}
