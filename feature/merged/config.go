package merged

// Config holds configuration for the merged chapter source.
type Config struct {
	// UserAgent is sent with every request; some sites reject the Go default.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RequestsPerSecond throttles page fetches.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"1"`
	// ChapterSelector matches one element per chapter on the series page.
	ChapterSelector string `mapstructure:"chapter_selector" default:".row-content-chapter li"`
	// DateSelector matches the upload date inside a chapter element.
	DateSelector string `mapstructure:"date_selector" default:".chapter-time"`
	// DateLayout parses the date's title attribute, or its text when there is none.
	DateLayout string `mapstructure:"date_layout" default:"Jan 02,2006 15:04"`
	// Scanlator is credited on every merged chapter.
	Scanlator string `mapstructure:"scanlator" default:"Merged"`
	// Language is assigned to every merged chapter.
	Language string `mapstructure:"language" default:"en"`
}
