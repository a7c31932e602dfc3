package mangadex

// Config holds configuration for the MangaDex chapter source.
type Config struct {
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.mangadex.org"`
	// Languages lists the chapter languages kept, as MangaDex language codes.
	Languages []string `mapstructure:"languages" default:"en"`
	// RequestsPerSecond throttles every request made by the client.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"3"`
	// TimeoutSeconds bounds a single request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"chapter-sync"`
}
