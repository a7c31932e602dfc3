package downloads

// Config holds configuration for the download directory layout.
type Config struct {
	// Prefix is prepended to every object key, e.g. "library/".
	Prefix string `mapstructure:"prefix" default:""`
}
