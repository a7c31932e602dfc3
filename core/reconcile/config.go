package reconcile

// Config holds configuration for the reconciler.
type Config struct {
	// NoVolumeLanguage marks series numbered without volumes when interleaving.
	NoVolumeLanguage string `mapstructure:"no_volume_language" default:"jp"`
}

// NewFromConfig creates a Reconciler from configuration.
func NewFromConfig(cfg Config, opts ...Option) *Reconciler {
	return New(append([]Option{WithNoVolumeLanguage(cfg.NoVolumeLanguage)}, opts...)...)
}
