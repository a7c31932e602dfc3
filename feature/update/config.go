package update

// Ranking orders the manga of an update campaign.
const (
	RankingAlphabetical = "alphabetical"
	RankingLastUpdate   = "last_update"
)

// Config holds configuration for library update campaigns.
type Config struct {
	// MaxConcurrency caps how many source groups are updated in parallel.
	MaxConcurrency int `mapstructure:"max_concurrency" default:"4"`
	// DeleteRemoved removes downloads of chapters the source no longer lists.
	DeleteRemoved bool `mapstructure:"delete_removed" default:"false"`
	// DownloadNew queues new chapters for download.
	DownloadNew bool `mapstructure:"download_new" default:"false"`
	// OnlyNonCompleted skips completed series.
	OnlyNonCompleted bool `mapstructure:"only_non_completed" default:"true"`
	// Ranking is either "alphabetical" or "last_update".
	Ranking string `mapstructure:"ranking" default:"alphabetical"`
}
