package config

// Config is the root configuration document. It is parsed strictly: unknown
// fields are rejected so typos surface immediately.
//
// All duration-valued fields are Go duration strings (e.g. "500ms", "10s").
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Storage StorageConfig `json:"storage"`

	// Posting controls the scheduling passes.
	Posting PostingConfig `json:"posting"`

	Telegram *TelegramConfig `json:"telegram,omitempty"`
	Github   GithubConfig    `json:"github"`
}

type LoggingConfig struct {
	Level   string            `json:"level,omitempty"`
	Console bool              `json:"console,omitempty"`
	File    LoggingFileConfig `json:"file,omitempty"`
}

type LoggingFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

type StorageConfig struct {
	Path string `json:"path"`
	// BusyTimeout is a Go duration string; empty means the driver default.
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

// PostingConfig drives the scheduling loop.
type PostingConfig struct {
	Enabled bool `json:"enabled"`

	// Schedule is a cron spec for posting passes (e.g. "*/15 * * * *").
	Schedule string `json:"schedule,omitempty"`

	// Timezone is an IANA TZ name; posting-rule hours are evaluated in it.
	Timezone string `json:"timezone,omitempty"`

	// Maintenance toggles the inbox/trash exchange pass that runs before
	// each posting pass.
	Maintenance bool `json:"maintenance,omitempty"`
}

type TelegramConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  int64  `json:"chat_id"`
	// PollTimeout is a Go duration string (default "10s").
	PollTimeout string `json:"poll_timeout,omitempty"`
	RatePerMin  int    `json:"rate_per_min,omitempty"`
}

type GithubConfig struct {
	// Repo is the "owner/name" slug used for prefilled issue URLs.
	Repo string `json:"repo,omitempty"`
}
