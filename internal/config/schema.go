package config

// Config is the full Hedwig configuration, loaded once at startup.
type Config struct {
	Global    GlobalConfig    `yaml:"global" mapstructure:"global"`
	Paths     PathsConfig     `yaml:"paths" mapstructure:"paths"`
	API       APIConfig       `yaml:"api" mapstructure:"api"`
	Sync      SyncConfig      `yaml:"sync" mapstructure:"sync"`
	Summary   SummaryConfig   `yaml:"change_summary" mapstructure:"change_summary"`
	DailyLog  DailyLogConfig  `yaml:"daily_log" mapstructure:"daily_log"`
	Overview  OverviewConfig  `yaml:"overview" mapstructure:"overview"`
	Messaging MessagingConfig `yaml:"messaging" mapstructure:"messaging"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
}

// GlobalConfig holds settings shared by every component.
type GlobalConfig struct {
	// IANA timezone name used for all local-time decisions (required).
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// Hour of day (local time) at which the logical day rolls over.
	LogicalDayStart int `yaml:"logical_day_start" mapstructure:"logical_day_start"`
}

// PathsConfig holds every filesystem location Hedwig reads or writes.
type PathsConfig struct {
	NotesRepository      string `yaml:"notes_repository" mapstructure:"notes_repository"`
	ChangeSummaryOutput  string `yaml:"change_summary_output" mapstructure:"change_summary_output"`
	CheckpointFile       string `yaml:"checkpoint_file" mapstructure:"checkpoint_file"`
	BlacklistFile        string `yaml:"blacklist_file" mapstructure:"blacklist_file"`
	UserlistFile         string `yaml:"userlist_file" mapstructure:"userlist_file"`
	UserlistOverrideFile string `yaml:"userlist_override_file" mapstructure:"userlist_override_file"`
}

// APIConfig groups external service credentials and models.
type APIConfig struct {
	Notion NotionAPIConfig `yaml:"notion" mapstructure:"notion"`
	LLM    LLMAPIConfig    `yaml:"llm" mapstructure:"llm"`
}

// NotionAPIConfig configures the document-source API client.
type NotionAPIConfig struct {
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	APIVersion string `yaml:"api_version" mapstructure:"api_version"`
	PageSize   int    `yaml:"page_size" mapstructure:"page_size"`
}

// LLMAPIConfig configures the text-generation backend.
type LLMAPIConfig struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	Key      string `yaml:"key" mapstructure:"key"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`

	DiffSummarizationModel string `yaml:"diff_summarization_model" mapstructure:"diff_summarization_model"`
	DailyLogModel          string `yaml:"daily_log_model" mapstructure:"daily_log_model"`
	OverviewModel          string `yaml:"overview_model" mapstructure:"overview_model"`

	// Optional template overrides. Placeholders use {name} syntax.
	DailyLogPromptTemplate string `yaml:"daily_log_prompt_template" mapstructure:"daily_log_prompt_template"`
	OverviewPromptTemplate string `yaml:"overview_prompt_template" mapstructure:"overview_prompt_template"`
}

// SyncConfig configures the document-source sync pass.
type SyncConfig struct {
	// Days to look back when no checkpoint file exists yet.
	DefaultLookbackDays int `yaml:"default_lookback_days" mapstructure:"default_lookback_days"`

	// Commit message for sync commits; {datetime} is replaced.
	GitCommitTemplate string `yaml:"git_commit_template" mapstructure:"git_commit_template"`
}

// SummaryConfig configures individual change-summary generation.
type SummaryConfig struct {
	// Extraction lookback in days, keyed by lowercase weekday name.
	// Missing weekdays fall back to the built-in defaults.
	MaxAgeByWeekday map[string]int `yaml:"max_age_by_weekday" mapstructure:"max_age_by_weekday"`

	// Diff text longer than this is truncated before summarization.
	MaxDiffLength int `yaml:"max_diff_length" mapstructure:"max_diff_length"`
}

// DailyLogConfig configures structured JSONL log generation.
type DailyLogConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	FileSuffix string `yaml:"file_suffix" mapstructure:"file_suffix"`
}

// OverviewConfig configures overview rollup generation.
type OverviewConfig struct {
	Language string `yaml:"language" mapstructure:"language"`
	Persona  string `yaml:"persona" mapstructure:"persona"`
	TeamInfo string `yaml:"team_info" mapstructure:"team_info"`

	// Per-weekday policy overrides, keyed by lowercase weekday name.
	WeekdayConfig map[string]WeekdayOverride `yaml:"weekday_config" mapstructure:"weekday_config"`

	ExternalContent  ExternalContentConfig  `yaml:"external_content" mapstructure:"external_content"`
	ContextProviders []ContextProviderConfig `yaml:"context_providers" mapstructure:"context_providers"`
}

// WeekdayOverride replaces a single weekday's built-in policy entry.
// A Lookback of 0 disables generation for that weekday.
type WeekdayOverride struct {
	SummaryRange     string `yaml:"summary_range" mapstructure:"summary_range"`
	ForthcomingRange string `yaml:"forthcoming_range" mapstructure:"forthcoming_range"`
	Lookback         *int   `yaml:"lookback" mapstructure:"lookback"`
}

// ExternalContentConfig configures additional per-date markdown inputs.
type ExternalContentConfig struct {
	Enabled bool                   `yaml:"enabled" mapstructure:"enabled"`
	Sources []ExternalSourceConfig `yaml:"sources" mapstructure:"sources"`
}

// ExternalSourceConfig describes one external content source.
type ExternalSourceConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	FileSuffix  string `yaml:"file_suffix" mapstructure:"file_suffix"`
	Description string `yaml:"description" mapstructure:"description"`
	Required    bool   `yaml:"required" mapstructure:"required"`
}

// ContextProviderConfig configures one prompt context provider. Type
// selects the provider ("static", "date", "weather"); the remaining
// fields apply only to the providers that use them.
type ContextProviderConfig struct {
	Type string `yaml:"type" mapstructure:"type"`

	// static
	Content string `yaml:"content" mapstructure:"content"`

	// weather
	Latitude  float64 `yaml:"latitude" mapstructure:"latitude"`
	Longitude float64 `yaml:"longitude" mapstructure:"longitude"`
	CityName  string  `yaml:"city_name" mapstructure:"city_name"`
}

// MessagingConfig configures summary delivery.
type MessagingConfig struct {
	// Name of the active consumer ("slack"), empty to disable posting.
	Active string      `yaml:"active" mapstructure:"active"`
	Slack  SlackConfig `yaml:"slack" mapstructure:"slack"`
}

// SlackConfig configures the Slack consumer.
type SlackConfig struct {
	Token               string `yaml:"token" mapstructure:"token"`
	ChannelID           string `yaml:"channel_id" mapstructure:"channel_id"`
	HeaderMaxLength     int    `yaml:"header_max_length" mapstructure:"header_max_length"`
	PostDetailsInCanvas bool   `yaml:"post_details_in_canvas" mapstructure:"post_details_in_canvas"`
	PostDetailsLink     string `yaml:"post_details_link" mapstructure:"post_details_link"`
}

// PipelineConfig configures the full pipeline run.
type PipelineConfig struct {
	// Title for posted summaries; {date} is replaced with the
	// preceding day's date.
	TitleFormat string `yaml:"title_format" mapstructure:"title_format"`
}
