package config

// DefaultConfig returns the built-in configuration. Every field that has a
// meaningful default is set here so loaded files only need to override what
// they care about.
func DefaultConfig() *Config {
	return &Config{
		Global: GlobalConfig{
			Timezone:        "",
			LogicalDayStart: 4,
		},
		API: APIConfig{
			Notion: NotionAPIConfig{
				APIVersion: "2022-06-28",
				PageSize:   100,
			},
			LLM: LLMAPIConfig{
				Provider:               "gemini",
				DiffSummarizationModel: "gemini-2.5-flash",
				DailyLogModel:          "gemini-2.5-pro",
				OverviewModel:          "gemini-2.5-pro",
			},
		},
		Sync: SyncConfig{
			DefaultLookbackDays: 7,
			GitCommitTemplate:   "Automated commit: {datetime}",
		},
		Summary: SummaryConfig{
			MaxDiffLength: 30000,
		},
		DailyLog: DailyLogConfig{
			Enabled:    true,
			FileSuffix: "-daily.jsonl",
		},
		Overview: OverviewConfig{
			Language: "en",
			Persona:  "Hedwig",
			TeamInfo: "a research team maintaining shared project notes",
		},
		Messaging: MessagingConfig{
			Slack: SlackConfig{
				HeaderMaxLength:     150,
				PostDetailsInCanvas: true,
			},
		},
		Pipeline: PipelineConfig{
			TitleFormat: "Research Notes {date}",
		},
	}
}

// DefaultMaxAgeDays is the extraction lookback table used when
// change_summary.max_age_by_weekday does not override a weekday.
var DefaultMaxAgeDays = map[string]int{
	"monday":    2,
	"tuesday":   1,
	"wednesday": 1,
	"thursday":  1,
	"friday":    1,
	"saturday":  1,
	"sunday":    1,
}
