package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding.
type Issue struct {
	Severity Severity
	Message  string
}

var validWeekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

var validLanguages = map[string]bool{
	"en": true, "ko": true, "ja": true, "zh_CN": true, "zh_TW": true,
}

// Validate checks the configuration and returns every finding. Callers that
// need fail-fast behavior should treat any SeverityError issue as fatal.
func (c *Config) Validate() []Issue {
	var issues []Issue

	issues = append(issues, c.validatePaths()...)
	issues = append(issues, c.validateGlobal()...)
	issues = append(issues, c.validateAPI()...)
	issues = append(issues, c.validateMessaging()...)
	issues = append(issues, c.validateSummary()...)
	issues = append(issues, c.validateOverview()...)

	return issues
}

// Errors filters issues down to the fatal ones.
func Errors(issues []Issue) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Severity == SeverityError {
			out = append(out, is)
		}
	}
	return out
}

func (c *Config) validatePaths() []Issue {
	var issues []Issue

	required := []struct {
		value, name, description string
	}{
		{c.Paths.NotesRepository, "notes_repository", "git repository of synced documents"},
		{c.Paths.ChangeSummaryOutput, "change_summary_output", "directory for generated artifacts"},
		{c.Paths.CheckpointFile, "checkpoint_file", "checkpoint file for sync tracking"},
	}
	for _, r := range required {
		if r.value == "" {
			issues = append(issues, Issue{SeverityError,
				fmt.Sprintf("missing required path: paths.%s (%s)", r.name, r.description)})
		}
	}

	if repo := c.Paths.NotesRepository; repo != "" {
		if _, err := os.Stat(repo); err != nil {
			issues = append(issues, Issue{SeverityWarning,
				fmt.Sprintf("notes repository path does not exist: %s", repo)})
		} else if _, err := os.Stat(filepath.Join(repo, ".git")); err != nil {
			issues = append(issues, Issue{SeverityWarning,
				fmt.Sprintf("notes repository is not a git repository: %s", repo)})
		}
	}

	return issues
}

func (c *Config) validateGlobal() []Issue {
	var issues []Issue

	if c.Global.Timezone == "" {
		issues = append(issues, Issue{SeverityError, "missing required setting: global.timezone"})
	} else if _, err := time.LoadLocation(c.Global.Timezone); err != nil {
		issues = append(issues, Issue{SeverityError,
			fmt.Sprintf("invalid timezone %q; use an IANA name like \"Asia/Seoul\"", c.Global.Timezone)})
	}

	if c.Global.LogicalDayStart < 0 || c.Global.LogicalDayStart > 23 {
		issues = append(issues, Issue{SeverityWarning,
			fmt.Sprintf("global.logical_day_start %d out of range, the default of 4 will be used", c.Global.LogicalDayStart)})
	}

	return issues
}

func (c *Config) validateAPI() []Issue {
	var issues []Issue

	if c.API.Notion.APIKey == "" && os.Getenv("NOTION_API_KEY") == "" {
		issues = append(issues, Issue{SeverityError,
			"missing Notion API key: set api.notion.api_key or NOTION_API_KEY"})
	}

	hasEnvKey := os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("ANTHROPIC_API_KEY") != ""
	if c.API.LLM.Key == "" && !hasEnvKey {
		issues = append(issues, Issue{SeverityError,
			"missing LLM API key: set api.llm.key or GEMINI_API_KEY/ANTHROPIC_API_KEY"})
	}

	switch c.API.LLM.Provider {
	case "", "gemini", "anthropic":
	default:
		issues = append(issues, Issue{SeverityError,
			fmt.Sprintf("unsupported LLM provider: %s", c.API.LLM.Provider)})
	}

	return issues
}

func (c *Config) validateMessaging() []Issue {
	var issues []Issue

	if c.Messaging.Active == "" {
		issues = append(issues, Issue{SeverityInfo,
			"no messaging platform configured; summary posting will be skipped"})
		return issues
	}

	if c.Messaging.Active != "slack" {
		issues = append(issues, Issue{SeverityWarning,
			fmt.Sprintf("unknown messaging platform: %s (only \"slack\" is supported)", c.Messaging.Active)})
		return issues
	}

	token := c.Messaging.Slack.Token
	if token == "" {
		if os.Getenv("SLACK_TOKEN") == "" {
			issues = append(issues, Issue{SeverityError,
				"missing Slack token: set messaging.slack.token or SLACK_TOKEN"})
		}
	} else if !strings.HasPrefix(token, "xoxb-") && !strings.HasPrefix(token, "xoxp-") {
		issues = append(issues, Issue{SeverityWarning,
			`Slack token should start with "xoxb-" or "xoxp-"`})
	}

	if c.Messaging.Slack.ChannelID == "" {
		issues = append(issues, Issue{SeverityWarning,
			"missing messaging.slack.channel_id; a channel must be given when posting"})
	}

	return issues
}

func (c *Config) validateSummary() []Issue {
	var issues []Issue

	for weekday, days := range c.Summary.MaxAgeByWeekday {
		if !validWeekdays[weekday] {
			issues = append(issues, Issue{SeverityWarning,
				fmt.Sprintf("invalid weekday in change_summary.max_age_by_weekday: %s", weekday)})
		} else if days <= 0 {
			issues = append(issues, Issue{SeverityWarning,
				fmt.Sprintf("invalid max_age value for %s: %d (must be positive)", weekday, days)})
		}
	}

	if c.Summary.MaxDiffLength <= 0 {
		issues = append(issues, Issue{SeverityWarning,
			fmt.Sprintf("invalid change_summary.max_diff_length: %d", c.Summary.MaxDiffLength)})
	}

	return issues
}

func (c *Config) validateOverview() []Issue {
	var issues []Issue

	if !validLanguages[c.Overview.Language] {
		issues = append(issues, Issue{SeverityError,
			fmt.Sprintf("unsupported overview language: %s", c.Overview.Language)})
	}

	for weekday := range c.Overview.WeekdayConfig {
		if !validWeekdays[weekday] {
			issues = append(issues, Issue{SeverityWarning,
				fmt.Sprintf("invalid weekday in overview.weekday_config: %s", weekday)})
		}
	}

	for _, source := range c.Overview.ExternalContent.Sources {
		if source.FileSuffix == "" {
			issues = append(issues, Issue{SeverityWarning,
				fmt.Sprintf("external content source %q has no file_suffix and will be ignored", source.Name)})
		}
	}

	for _, provider := range c.Overview.ContextProviders {
		if provider.Type != "weather" {
			continue
		}
		if provider.Latitude == 0 && provider.Longitude == 0 {
			issues = append(issues, Issue{SeverityWarning,
				"weather provider configured but latitude/longitude are not set"})
		}
		if provider.CityName == "" {
			issues = append(issues, Issue{SeverityInfo,
				`weather provider: city_name not set, "the location" will be used`})
		}
	}

	return issues
}
