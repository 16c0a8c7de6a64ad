package config

import (
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Global.Timezone = "UTC"
	cfg.Paths.NotesRepository = t.TempDir()
	cfg.Paths.ChangeSummaryOutput = t.TempDir()
	cfg.Paths.CheckpointFile = "/tmp/checkpoint"
	cfg.API.Notion.APIKey = "secret"
	cfg.API.LLM.Key = "secret"
	return cfg
}

func hasIssue(issues []Issue, severity Severity, substr string) bool {
	for _, is := range issues {
		if is.Severity == severity && strings.Contains(is.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateMissingPaths(t *testing.T) {
	cfg := validConfig(t)
	cfg.Paths.NotesRepository = ""
	cfg.Paths.CheckpointFile = ""

	issues := cfg.Validate()
	if !hasIssue(issues, SeverityError, "notes_repository") {
		t.Error("missing notes_repository should be an error")
	}
	if !hasIssue(issues, SeverityError, "checkpoint_file") {
		t.Error("missing checkpoint_file should be an error")
	}
}

func TestValidateTimezone(t *testing.T) {
	cfg := validConfig(t)
	cfg.Global.Timezone = "Mars/Olympus"

	if !hasIssue(cfg.Validate(), SeverityError, "invalid timezone") {
		t.Error("bogus timezone should be an error")
	}

	cfg.Global.Timezone = ""
	if !hasIssue(cfg.Validate(), SeverityError, "global.timezone") {
		t.Error("empty timezone should be an error")
	}
}

func TestValidateAPIKeys(t *testing.T) {
	cfg := validConfig(t)
	cfg.API.Notion.APIKey = ""
	t.Setenv("NOTION_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	if !hasIssue(cfg.Validate(), SeverityError, "Notion API key") {
		t.Error("missing Notion key should be an error")
	}

	t.Setenv("NOTION_API_KEY", "from-env")
	if hasIssue(cfg.Validate(), SeverityError, "Notion API key") {
		t.Error("env fallback should satisfy the Notion key check")
	}

	cfg.API.LLM.Key = ""
	if !hasIssue(cfg.Validate(), SeverityError, "LLM API key") {
		t.Error("missing LLM key should be an error")
	}
	t.Setenv("GEMINI_API_KEY", "from-env")
	if hasIssue(cfg.Validate(), SeverityError, "LLM API key") {
		t.Error("GEMINI_API_KEY should satisfy the LLM key check")
	}
}

func TestValidateProvider(t *testing.T) {
	cfg := validConfig(t)
	cfg.API.LLM.Provider = "openrouter"
	if !hasIssue(cfg.Validate(), SeverityError, "unsupported LLM provider") {
		t.Error("unknown provider should be an error")
	}
}

func TestValidateMessaging(t *testing.T) {
	cfg := validConfig(t)

	cfg.Messaging.Active = ""
	if !hasIssue(cfg.Validate(), SeverityInfo, "no messaging platform") {
		t.Error("empty messaging.active should only be informational")
	}

	cfg.Messaging.Active = "slack"
	cfg.Messaging.Slack.Token = ""
	t.Setenv("SLACK_TOKEN", "")
	if !hasIssue(cfg.Validate(), SeverityError, "Slack token") {
		t.Error("missing Slack token should be an error")
	}

	cfg.Messaging.Slack.Token = "not-a-token"
	if !hasIssue(cfg.Validate(), SeverityWarning, "xoxb-") {
		t.Error("malformed Slack token should warn")
	}

	cfg.Messaging.Slack.Token = "xoxb-123"
	if hasIssue(cfg.Validate(), SeverityError, "Slack token") {
		t.Error("valid token should not error")
	}
}

func TestValidateWeekdaysAndLanguage(t *testing.T) {
	cfg := validConfig(t)
	cfg.Summary.MaxAgeByWeekday = map[string]int{"funday": 1, "monday": -1}
	cfg.Overview.Language = "fr"
	cfg.Overview.WeekdayConfig = map[string]WeekdayOverride{"moonday": {}}

	issues := cfg.Validate()
	if !hasIssue(issues, SeverityWarning, "funday") {
		t.Error("invalid weekday name should warn")
	}
	if !hasIssue(issues, SeverityWarning, "max_age value for monday") {
		t.Error("non-positive max_age should warn")
	}
	if !hasIssue(issues, SeverityError, "unsupported overview language") {
		t.Error("unsupported language should be an error")
	}
	if !hasIssue(issues, SeverityWarning, "moonday") {
		t.Error("invalid overview weekday should warn")
	}
}

func TestValidateCleanConfig(t *testing.T) {
	cfg := validConfig(t)
	if errs := Errors(cfg.Validate()); len(errs) != 0 {
		t.Errorf("valid config produced errors: %v", errs)
	}
}
