package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ChangLabSNU/Hedwig/internal/config"
)

const starterConfig = `# Hedwig configuration.

global:
  # IANA timezone for all date decisions.
  timezone: Asia/Seoul
  # Hour at which the logical day rolls over.
  logical_day_start: 4

paths:
  notes_repository: ~/hedwig/notes
  change_summary_output: ~/hedwig/summaries
  checkpoint_file: ~/hedwig/checkpoint
  # blacklist_file: ~/hedwig/blacklist
  # userlist_file: ~/hedwig/userlist.tsv
  # userlist_override_file: ~/hedwig/userlist-override.tsv

api:
  notion:
    api_key: ""          # or NOTION_API_KEY
  llm:
    provider: gemini     # gemini or anthropic
    key: ""              # or GEMINI_API_KEY / ANTHROPIC_API_KEY

overview:
  language: en           # en, ko, ja, zh_CN, zh_TW
  persona: Hedwig
  team_info: a research team maintaining shared project notes
  # context_providers:
  #   - type: date
  #   - type: weather
  #     latitude: 37.56
  #     longitude: 126.97
  #     city_name: Seoul

messaging:
  active: ""             # set to "slack" to enable posting
  slack:
    token: ""            # or SLACK_TOKEN
    channel_id: ""
`

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or bootstrap the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigShowCommand(a))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, not overwriting", path)
			}
			if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "output", "o", "config.yml", "where to write the starter file")
	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}

			redacted := *cfg
			redacted.API.Notion.APIKey = redact(cfg.API.Notion.APIKey)
			redacted.API.LLM.Key = redact(cfg.API.LLM.Key)
			redacted.Messaging.Slack.Token = redact(cfg.Messaging.Slack.Token)

			out, err := yaml.Marshal(&redacted)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "<redacted>"
}
