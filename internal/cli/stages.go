package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChangLabSNU/Hedwig/internal/notion"
)

func newSyncCommand(a *app) *cobra.Command {
	var noWrite bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror recently edited pages into the notes repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			syncer, err := a.syncer(noWrite)
			if err != nil {
				return err
			}
			res, err := syncer.Sync(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			a.logger.Info("sync finished",
				"found", res.Found, "exported", res.Exported,
				"skipped", res.Skipped, "committed", res.Committed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWrite, "no-write", false, "report what would change without writing")
	return cmd
}

func newSyncUserlistCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-userlist",
		Short: "Refresh the user ID to name table from the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			client, err := a.notionClient()
			if err != nil {
				return err
			}
			if a.cfg.Paths.UserlistFile == "" {
				return fmt.Errorf("paths.userlist_file is not configured")
			}
			n, err := notion.SyncUserlist(cmd.Context(), client,
				a.cfg.Paths.UserlistFile, a.cfg.Paths.UserlistOverrideFile, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("userlist synced", "users", n)
			return nil
		},
	}
}

func newSummarizeCommand(a *app) *cobra.Command {
	var dateFlag string
	var force, noWrite bool

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Generate per-document change summaries for the logical day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			now, err := a.timeFor(dateFlag)
			if err != nil {
				return err
			}

			store := a.store()
			store.SetDryRun(noWrite)
			gen, err := a.summaryGenerator(store)
			if err != nil {
				return err
			}
			res, err := gen.Generate(cmd.Context(), now, force)
			if err != nil {
				return err
			}
			a.logger.Info("summarize finished",
				"path", res.Path, "changes", res.Changes, "skipped", res.Skipped)
			return nil
		},
	}
	addStageFlags(cmd, &dateFlag, &force, &noWrite)
	return cmd
}

func newDailyLogCommand(a *app) *cobra.Command {
	var dateFlag string
	var force, noWrite bool

	cmd := &cobra.Command{
		Use:   "daily-log",
		Short: "Distill the day's summaries into a structured activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			if !a.cfg.DailyLog.Enabled {
				a.logger.Warn("daily log generation is disabled in configuration")
				return nil
			}
			now, err := a.timeFor(dateFlag)
			if err != nil {
				return err
			}

			store := a.store()
			store.SetDryRun(noWrite)
			gen, err := a.dailyLogGenerator(store)
			if err != nil {
				return err
			}
			res, err := gen.Generate(cmd.Context(), now, force)
			if err != nil {
				return err
			}
			a.logger.Info("daily log finished",
				"path", res.Path, "records", res.Records, "skipped", res.Skipped)
			return nil
		},
	}
	addStageFlags(cmd, &dateFlag, &force, &noWrite)
	return cmd
}

func newOverviewCommand(a *app) *cobra.Command {
	var dateFlag string
	var force, noWrite bool

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Roll recent activity logs into a team overview message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			now, err := a.timeFor(dateFlag)
			if err != nil {
				return err
			}

			store := a.store()
			store.SetDryRun(noWrite)
			gen, err := a.overviewGenerator(store)
			if err != nil {
				return err
			}
			res, err := gen.Generate(cmd.Context(), now, force)
			if err != nil {
				return err
			}
			switch {
			case res.Disabled:
				a.logger.Info("overview disabled for this weekday")
			case res.Content == "":
				a.logger.Info("no activity to summarize")
			case noWrite:
				fmt.Fprintln(cmd.OutOrStdout(), res.Content)
			default:
				a.logger.Info("overview finished", "path", res.Path, "skipped", res.Skipped)
			}
			return nil
		},
	}
	addStageFlags(cmd, &dateFlag, &force, &noWrite)
	return cmd
}

func addStageFlags(cmd *cobra.Command, dateFlag *string, force, noWrite *bool) {
	cmd.Flags().StringVar(dateFlag, "date", "", "target date (YYYY-MM-DD) instead of today")
	cmd.Flags().BoolVar(force, "force", false, "regenerate even when the artifact is fresh")
	cmd.Flags().BoolVar(noWrite, "no-write", false, "generate without writing artifacts")
}
