package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChangLabSNU/Hedwig/internal/notion"
	"github.com/ChangLabSNU/Hedwig/internal/pipeline"
)

// syncAdapter narrows the notion syncer to the stage interface the
// pipeline runner expects.
type syncAdapter struct {
	syncer *notion.Syncer
}

func (s syncAdapter) Sync(ctx context.Context, now time.Time) error {
	_, err := s.syncer.Sync(ctx, now)
	return err
}

func newPipelineCommand(a *app) *cobra.Command {
	var dateFlag string
	var force, noPosting bool

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run sync, summarization, daily log, overview, and delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			now, err := a.timeFor(dateFlag)
			if err != nil {
				return err
			}

			store := a.store()
			syncer, err := a.syncer(false)
			if err != nil {
				return err
			}
			sumGen, err := a.summaryGenerator(store)
			if err != nil {
				return err
			}
			ovGen, err := a.overviewGenerator(store)
			if err != nil {
				return err
			}
			messenger, err := a.messenger()
			if err != nil {
				return err
			}

			runner := &pipeline.Runner{
				Syncer:      syncAdapter{syncer},
				Summary:     sumGen,
				Overview:    ovGen,
				Messenger:   messenger,
				Store:       store,
				External:    a.externalManager(store),
				Logger:      a.logger,
				TitleFormat: a.cfg.Pipeline.TitleFormat,
				Location:    a.loc,
				DayStart:    a.cfg.Global.LogicalDayStart,
				Force:       force,
			}
			if a.cfg.DailyLog.Enabled {
				dlGen, err := a.dailyLogGenerator(store)
				if err != nil {
					return err
				}
				runner.DailyLog = dlGen
			}

			if !runner.Run(cmd.Context(), now, !noPosting) {
				return fmt.Errorf("pipeline run failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "target date (YYYY-MM-DD) instead of today")
	cmd.Flags().BoolVar(&force, "force", false, "regenerate artifacts even when fresh")
	cmd.Flags().BoolVar(&noPosting, "no-posting", false, "run all stages but skip message delivery")
	return cmd
}
