package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChangLabSNU/Hedwig/internal/artifact"
	"github.com/ChangLabSNU/Hedwig/internal/messaging"
	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
)

func newPostCommand(a *app) *cobra.Command {
	var dateFlag, summaryFile, overviewFile, title string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Deliver a generated overview to the configured platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			now, err := a.timeFor(dateFlag)
			if err != nil {
				return err
			}
			date := timeutil.LogicalDate(now, a.loc, a.cfg.Global.LogicalDayStart)
			store := a.store()

			overviewText, err := readOrArtifact(overviewFile, store, date, artifact.SuffixOverview)
			if err != nil {
				return fmt.Errorf("no overview to post: %w", err)
			}
			details, _ := readOrArtifact(summaryFile, store, date, artifact.SuffixIndividual)

			if title == "" {
				yesterday := date.AddDate(0, 0, -1).Format("2006-01-02")
				title = strings.ReplaceAll(a.cfg.Pipeline.TitleFormat, "{date}", yesterday)
			}

			messenger, err := a.messenger()
			if err != nil {
				return err
			}
			if !messenger.HasConsumers() {
				return fmt.Errorf("no messaging platform configured")
			}

			results := messenger.PostAll(cmd.Context(), messaging.Content{
				Title:   title,
				Summary: strings.TrimSpace(overviewText),
				Details: details,
			})
			for _, res := range results {
				if !res.OK {
					return fmt.Errorf("delivery to %s failed: %s", res.Consumer, res.Error)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dateFlag, "date", "", "target date (YYYY-MM-DD) instead of today")
	cmd.Flags().StringVar(&summaryFile, "summary-file", "", "file with the long-form details")
	cmd.Flags().StringVar(&overviewFile, "overview-file", "", "file with the overview body")
	cmd.Flags().StringVar(&title, "title", "", "message title")
	return cmd
}

// readOrArtifact reads an explicit file when given, otherwise the dated
// artifact.
func readOrArtifact(path string, store *artifact.Store, date time.Time, suffix string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := store.Read(date, suffix)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
