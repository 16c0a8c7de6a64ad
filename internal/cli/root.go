// Package cli implements the hedwig command tree.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChangLabSNU/Hedwig/internal/config"
	"github.com/ChangLabSNU/Hedwig/internal/logging"
	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
)

// app carries the loaded configuration and shared state across commands.
type app struct {
	cfgPath string
	quiet   bool
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
	loc    *time.Location
}

// setup loads configuration and installs the logger. Validation errors are
// fatal; warnings are logged and otherwise ignored.
func (a *app) setup() error {
	a.logger = logging.Setup(logging.Options{Quiet: a.quiet, Verbose: a.verbose})

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	issues := cfg.Validate()
	for _, issue := range issues {
		switch issue.Severity {
		case config.SeverityError:
			a.logger.Error(issue.Message)
		case config.SeverityWarning:
			a.logger.Warn(issue.Message)
		default:
			a.logger.Debug(issue.Message)
		}
	}
	if errs := config.Errors(issues); len(errs) > 0 {
		return fmt.Errorf("configuration has %d error(s)", len(errs))
	}

	loc, err := timeutil.Location(cfg.Global.Timezone)
	if err != nil {
		return err
	}
	a.loc = loc
	return nil
}

// timeFor resolves the reference time for a stage: the wall clock, or
// noon local time on an explicit --date.
func (a *app) timeFor(dateFlag string) (time.Time, error) {
	if dateFlag == "" {
		return time.Now(), nil
	}
	d, err := time.ParseInLocation("2006-01-02", dateFlag, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", dateFlag)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, a.loc), nil
}

// NewRootCommand builds the hedwig command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "hedwig",
		Short:         "Summarize and deliver changes to shared research notes",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "path to config.yml")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only log warnings and errors")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newSyncCommand(a),
		newSyncUserlistCommand(a),
		newSummarizeCommand(a),
		newDailyLogCommand(a),
		newOverviewCommand(a),
		newPostCommand(a),
		newPipelineCommand(a),
		newDoctorCommand(a),
		newConfigCommand(a),
		newVersionCommand(),
	)
	return root
}
