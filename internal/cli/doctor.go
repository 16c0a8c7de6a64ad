package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/ChangLabSNU/Hedwig/internal/config"
	"github.com/ChangLabSNU/Hedwig/internal/logging"
	"github.com/ChangLabSNU/Hedwig/internal/timeutil"
)

// Doctor exit codes.
const (
	doctorOK       = 0
	doctorDegraded = 1
	doctorCritical = 2
)

func newDoctorCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and environment health",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Doctor reports through its exit code, so configuration
			// errors must not abort it the way setup() would.
			a.logger = logging.Setup(logging.Options{Quiet: a.quiet, Verbose: a.verbose})
			out := cmd.OutOrStdout()

			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				fmt.Fprintf(out, "critical: %v\n", err)
				return exitError(doctorCritical)
			}

			worst := doctorOK
			for _, issue := range cfg.Validate() {
				switch issue.Severity {
				case config.SeverityError:
					fmt.Fprintf(out, "error: %s\n", issue.Message)
					worst = doctorCritical
				case config.SeverityWarning:
					fmt.Fprintf(out, "warning: %s\n", issue.Message)
					if worst < doctorDegraded {
						worst = doctorDegraded
					}
				default:
					fmt.Fprintf(out, "info: %s\n", issue.Message)
				}
			}

			if _, err := exec.LookPath("git"); err != nil {
				fmt.Fprintln(out, "error: git binary not found in PATH")
				worst = doctorCritical
			}
			if cfg.Global.Timezone != "" {
				if _, err := timeutil.Location(cfg.Global.Timezone); err == nil {
					fmt.Fprintf(out, "ok: timezone %s\n", cfg.Global.Timezone)
				}
			}

			switch worst {
			case doctorOK:
				fmt.Fprintln(out, "ok: configuration looks healthy")
				return nil
			default:
				return exitError(worst)
			}
		},
	}
}

// exitError carries a process exit code through cobra's error path.
type exitError int

func (e exitError) Error() string {
	return fmt.Sprintf("doctor found problems (exit %d)", int(e))
}

// Code returns the exit code a main function should use for err, or 1
// for generic failures.
func Code(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := err.(exitError); ok {
		return int(code)
	}
	return 1
}
