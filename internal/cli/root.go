package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ExitInvalid is the process exit code for a batch that failed validation.
const ExitInvalid = 2

// ExitError carries a non-default process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

type rootOptions struct {
	configPath string
	jsonOutput bool
}

// NewRootCmd builds the schedguard command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	if version == "" {
		version = "dev"
	}

	root := &cobra.Command{
		Use:     "schedguard",
		Version: version,
		Short:   "Validate proposed schedule placements before they are committed",
		Long: `schedguard checks batches of proposed time blocks against a user's
tasks, habits, waking hours and external calendar.

It runs one batch at a time (validate) or as a spool that watches a
directory for batch files (watch).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "./config.yaml", "path to config (json or yaml)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output in JSON format")

	root.AddGroup(&cobra.Group{ID: "validation", Title: "Validation:"})
	root.AddGroup(&cobra.Group{ID: "data", Title: "Data:"})

	root.AddCommand(
		newValidateCmd(opts),
		newWatchCmd(opts),
		newSeedCmd(opts),
		newAuditCmd(opts),
	)
	return root
}

func configRequired(opts *rootOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("--config is required")
	}
	return nil
}
