package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"schedguard/internal/app"
	"schedguard/internal/batch"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var batchPath string

	cmd := &cobra.Command{
		Use:     "validate",
		Short:   "Validate one batch file",
		GroupID: "validation",
		Long: `Validate one batch file against the configured store.

Exits 0 when the batch is valid and 2 when it is not. Other failures
(bad input, unreachable store) exit 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configRequired(opts); err != nil {
				return err
			}
			b, err := batch.DecodeFile(batchPath)
			if err != nil {
				return err
			}

			a, err := app.New(opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			runID, res, err := a.ValidateBatch(cmd.Context(), "cli:"+batchPath, b.UserID, b.Blocks, b.Options)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if err := batch.WriteResult(out, batch.ResultFile{RunID: runID, UserID: b.UserID, Source: batchPath, Result: res}); err != nil {
					return err
				}
			} else {
				printResult(out, runID, b.UserID, res)
			}
			if !res.Valid {
				return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("batch is invalid: %d error(s)", len(res.Errors))}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&batchPath, "batch", "b", "", "path to batch JSON file")
	_ = cmd.MarkFlagRequired("batch")
	return cmd
}
