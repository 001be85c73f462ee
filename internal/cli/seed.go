package cli

import (
	"github.com/spf13/cobra"

	"schedguard/internal/app"
	"schedguard/internal/store"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "seed",
		Short:   "Load users, tasks, habits and events from a YAML fixture",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configRequired(opts); err != nil {
				return err
			}
			fx, err := store.LoadFixtures(file)
			if err != nil {
				return err
			}
			a, err := app.New(opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			counts, err := store.Seed(cmd.Context(), a.Store(), fx)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), counts)
			}
			_, _ = successColor.Fprintf(cmd.OutOrStdout(), "✓ seeded %d users, %d tasks, %d habits, %d events\n",
				counts.Users, counts.Tasks, counts.Habits, counts.Events)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to fixtures YAML")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAuditCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "audit",
		Short:   "List recent validation runs",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configRequired(opts); err != nil {
				return err
			}
			a, err := app.New(opts.configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.Store().RecentAudit(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			printAudit(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	return cmd
}
