// ABOUTME: Doctor command comparing database rows against mirror artifacts
// ABOUTME: Reports crash leftovers and optionally repairs them
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/seanblair/codepac/internal/config"
)

func newDoctorCmd(cfg *config.Config) *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check consistency between the database and mirror files",
		Long:  `A crash between the database write and the mirror write can leave the two out of step. Doctor finds missing mirror files, orphaned artifacts, and stale staging entries; --fix rebuilds or removes them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(st)

			report, err := st.Verify()
			if err != nil {
				return err
			}

			if report.Clean() {
				color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Store is consistent")
				return nil
			}

			warn := color.New(color.FgYellow)
			for _, name := range report.MissingSnippetFiles {
				warn.Fprintf(cmd.OutOrStdout(), "missing mirror file for snippet %q\n", name)
			}
			for _, file := range report.OrphanSnippetFiles {
				warn.Fprintf(cmd.OutOrStdout(), "orphan snippet file %s\n", file)
			}
			for _, name := range report.MissingPackageDirs {
				warn.Fprintf(cmd.OutOrStdout(), "missing mirror directory for package %q\n", name)
			}
			for _, name := range report.MissingManifests {
				warn.Fprintf(cmd.OutOrStdout(), "missing manifest for package %q\n", name)
			}
			for _, dir := range report.OrphanPackageDirs {
				warn.Fprintf(cmd.OutOrStdout(), "orphan package directory %s\n", dir)
			}
			for _, entry := range report.StaleStaging {
				warn.Fprintf(cmd.OutOrStdout(), "stale staging entry %s\n", entry)
			}

			if !fix {
				cmd.Println("\nRun with --fix to repair")
				return nil
			}

			actions, err := st.Repair(report)
			for _, action := range actions {
				cmd.Printf("fixed: %s\n", action)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair the mismatches found")
	return cmd
}
