// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the status of the last generation run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			last, err := a.stateStore().ReadLastRun()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(last)
			}

			if last == nil {
				_, _ = fmt.Fprintln(out, "No run state found.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Run:     %s\n", last.RunID)
			_, _ = fmt.Fprintf(out, "Source:  %s\n", last.Source)
			_, _ = fmt.Fprintf(out, "Status:  %s\n", last.Status)
			_, _ = fmt.Fprintf(out, "Records: %d\n", len(last.Records))
			if len(last.Failed) == 0 && len(last.Skipped) == 0 {
				_, _ = fmt.Fprintln(out, "All passed.")
				return nil
			}
			if len(last.Failed) > 0 {
				_, _ = fmt.Fprintln(out, "Failed:")
				for _, key := range last.Failed {
					line := "  - " + key
					if res, err := a.stateStore().ReadResult(key); err == nil && res != nil && res.Error != "" {
						line += ": " + res.Error
					}
					_, _ = fmt.Fprintln(out, line)
				}
			}
			if len(last.Skipped) > 0 {
				_, _ = fmt.Fprintln(out, "Skipped:")
				for _, key := range last.Skipped {
					_, _ = fmt.Fprintln(out, "  - "+key)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output the last run as JSON")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear generation run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := a.stateStore()
			if err := store.Reset(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", store.Dir())
			return nil
		},
	}
}
