package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the persistent tree cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the number of cached trees and the database size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			stats, enabled, err := svc.StoreStats()
			if err != nil {
				return err
			}
			if !enabled {
				fmt.Fprintln(a.out, "tree cache disabled (enable cache.enabled or pass --cache)")
				return nil
			}
			fmt.Fprintf(a.out, "path:    %s\nentries: %d\nbytes:   %d\n", stats.Path, stats.Entries, stats.Bytes)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Remove every cached tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.newService()
			if err != nil {
				return err
			}
			defer svc.Close()

			removed, err := svc.PurgeStore()
			if err != nil {
				return err
			}
			a.diagnostics.Success("removed %d cached trees", removed)
			return nil
		},
	})

	return cmd
}
