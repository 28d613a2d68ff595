package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshForce bool

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the component pool from all metadata sources",
	Long: `Parse all configured metainfo and catalog locations, merge the results
and write the component cache.

Without --force the rebuild is skipped when no source changed since the
cache was written.

Examples:
  appstream refresh
  appstream refresh --force`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshForce, "force", false, "rebuild even if no source changed")
}

func runRefresh(cmd *cobra.Command, args []string) error {
	p, res, err := loadPool(cmd.Context(), refreshForce)
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	defer p.Close()

	if res.FromCache {
		fmt.Printf("Cache is up to date (%d components)\n", res.Components)
		return nil
	}
	fmt.Printf("Refresh %s: %d components", res.Outcome, res.Components)
	if len(res.Warnings) > 0 {
		fmt.Printf(", %d warnings", len(res.Warnings))
	}
	fmt.Println()
	return nil
}
