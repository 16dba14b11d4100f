package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/noshowboard/internal/pipeline"
	"github.com/KaramelBytes/noshowboard/internal/utils"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the cleaning pipeline once and persist the cleaned CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, stats, err := pipeline.Run(cfg.InputCSV, cfg.OutputCSV)
		if err != nil {
			return err
		}
		summary := map[string]any{
			"snapshot_id": t.SnapshotID,
			"source":      cfg.InputCSV,
			"output":      cfg.OutputCSV,
			"stats":       stats,
		}
		b, err := utils.PrettyJSON(summary)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
