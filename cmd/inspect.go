package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/noshowboard/internal/dataset"
	"github.com/KaramelBytes/noshowboard/internal/pipeline"
	"github.com/KaramelBytes/noshowboard/internal/report"
	"github.com/KaramelBytes/noshowboard/internal/utils"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Clean the dataset in memory and print an overview",
	Long: `inspect loads and cleans the source CSV without persisting anything, then
prints row counts, the outcome balance, the busiest neighbourhoods and
per-column fill/cardinality.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := dataset.Load(cfg.InputCSV)
		if err != nil {
			return err
		}
		t, stats, err := pipeline.Clean(raw)
		if err != nil {
			return err
		}
		if debug {
			fmt.Printf("rows in: %d, dropped age: %d, dropped delay: %d\n",
				stats.RowsIn, stats.DroppedAge, stats.DroppedDelay)
		}
		o := report.Build(t)
		if inspectJSON {
			b, err := utils.PrettyJSON(o)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Print(o.String())
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "emit the overview as JSON")
	rootCmd.AddCommand(inspectCmd)
}
