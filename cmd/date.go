package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/order-inbox/internal/backenddate"
)

var dateCmd = &cobra.Command{
	Use:     "date VALUE...",
	Short:   "Convert delivery dates to the backend date format",
	Long:    "Prints each value with its backend representation. Values that cannot be parsed print an empty result.",
	Example: `  order-inbox date 21.10.2025 "21. Oktober 2025" 2025-10-21`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, v := range args {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v, backenddate.ToBackendDate(v)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dateCmd)
}
