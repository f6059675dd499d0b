package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

type suppliesOutput struct {
	Command    string          `json:"command"`
	DurationMS int64           `json:"duration_ms"`
	Count      int             `json:"count"`
	Result     []entity.Supply `json:"result"`
}

func newSuppliesCmd(opts *rootOptions) *cobra.Command {
	var (
		search    string
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "supplies",
		Short: "List supplies matching a search and purchase date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer c.Close()

			start := time.Now()
			filter := cabinet.Filter{Search: search, Range: cabinet.ParseDateRange(startDate, endDate)}
			supplies, err := c.Services().Cabinet.ListSupplies(cmd.Context(), filter)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), suppliesOutput{
				Command:    "supplies",
				DurationMS: time.Since(start).Milliseconds(),
				Count:      len(supplies),
				Result:     supplies,
			})
		},
	}

	today := entity.Today().ISO()
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive text matched against supply fields")
	cmd.Flags().StringVar(&startDate, "start", today, "First purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", today, "Last purchase date (YYYY-MM-DD)")
	return cmd
}
