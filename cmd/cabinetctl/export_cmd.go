package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cabinet-medical/cabinet-console/internal/application/service"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
	"github.com/cabinet-medical/cabinet-console/internal/domain/entity"
)

type exportOutput struct {
	Command string `json:"command"`
	File    string `json:"file"`
	Rows    int    `json:"rows"`
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		user      string
		tab       string
		search    string
		startDate string
		endDate   string
		columns   []string
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the supplies or absences tab to an .xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := cabinet.ParseTab(tab)
			if err != nil {
				return fmt.Errorf("invalid --tab: %w", err)
			}
			selection := cabinet.AllColumns()
			if cmd.Flags().Changed("columns") {
				if selection, err = cabinet.SelectColumns(columns...); err != nil {
					return fmt.Errorf("invalid --columns: %w", err)
				}
			}

			c, err := openContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer c.Close()

			if !c.Services().Navigation.CanExport(cmd.Context(), user) {
				return fmt.Errorf("%w: %q may not export data", service.ErrForbidden, user)
			}

			file, err := c.Services().Cabinet.Export(cmd.Context(), service.ViewOptions{
				Tab:     t,
				Filter:  cabinet.Filter{Search: search, Range: cabinet.ParseDateRange(startDate, endDate)},
				Columns: selection,
			})
			if errors.Is(err, cabinet.ErrNoColumnsSelected) {
				return fmt.Errorf("select at least one column: %w", err)
			}
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			dest := filepath.Join(outDir, file.Filename)
			if err := os.WriteFile(dest, file.Content, 0644); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}

			return writeJSON(cmd.OutOrStdout(), exportOutput{
				Command: "export",
				File:    dest,
				Rows:    file.Rows,
			})
		},
	}

	today := entity.Today().ISO()
	cmd.Flags().StringVar(&user, "user", "", "User id whose export permission is checked (required)")
	cmd.Flags().StringVar(&tab, "tab", string(cabinet.TabSupplies), "Tab to export: supplies or absences")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive supply search")
	cmd.Flags().StringVar(&startDate, "start", today, "First purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end", today, "Last purchase date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Supply columns to include (default all)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory the workbook is written to")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
