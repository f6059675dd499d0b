package main

import (
	"github.com/spf13/cobra"
)

func newMenuCmd(opts *rootOptions) *cobra.Command {
	var (
		user string
		path string
	)

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Print the sidebar a user would see, as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer c.Close()

			items := c.Services().Navigation.Menu(cmd.Context(), user, path)
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User id to evaluate (required)")
	cmd.Flags().StringVar(&path, "path", "/", "Current path, marks the active entry")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
