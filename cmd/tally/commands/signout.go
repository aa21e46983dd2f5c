package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newSignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the session and clear everything it cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.SignOut(cmd.Context(), options(cmd))
		},
	}
}
