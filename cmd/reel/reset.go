package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmcdole/reel/internal/service"
)

func newResetCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget all favorites and the theme choice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}

			a, err := openApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := service.NewSessionService(a.kv).Reset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Favorites and theme cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}
