package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/reel/internal/theme"
)

func newThemeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()

			if len(args) == 0 {
				fmt.Fprintln(out, describeTheme(a.theme))
				return nil
			}

			if strings.EqualFold(args[0], "toggle") {
				if _, err := a.theme.Toggle(); err != nil {
					return err
				}
				fmt.Fprintln(out, describeTheme(a.theme))
				return nil
			}

			t, err := theme.Parse(args[0])
			if err != nil {
				return err
			}
			if err := a.theme.Set(t); err != nil {
				return err
			}
			fmt.Fprintln(out, describeTheme(a.theme))
			return nil
		},
	}
}

func describeTheme(p *theme.Preference) string {
	if p.Current() == theme.System {
		return fmt.Sprintf("system (%s)", p.Resolve())
	}
	return string(p.Current())
}
