package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest [text]",
		Short: "Print city suggestions for a partial location.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := newService(cmd.Context())
			defer cleanup()
			if err != nil {
				return err
			}
			sugs, err := svc.Suggest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			for _, s := range sugs {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}
