package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every locally stored message (irreversible)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Messages.ClearAll(); err != nil {
				return err
			}
			fmt.Println("local message history cleared")
			return nil
		},
	}
}
