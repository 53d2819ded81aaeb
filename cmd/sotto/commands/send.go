package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sotto/internal/domain"
)

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer> <text...>",
		Short: "Encrypt and send a message to a peer",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess := appCtx.NewSession(domain.UserID(args[0]))
			if err := sess.EnsureKeys(ctx); err != nil {
				return err
			}
			ok, err := sess.SetupSharedKey(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("%s has not published an encryption key yet; try again later.\n", args[0])
				return nil
			}
			msg, err := sess.Send(ctx, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("sent %s\n", msg.ID)
			return nil
		},
	}
}
