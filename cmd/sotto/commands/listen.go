package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sotto/internal/domain"
)

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen <peer>",
		Short: "Stream incoming messages from a peer until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

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
			sess.OnMessage = func(m domain.StoredMessage) {
				ts := time.UnixMilli(m.CreatedAt).Format("15:04:05")
				fmt.Printf("[%s] %s: %s\n", ts, m.SenderID, m.Body)
			}
			fmt.Println("listening; press Ctrl-C to stop")
			return sess.Run(ctx)
		},
	}
}
