package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sotto/internal/domain"
)

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <peer>",
		Short: "Print the locally stored conversation with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv := domain.ConversationIDFor(appCtx.User, domain.UserID(args[0]))
			msgs, err := appCtx.Messages.ListByConversation(conv)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				ts := time.UnixMilli(m.CreatedAt).Format("2006-01-02 15:04:05")
				fmt.Printf("[%s] %s: %s\n", ts, m.SenderID, m.Body)
			}
			return nil
		},
	}
}
