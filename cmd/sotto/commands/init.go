package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sotto/internal/crypto"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the identity key pair and publish its public half",
		RunE: func(cmd *cobra.Command, args []string) error {
			kp, created, err := appCtx.Identity.EnsureKeyPair()
			if err != nil {
				return err
			}
			if created {
				fmt.Println("Identity created.")
			} else {
				fmt.Println("Identity already exists.")
			}
			needs, err := appCtx.Identity.NeedsPublish()
			if err != nil {
				return err
			}
			if needs {
				if err := appCtx.Directory.PublishPublicKey(cmd.Context(), appCtx.User, kp.Public); err != nil {
					return fmt.Errorf("publish public key: %w", err)
				}
				if err := appCtx.Identity.MarkPublished(); err != nil {
					return err
				}
				fmt.Println("Public key published.")
			} else {
				fmt.Println("Public key already published.")
			}
			fmt.Printf("Fingerprint: %s\n", crypto.Fingerprint(kp.Public))
			return nil
		},
	}
}
