package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sotto/internal/app"
	"sotto/internal/domain"
)

var (
	home       string
	passphrase string
	serverURL  string
	user       string

	appCtx *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sotto",
		Short: "End-to-end encrypted messaging CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".sotto")
			}
			if user == "" {
				return fmt.Errorf("user required (--user)")
			}
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			var err error
			appCtx, err = app.NewWire(app.Config{
				Home:       home,
				Passphrase: passphrase,
				ServerURL:  serverURL,
				User:       domain.UserID(user),
			})
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appCtx != nil {
				return appCtx.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.sotto)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the identity key")
	root.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "directory/transport base URL")
	root.PersistentFlags().StringVarP(&user, "user", "u", "", "local user identifier")

	root.AddCommand(initCmd(), fingerprintCmd(), sendCmd(), listenCmd(), historyCmd(), clearCmd())
	return root.Execute()
}
