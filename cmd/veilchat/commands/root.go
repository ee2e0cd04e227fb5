package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"veilchat/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string
	token      string

	appCtx *app.Wire
)

func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:   "veilchat",
		Short: "End-to-end encrypted chat over an untrusted relay",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".veilchat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			wire, err := app.NewWire(app.Config{
				Home:     home,
				RelayURL: relayURL,
				Token:    token,
			})
			if err != nil {
				return err
			}
			appCtx = wire
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.veilchat)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the key vault")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:8080", "relay base URL")
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token for the relay and directory")

	root.AddCommand(initCmd(), fingerprintCmd(), sendCmd(), sendFileCmd(), listenCmd(), tokenCmd())
	return root.ExecuteContext(ctx)
}
