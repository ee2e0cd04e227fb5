package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"veilchat/internal/domain"
	"veilchat/internal/server"
)

// token <identity>: mint a bearer token for development setups where no login
// service is running. The secret must match the relay's RELAY_TOKEN_SECRET.
func tokenCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "token <identity>",
		Short: "Mint a development bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(server.NewHMACVerifier(secret).Mint(domain.Identity(args[0])))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "veilchat-dev-secret", "relay token secret")
	return cmd
}
