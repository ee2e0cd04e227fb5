package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"veilchat/internal/domain"
	"veilchat/internal/relay"
)

// send <peer> <message>: encrypt and send a text message to <peer>.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Encrypt and send a text message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token required")
			}
			peer := domain.Identity(args[0])

			conn, err := relay.Dial(cmd.Context(), appCtx.RelayURL, appCtx.Token)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := appCtx.Messages.SendText(cmd.Context(), conn, peer, args[1]); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}
}
