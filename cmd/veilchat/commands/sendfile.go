package commands

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"veilchat/internal/domain"
	"veilchat/internal/relay"
)

// send-file <peer> <path>: hybrid-encrypt and send a file to <peer>.
func sendFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-file <peer> <path>",
		Short: "Encrypt and send a file to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token required")
			}
			peer := domain.Identity(args[0])
			path := args[1]

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			name := filepath.Base(path)
			fileType := mime.TypeByExtension(filepath.Ext(name))
			if fileType == "" {
				fileType = "application/octet-stream"
			}

			conn, err := relay.Dial(cmd.Context(), appCtx.RelayURL, appCtx.Token)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := appCtx.Messages.SendFile(cmd.Context(), conn, peer, name, fileType, data); err != nil {
				return err
			}
			fmt.Printf("sent %s (%d bytes)\n", name, len(data))
			return nil
		},
	}
}
