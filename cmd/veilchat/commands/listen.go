package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"veilchat/internal/domain"
	"veilchat/internal/relay"
)

// decryptFailedPlaceholder is shown in place of a message that could not be
// decrypted; the conversation continues.
const decryptFailedPlaceholder = "[message could not be decrypted]"

// listen: stay connected and print presence events and decrypted messages.
func listenCmd() *cobra.Command {
	var downloadDir string

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Connect to the relay and print incoming traffic",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if token == "" {
				return fmt.Errorf("--token required")
			}
			priv, err := appCtx.Identity.LoadKeyPair(passphrase)
			if err != nil {
				return err
			}
			if downloadDir == "" {
				downloadDir = filepath.Join(home, "downloads")
			}
			if err := os.MkdirAll(downloadDir, 0o700); err != nil {
				return err
			}

			conn, err := relay.Dial(cmd.Context(), appCtx.RelayURL, appCtx.Token)
			if err != nil {
				return err
			}
			defer conn.Close()

			// Closing the transport (ctrl-c) ends the read loop.
			go func() {
				<-cmd.Context().Done()
				_ = conn.Close()
			}()

			fmt.Println("listening (ctrl-c to stop)")
			for {
				frame, err := conn.Read()
				if err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return err
				}

				switch frame.Type {
				case domain.FrameOnlineList:
					var peers []domain.PresencePeer
					if err := frame.Decode(&peers); err != nil {
						continue
					}
					fmt.Printf("online now: %d peer(s)\n", len(peers))
					for _, p := range peers {
						fmt.Printf("  - %s\n", p.Identity)
					}

				case domain.FrameFriendOnline, domain.FrameFriendOffline:
					var p domain.PresencePeer
					if err := frame.Decode(&p); err != nil {
						continue
					}
					if frame.Type == domain.FrameFriendOnline {
						fmt.Printf("* %s is online\n", p.Identity)
					} else {
						fmt.Printf("* %s went offline\n", p.Identity)
					}

				case domain.FrameMessageReceive:
					msg, err := appCtx.Messages.OpenText(frame, priv)
					if errors.Is(err, domain.ErrDecryption) {
						fmt.Printf("[%s] %s\n", msg.From, decryptFailedPlaceholder)
						continue
					}
					if err != nil {
						fmt.Fprintf(os.Stderr, "bad frame: %v\n", err)
						continue
					}
					fmt.Printf("[%s] %s\n", msg.From, msg.Text)

				case domain.FrameFileReceive:
					file, err := appCtx.Messages.OpenFile(frame, priv)
					if errors.Is(err, domain.ErrDecryption) {
						fmt.Printf("[%s] [file %q could not be decrypted]\n", file.From, file.FileName)
						continue
					}
					if err != nil {
						fmt.Fprintf(os.Stderr, "bad frame: %v\n", err)
						continue
					}
					dest := filepath.Join(downloadDir, filepath.Base(file.FileName))
					if err := os.WriteFile(dest, file.Data, 0o600); err != nil {
						fmt.Fprintf(os.Stderr, "save %s: %v\n", dest, err)
						continue
					}
					fmt.Printf("[%s] file saved: %s (%d bytes)\n", file.From, dest, len(file.Data))
				}
			}
		},
	}
	cmd.Flags().StringVar(&downloadDir, "download-dir", "", "directory for received files (default <home>/downloads)")
	return cmd
}
