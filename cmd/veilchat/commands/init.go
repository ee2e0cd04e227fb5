package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the key pair if absent, then publish the public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if token == "" {
				return fmt.Errorf("--token required to publish the public key")
			}
			fp, created, err := appCtx.Identity.EnsureIdentity(cmd.Context(), passphrase)
			if err != nil {
				return err
			}
			if created {
				fmt.Println("Key pair created.")
			} else {
				fmt.Println("Existing key pair re-published.")
			}
			fmt.Printf("Fingerprint: %s\n", fp)
			return nil
		},
	}
}
