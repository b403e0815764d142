// AngelaMos | 2026
// keygen.go

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/silvershift/internal/config"
	"github.com/carterperez-dev/silvershift/internal/profile"
)

func keygenCmd(configPath *string) *cobra.Command {
	var privatePath, publicPath string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate the ES256 key pair that signs profile tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			if privatePath == "" {
				privatePath = cfg.Profile.PrivateKeyPath
			}
			if publicPath == "" {
				publicPath = cfg.Profile.PublicKeyPath
			}

			for _, p := range []string{privatePath, publicPath} {
				if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
					return fmt.Errorf("create key directory: %w", err)
				}
			}

			if err := profile.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", "", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "", "public key output path")

	return cmd
}
