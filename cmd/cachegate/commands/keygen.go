package commands

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	keygenOut   string
	keygenForce bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "generate an Ed25519 keypair for presign authentication",
	RunE:  runKeygen,
}

func init() {
	keygenCmd.Flags().StringVar(&keygenOut, "out", "", "path to write the generated keypair YAML (required)")
	keygenCmd.Flags().BoolVar(&keygenForce, "force", false, "overwrite an existing file")
	_ = keygenCmd.MarkFlagRequired("out")
}

// keypairFile is the YAML shape written by keygen: base64url-no-pad
// encoded raw key bytes, matching cgauth.Config's expected encoding.
type keypairFile struct {
	PublicKey  string `yaml:"public_key"`
	PrivateKey string `yaml:"private_key"`
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if !keygenForce {
		if _, err := os.Stat(keygenOut); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", keygenOut)
		}
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	out := keypairFile{
		PublicKey:  base64.RawURLEncoding.EncodeToString(pub),
		PrivateKey: base64.RawURLEncoding.EncodeToString(priv),
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal keypair: %w", err)
	}

	if err := os.WriteFile(keygenOut, data, 0o600); err != nil {
		return fmt.Errorf("write keypair: %w", err)
	}

	fmt.Printf("keypair written to %s\n", keygenOut)
	return nil
}
