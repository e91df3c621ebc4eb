// keygen is a CLI tool for generating mark signing keys in JWK format.
//
// The private key is used by mark-server (SIGNING_KEY_PATH) or by issuers and
// holders to sign requests and content streams; the public key can be served
// via /.well-known/jwks.json or dropped into a manual keys directory.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/35C4n0r/cord-mark/internal/identity"
	"github.com/35C4n0r/cord-mark/internal/version"
)

// file naming convention - name.public.jwk and name.private.jwk
const (
	publicKeyFileNameFormat  = "%s.public.jwk"
	privateKeyFileNameFormat = "%s.private.jwk"
)

var (
	name      string
	outputDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "keygen",
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		Short:             "JWK key generator for mark issuers and holders",
		Long:              "Generate Ed25519 key pairs in JWK format for signing marks. The key ID and DID are derived from the public key thumbprint.",
	}

	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new key pair",
		Long:  "Generate a new Ed25519 key pair in JWK format and print the derived DID",
		RunE:  runGenerate,
	}

	generateCmd.Flags().StringVarP(&name, "name", "n", "", "Name used for the output files (e.g., issuer) [required]")
	generateCmd.Flags().StringVarP(&outputDir, "outputdir", "o", "", "Output directory for generated keys [required]")
	_ = generateCmd.MarkFlagRequired("name")
	_ = generateCmd.MarkFlagRequired("outputdir")

	rootCmd.AddCommand(generateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// make the directory if it doesn't exist
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	fmt.Printf("Generating Ed25519 key pair: %s\n", name)

	keyPair, err := identity.GenerateKeyPair()
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	publicPath := filepath.Join(outputDir, fmt.Sprintf(publicKeyFileNameFormat, name))
	if err := writeJWKFile(publicPath, keyPair.PublicKey, 0644); err != nil {
		return fmt.Errorf("failed to save public key: %w", err)
	}
	fmt.Printf("✓ Public JWK:  %s (kid: %s)\n", publicPath, keyPair.KeyID)

	privatePath := filepath.Join(outputDir, fmt.Sprintf(privateKeyFileNameFormat, name))
	if err := writeJWKFile(privatePath, keyPair.PrivateKey, 0600); err != nil {
		return fmt.Errorf("failed to save private key: %w", err)
	}
	fmt.Printf("✓ Private JWK: %s (kid: %s)\n", privatePath, keyPair.KeyID)

	did, err := identity.DIDFromKey(keyPair.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to derive DID: %w", err)
	}
	fmt.Printf("✓ DID:         %s\n", did)
	fmt.Println("\nKeep the private key secure - anyone with it can sign marks as this identity.")

	return nil
}

func writeJWKFile(path string, key any, perm os.FileMode) error {
	raw, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), perm)
}
