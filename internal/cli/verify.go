package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/35C4n0r/cord-mark/internal/mark"
	"github.com/35C4n0r/cord-mark/internal/schema"
)

var verifySchemaFile string

var verifyCmd = &cobra.Command{
	Use:   "verify <mark-file>",
	Short: "Verify a mark",
	Long: `Verify a mark from a JSON file (object form).

Runs the structural checks on the content stream and request plus the
cross-entity consistency check. Pass --schema to also check the claim
contents against a schema definition.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMarkFile(args[0])
		if err != nil {
			return err
		}

		if err := mark.ErrorCheck(m); err != nil {
			appLogger.Error("mark verification failed",
				slog.String("file", args[0]),
				slog.String("error", err.Error()),
			)
			return err
		}

		if verifySchemaFile != "" {
			sc, err := readSchemaFile(verifySchemaFile)
			if err != nil {
				return err
			}

			ok, err := mark.VerifyStructure(cmd.Context(), m, sc)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("claim contents do not conform to schema %s", sc.ID)
			}
		}

		fmt.Printf("✓ mark verified (stream: %s)\n", m.Content.ID)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifySchemaFile, "schema", "", "Schema file to check the claim contents against")
}

func readMarkFile(path string) (*mark.Mark, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path supplied by the CLI user
	if err != nil {
		return nil, fmt.Errorf("failed to read mark file: %w", err)
	}

	var m mark.Mark
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mark file: %w", err)
	}
	return &m, nil
}

func readSchemaFile(path string) (*schema.Schema, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path supplied by the CLI user
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var sc schema.Schema
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	return &sc, nil
}
