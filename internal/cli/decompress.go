package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/35C4n0r/cord-mark/internal/mark"
)

var (
	decompressOutput string
	decompressVerify bool
)

var decompressCmd = &cobra.Command{
	Use:   "decompress <compressed-file>",
	Short: "Decompress a mark from its wire form",
	Long: `Decompress a mark from the compact positional array form back to object form.

Decompression only checks the array shape; pass --verify to also run full
mark validation on the result before writing it out.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0]) // #nosec G304 -- path supplied by the CLI user
		if err != nil {
			return fmt.Errorf("failed to read compressed file: %w", err)
		}

		var compressed mark.Compressed
		if err := json.Unmarshal(raw, &compressed); err != nil {
			return err
		}

		var m *mark.Mark
		if decompressVerify {
			m, err = mark.DecompressVerified(&compressed)
		} else {
			m, err = mark.Decompress(&compressed)
		}
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode mark: %w", err)
		}

		return writeOutput(decompressOutput, out)
	},
}

func init() {
	decompressCmd.Flags().StringVarP(&decompressOutput, "output", "o", "", "Write the result to a file instead of stdout")
	decompressCmd.Flags().BoolVar(&decompressVerify, "verify", false, "Run full mark validation after decompression")
}
