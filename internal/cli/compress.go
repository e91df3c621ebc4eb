package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/35C4n0r/cord-mark/internal/mark"
)

var compressOutput string

var compressCmd = &cobra.Command{
	Use:   "compress <mark-file>",
	Short: "Compress a mark to its wire form",
	Long: `Compress a mark (object form JSON) to the compact positional array form.

The mark is fully validated before compression. The result is written to
stdout unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMarkFile(args[0])
		if err != nil {
			return err
		}

		compressed, err := mark.Compress(m)
		if err != nil {
			return err
		}

		raw, err := json.Marshal(compressed)
		if err != nil {
			return fmt.Errorf("failed to encode compressed mark: %w", err)
		}

		return writeOutput(compressOutput, raw)
	},
}

func init() {
	compressCmd.Flags().StringVarP(&compressOutput, "output", "o", "", "Write the result to a file instead of stdout")
}

func writeOutput(path string, raw []byte) error {
	if path == "" {
		fmt.Println(string(raw))
		return nil
	}

	if err := os.WriteFile(path, append(raw, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
