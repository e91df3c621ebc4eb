package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
)

var anchorCmd = &cobra.Command{
	Use:   "anchor <mark-file>",
	Short: "Anchor a mark on the server",
	Long:  `Validate a mark locally, then submit it to the mark server for anchoring`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMarkFile(args[0])
		if err != nil {
			return err
		}

		var resp struct {
			AnchorID string `json:"anchorId"`
			StreamID string `json:"streamId"`
		}

		url := cfg.ServerURL + "/v1/marks/anchor"
		if err := doJSON(cmd.Context(), http.MethodPost, url, m, nil, &resp); err != nil {
			return err
		}

		appLogger.Info("mark anchored",
			slog.String("anchor_id", resp.AnchorID),
			slog.String("stream_id", resp.StreamID),
		)
		fmt.Printf("✓ anchored %s (anchor: %s)\n", resp.StreamID, resp.AnchorID)
		return nil
	},
}
