package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/35C4n0r/cord-mark/internal/mark"
)

var statusCmd = &cobra.Command{
	Use:   "status <stream-id>",
	Short: "Fetch an anchored mark",
	Long:  `Fetch an anchored mark from the server by its stream ID and print it in object form`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var m mark.Mark

		endpoint := cfg.ServerURL + "/v1/marks/" + url.PathEscape(args[0])
		if err := doJSON(cmd.Context(), http.MethodGet, endpoint, nil, nil, &m); err != nil {
			return err
		}

		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode mark: %w", err)
		}

		fmt.Println(string(out))
		if m.Content.Revoked {
			fmt.Println("⚠ this mark has been revoked")
		}
		return nil
	},
}
