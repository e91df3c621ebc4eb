package cli

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var revokeIssuerDID string

var revokeCmd = &cobra.Command{
	Use:   "revoke <stream-id>",
	Short: "Revoke an anchored mark",
	Long:  `Flag an anchored mark as revoked on the server. Only the issuing DID may revoke its own anchors.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := cfg.ServerURL + "/v1/marks/" + url.PathEscape(args[0])
		headers := map[string]string{"X-Issuer-DID": revokeIssuerDID}

		if err := doJSON(cmd.Context(), http.MethodDelete, endpoint, nil, headers, nil); err != nil {
			return err
		}

		fmt.Printf("✓ revoked %s\n", args[0])
		return nil
	},
}

func init() {
	revokeCmd.Flags().StringVar(&revokeIssuerDID, "issuer-did", "", "DID of the issuing party [required]")
	_ = revokeCmd.MarkFlagRequired("issuer-did")
}
