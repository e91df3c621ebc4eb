// Package cli implements the mark-client command line interface.
//
// verify, compress and decompress operate on local files; anchor, status and
// revoke talk to a mark server (MARK_SERVER_URL).
package cli

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/35C4n0r/cord-mark/internal/config"
	"github.com/35C4n0r/cord-mark/internal/logger"
	"github.com/35C4n0r/cord-mark/internal/version"
)

var (
	cfg       *config.ClientEnvironment
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "mark-client",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Mark verification and anchoring CLI",
	Long:              `mark-client verifies, compresses and anchors marks (attestation records pairing a content stream with its originating request)`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewClientConfig()
		if err != nil {
			log.Printf("failed to load configuration: %v", err.Error())
			return err
		}

		appLogger = logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)
		return nil
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(decompressCmd)
	rootCmd.AddCommand(anchorCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(revokeCmd)
}
