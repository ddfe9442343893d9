package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cmv-site/apiclient"
	"cmv-site/config"
	"cmv-site/services"
)

func newExportCmd(envFile *string) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export-registrations",
		Short: "Download the CGCC 2025 registrations as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			api := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
			path := filepath.Join(outDir, services.RegistrationsExportFilename(time.Now()))
			f, err := os.Create(path) // #nosec G304
			if err != nil {
				return err
			}

			n, err := services.ExportRegistrations(cmd.Context(), api, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(path)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write the CSV into")
	return cmd
}
