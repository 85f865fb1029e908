package cli

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"go.eeprom/internal/auth"
	"go.eeprom/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve registers over TCP",
	Args:  cobra.NoArgs,
	RunE: withDB(func(cmd *cobra.Command, args []string) error {
		store, err := auth.NewFileStore(afero.NewOsFs(), cfg.UserFile)
		if err != nil {
			return err
		}

		log := db.Log()
		if cfg.MetricsAddr != "" {
			go func() {
				if err := server.ServeMetrics(cfg.MetricsAddr); err != nil {
					log.WithError(err).Error("metrics endpoint stopped")
				}
			}()
		}

		srv := server.New(cfg, db, auth.NewAuthenticator(store), log)
		return srv.Listen()
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
