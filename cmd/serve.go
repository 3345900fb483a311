package cmd

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/lalallama/proposaldesk/database"
	"github.com/lalallama/proposaldesk/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the dev server",
	Long:  `Runs the dev server, which answers the backend's /api routes from the configured data source`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		// SIGINT/SIGTERM or a failed listener cancels gCtx, which shuts the server down.
		ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer done()
		g, gCtx := errgroup.WithContext(ctx)

		secrets := secretsClient(gCtx, cfg)
		source, err := service.NewDataSource(gCtx, cfg, secrets)
		if err != nil {
			log.Fatalf("error initializing data source: %v", err)
		}

		var journal service.CallJournal
		databaseURL, err := service.ResolvePostgresURL(gCtx, cfg, secrets)
		if err != nil {
			log.Fatal(err)
		}
		if databaseURL != "" {
			db := database.NewDatabase(databaseURL)
			if err = db.Connect(gCtx); err != nil {
				log.Fatalf("error connecting to database: %v", err)
			}
			defer db.Disconnect()
			if err = db.EnsureSchema(gCtx); err != nil {
				log.Fatalf("error preparing call journal: %v", err)
			}
			journal = db
			log.Info("call journal enabled")
		}

		devServer := service.NewDevServer(cfg.DevServerPort, source, journal)
		log.WithField("mode", source.Mode()).Infof("dev server listening on %s", devServer.Server.Addr)

		g.Go(func() error {
			if err := devServer.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		// ...and shut down the server if the process needs to terminate
		g.Go(func() error {
			<-gCtx.Done()
			defer log.Info("exiting dev server")
			return devServer.Server.Shutdown(context.Background())
		})

		err = g.Wait()
		if err != nil {
			log.Errorf("caught error: %v", err)
		}
	},
}
