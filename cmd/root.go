package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lalallama/proposaldesk/config"
	"github.com/lalallama/proposaldesk/datasource"
	"github.com/lalallama/proposaldesk/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "proposaldesk",
	Short: "proposaldesk serves proposal evaluations from fixtures or the backend API",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("No subcommand given")
		cmd.Usage()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Exit with a nonzero exit code if the command fails with an error
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads config and sets up logging; every subcommand starts here.
func loadConfig() config.Config {
	cfg := config.FromEnvfile()
	config.ConfigureLogging(cfg)
	return cfg
}

// secretsClient returns nil when nothing in cfg lives in Secrets Manager.
func secretsClient(ctx context.Context, cfg config.Config) service.SecretGetter {
	if !service.NeedsSecrets(cfg) {
		return nil
	}
	client, err := service.NewSecretsClient(ctx)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func mustDataSource(ctx context.Context, cfg config.Config) datasource.DataSource {
	source, err := service.NewDataSource(ctx, cfg, secretsClient(ctx, cfg))
	if err != nil {
		log.Fatalf("error initializing data source: %v", err)
	}
	return source
}

func printDocument(out io.Writer, doc datasource.Document) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
