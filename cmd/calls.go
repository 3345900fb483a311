package cmd

import (
	"fmt"
	"time"

	"github.com/lalallama/proposaldesk/database"
	"github.com/lalallama/proposaldesk/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var callsLimit int

func init() {
	callsCmd.Flags().IntVarP(&callsLimit, "limit", "l", 20, "number of calls to show")
	rootCmd.AddCommand(callsCmd)
}

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "Lists the most recent calls recorded by the dev server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if !cfg.JournalEnabled() {
			log.Fatal("call journal not configured")
		}

		ctx := cmd.Context()
		databaseURL, err := service.ResolvePostgresURL(ctx, cfg, secretsClient(ctx, cfg))
		if err != nil {
			log.Fatal(err)
		}
		db := database.NewDatabase(databaseURL)
		if err := db.Connect(ctx); err != nil {
			log.Fatalf("error connecting to database: %v", err)
		}
		defer db.Disconnect()

		calls, err := db.GetRecentCalls(ctx, callsLimit)
		if err != nil {
			log.Fatal(err)
		}
		for _, call := range calls {
			outcome := "ok"
			if !call.Succeeded {
				outcome = "failed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", call.Called.Format(time.RFC3339), call.Mode, call.Operation, call.Resource, outcome)
		}
	},
}
