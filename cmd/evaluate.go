package cmd

import (
	"encoding/json"
	"io"
	"os"

	"github.com/lalallama/proposaldesk/datasource"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate PAYLOAD",
	Short: "Starts an evaluation",
	Long:  `Starts an evaluation. PAYLOAD is a JSON file sent to the backend as-is, or "-" to read it from stdin.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		payload, err := readPayload(args[0])
		if err != nil {
			log.Fatalf("error reading payload: %v", err)
		}
		if !json.Valid(payload) {
			log.Fatalf("payload %s is not valid JSON", args[0])
		}

		source := mustDataSource(cmd.Context(), cfg)
		doc, err := source.CreateEvaluation(cmd.Context(), datasource.EvaluationPayload(payload))
		if err != nil {
			log.Fatal(err)
		}
		if err := printDocument(cmd.OutOrStdout(), doc); err != nil {
			log.Fatal(err)
		}
	},
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
