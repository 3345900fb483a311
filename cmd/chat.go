package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var questionCount int

func init() {
	chatCmd.Flags().IntVarP(&questionCount, "question-count", "n", 0, "number of questions already asked in this conversation")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat PROPOSAL_ID MESSAGE",
	Short: "Asks a question about a proposal's evaluation",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		source := mustDataSource(cmd.Context(), cfg)

		doc, err := source.SendChatMessage(cmd.Context(), args[0], args[1], questionCount)
		if err != nil {
			log.Fatal(err)
		}
		if err := printDocument(cmd.OutOrStdout(), doc); err != nil {
			log.Fatal(err)
		}
	},
}

var historyCmd = &cobra.Command{
	Use:   "history PROPOSAL_ID",
	Short: "Prints the chat history for a proposal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		source := mustDataSource(cmd.Context(), cfg)

		doc, err := source.GetChatHistory(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}
		if err := printDocument(cmd.OutOrStdout(), doc); err != nil {
			log.Fatal(err)
		}
	},
}
