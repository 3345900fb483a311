package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var pdfOut string

func init() {
	pdfCmd.Flags().StringVarP(&pdfOut, "out", "o", "", "file to write the PDF to (default report-PROPOSAL_ID.pdf)")
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(pdfCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report PROPOSAL_ID",
	Short: "Prints the evaluation report for a proposal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		source := mustDataSource(cmd.Context(), cfg)

		doc, err := source.GetReport(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}
		log.WithField("proposalId", args[0]).
			WithField("status", doc.Status()).
			WithField("progress", doc.Progress()).
			WithField("estNextUpdate", doc.EstNextUpdate()).
			Debug("report fetched")
		if err := printDocument(cmd.OutOrStdout(), doc); err != nil {
			log.Fatal(err)
		}
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf PROPOSAL_ID",
	Short: "Downloads the evaluation report PDF for a proposal",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		source := mustDataSource(cmd.Context(), cfg)

		pdf, err := source.DownloadReportPDF(cmd.Context(), args[0])
		if err != nil {
			log.Fatal(err)
		}
		out := pdfOut
		if out == "" {
			out = fmt.Sprintf("report-%s.pdf", args[0])
		}
		if err := os.WriteFile(out, pdf, 0o644); err != nil {
			log.Fatalf("error writing %s: %v", out, err)
		}
		log.WithField("bytes", len(pdf)).Infof("wrote %s", out)
	},
}
