package cmd

import (
	"fmt"
	"strings"

	"github.com/lalallama/proposaldesk/datasource"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fixturesCmd)
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Lists the fixtures available in the mock directory",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		fixtures, err := datasource.ListFixtures(afero.NewOsFs(), cfg.DataSource.MockDir)
		if err != nil {
			log.Fatal(err)
		}
		for _, fixture := range fixtures {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", fixture.Key, strings.Join(fixture.Formats, ","))
		}
	},
}
