package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/FReptar0/EvoSystems/internal/i18n"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from the data files, pages and layouts",
	Long: `The build command loads the blog posts, cities, FAQ and markdown pages,
renders every page in Spanish and English with the site layouts, copies the
static assets and writes the sitemap into the configured output directory
(default './public/').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := i18n.LoadCatalog()
		if err != nil {
			return fmt.Errorf("load translations: %w", err)
		}
		_, res, err := buildSite(appConfig, catalog, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages into %s in %s\n",
			res.Pages, appConfig.Site.OutputDir, res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
