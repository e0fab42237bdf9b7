package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FReptar0/EvoSystems/internal/i18n"
	"github.com/FReptar0/EvoSystems/internal/tui"
)

var searchLocale string

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Searches the site content from the terminal",
	Long: `The search command loads the site content and opens an interactive search
box with the same behavior as the one on the site: results appear after a
short pause in typing, arrows move the selection, enter opens the selected
result and esc closes the box. Tab switches between Spanish and English.
The URL of the chosen result is printed on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := i18n.LoadCatalog()
		if err != nil {
			return fmt.Errorf("load translations: %w", err)
		}
		store, err := loadContent(appConfig)
		if err != nil {
			return err
		}

		m := tui.New(newMatcher(appConfig, catalog, store), catalog, tui.Options{
			Locale:   i18n.Parse(searchLocale),
			Query:    strings.Join(args, " "),
			Debounce: appConfig.Search.Debounce,
		})
		chosen, err := tui.Run(m)
		if err != nil {
			return err
		}
		if chosen != "" {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(appConfig.Site.BaseURL, "/")+chosen)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocale, "locale", "l", string(i18n.Default), "result language (es or en)")
	rootCmd.AddCommand(searchCmd)
}
