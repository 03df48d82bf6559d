package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wikirun",
	Short: "wikirun plays the Wikipedia game autonomously",
	Long: `wikirun navigates from one Wikipedia article to another by repeatedly
choosing a single outgoing link, using either a local semantic-similarity
solver or a remote reasoning model.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to the wikirun config file")
}
