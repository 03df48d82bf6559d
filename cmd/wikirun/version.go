package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	wikirunner "github.com/Vedant6oyal/Wiki-Runner"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wikirun",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wikirun version %s\n", strings.TrimSpace(wikirunner.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
