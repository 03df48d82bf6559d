package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vedant6oyal/Wiki-Runner/internal/cli"
)

// randomCmd represents the random command
var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random start/target article pair",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		if err := cli.RandomPair(configPath); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(randomCmd)
}
