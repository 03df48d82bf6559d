package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vedant6oyal/Wiki-Runner/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one game from start to target",
	Long: `Starts a navigation run and streams each hop to the terminal. With
--random the start and target articles are drawn at random instead of
taken from flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.RunOptions{}
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.Start, _ = cmd.Flags().GetString("start")
		opts.Target, _ = cmd.Flags().GetString("target")
		opts.Solver, _ = cmd.Flags().GetString("solver")
		opts.Model, _ = cmd.Flags().GetString("model")
		opts.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
		opts.Random, _ = cmd.Flags().GetBool("random")
		opts.Quiet, _ = cmd.Flags().GetBool("quiet")

		if !opts.Random && (opts.Start == "" || opts.Target == "") {
			fmt.Println("Error: --start and --target are required unless --random is set.")
			os.Exit(1)
		}

		if err := cli.RunGame(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("start", "", "Start article title")
	runCmd.Flags().String("target", "", "Target article title")
	runCmd.Flags().String("solver", "", "Solver to use (similarity, openai, anthropic, ollama)")
	runCmd.Flags().String("model", "", "Model name for remote solvers")
	runCmd.Flags().Int("max-steps", 0, "Step budget (0 uses the configured default)")
	runCmd.Flags().Duration("timeout", 0, "Wall-clock budget (0 uses the configured default)")
	runCmd.Flags().BoolP("random", "r", false, "Pick random start and target articles")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress the banner")
}
