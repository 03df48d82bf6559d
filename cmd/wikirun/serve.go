package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vedant6oyal/Wiki-Runner/internal/cli"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the runner over a JSON control API",
	Long: `Starts an HTTP server with endpoints to start, inspect, pause, resume
and abort runs, plus /healthz and Prometheus /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := cli.ServeOptions{}
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.Addr, _ = cmd.Flags().GetString("addr")
		opts.Solver, _ = cmd.Flags().GetString("solver")
		opts.Model, _ = cmd.Flags().GetString("model")

		if err := cli.Serve(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	serveCmd.Flags().String("solver", "", "Solver to use (similarity, openai, anthropic, ollama)")
	serveCmd.Flags().String("model", "", "Model name for remote solvers")
}
