/*
Package wikirunner is an autonomous agent for the Wikipedia game: given a
start article and a target article, it repeatedly picks one outgoing link
until it reaches the target or runs out of budget.

The engine separates the navigation loop (Logic) from the article graph
(Source) and the link-choosing strategy (Solver). This hexagonal layout
lets the same run loop play against live Wikipedia, a Redis-cached
mirror, or an in-memory fixture graph, and choose links with a local
embedding model or a remote reasoning model.

# Usage

Assemble an agent from configuration and start a run:

	package main

	import (
		"context"
		"fmt"
		"log"

		wikirunner "github.com/Vedant6oyal/Wiki-Runner"
		"github.com/Vedant6oyal/Wiki-Runner/internal/config"
	)

	func main() {
		ctx := context.Background()

		cfg, err := config.Load("")
		if err != nil {
			log.Fatal(err)
		}

		agent, err := wikirunner.New(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer agent.Close()

		if err := agent.Start(ctx, "Apollo 11", "Cheese"); err != nil {
			log.Fatal(err)
		}

		run, err := agent.Wait(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(run.Status, run.Path())
	}

Runs are observable through lifecycle hooks, and the wikirun binary
exposes the same engine as a CLI and a JSON control API.
*/
package wikirunner
