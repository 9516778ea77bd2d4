/*
Package lectern is an ephemeral broadcast service: a presenter publishes a page of content under a session ID, any number of participants read it and submit responses, and the presenter collects the responses keyed by participant.

Nothing is ever written to disk. Sessions live in memory, are replaced in place as the presentation advances, and are swept away after a period of inactivity. This makes Lectern suited for live audience interaction (quizzes, polls, shared prompts) where the data is worthless minutes after it was produced.

# Concept

A session is a single broadcast channel. Publishing a page starts a new round: the previous page's responses are discarded atomically with the new content, so a tally can never mix answers to different questions. Each participant holds one slot per round; submitting again overwrites their earlier response.

# Key Features

  - Last-write-wins responses: one slot per participant per round, no history.
  - Atomic rounds: page content and its response set change together.
  - TTL expiry: idle sessions vanish without operator intervention.
  - Zero persistence: restartable, shardable, nothing to migrate.

# Usage

Embed the service in your own process, or run the bundled server via the
lectern command.

	package main

	import (
		"context"
		"log"
		"net/http"

		"github.com/lecternlabs/lectern"
	)

	func main() {
		svc := lectern.New()

		// Expire idle sessions in the background.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go svc.RunSweeper(ctx)

		// Drive sessions programmatically...
		reg := svc.Registry()
		if err := reg.SetPage("demo", "What is 6 x 7?"); err != nil {
			log.Fatal(err)
		}

		// ...or serve the HTTP API.
		log.Fatal(http.ListenAndServe(":8080", svc.Handler()))
	}
*/
package lectern
