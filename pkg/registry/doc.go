/*
Package registry holds the live session state and the policies that govern
its lifetime.

A Registry maps session IDs to their current page and collected responses.
All operations are safe for concurrent use and atomic with respect to each
other, so a presenter publishing a page and a room full of participants
responding never observe partial state.

A Sweeper runs alongside the registry and removes sessions that have been
idle longer than a TTL. Sessions are never deleted any other way.

Typical usage:

	reg := registry.New()
	if err := reg.SetPage("demo", "What is 6 x 7?"); err != nil {
		log.Fatal(err)
	}

	sweeper := registry.NewSweeper(reg,
		registry.WithInterval(time.Hour),
		registry.WithTTL(24*time.Hour),
	)
	go sweeper.Run(ctx)
*/
package registry
