// Package messages exposes the platform's messages resource.
//
// # Features
//
//   - Send any payload variant to "<channel>:<recipient>"
//   - List and filter messages, newest first
//   - Get or delete a single message by UUID, validated before any request
//   - List conversations per channel and user
//
// # Quick Start
//
//	m := messages.New(client)
//
//	resp, err := m.Send(ctx, channelID, "4915112345678", messages.TextPayload{Text: "Hello"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	outgoing := true
//	list, err := m.List(ctx, &messages.FilterParams{Limit: 50, Outgoing: &outgoing})
//
// Timestamps such as Message.Created arrive as time.Time values. When the client
// was built with scope checking, each operation first verifies that the token
// carries the scope the platform requires for it.
package messages
