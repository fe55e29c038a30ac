// Package chowgo is the client SDK for the ChowGPT restaurant discovery
// backend. It turns a natural-language dining query into ranked,
// filterable restaurant results and runs incremental chat turns over a
// streamed connection, persisting all session state in a TTL-bounded
// store.
//
// Basic usage:
//
//	client, err := chowgo.New(chowgo.WithBaseURL("http://localhost:3001/api"))
//	if err != nil { ... }
//	defer client.Close()
//
//	results, err := client.Search(ctx, "romantic seafood dinner", nil)
//
//	err = client.Chat().Stream(ctx, "anything with a view?", chowgo.StreamHandler{
//		OnToken:    func(tok string) { fmt.Print(tok) },
//		OnComplete: func(msg chowgo.ChatMessage) { fmt.Println() },
//		OnError:    func(err error) { log.Print(err) },
//	})
//
// Ranking degrades gracefully: when the backend supplies no authoritative
// match scores, a deterministic local heuristic fills them in, so results
// stay ordered and explainable offline. No call retries automatically.
package chowgo
