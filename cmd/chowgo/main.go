// Command chowgo is a small terminal client for the ChowGPT backend:
// one-shot search or an interactive streamed chat.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	chowgo "github.com/chowgpt/chowgo"
)

func main() {
	var (
		baseURL = flag.String("base-url", "http://localhost:3001/api", "backend API base URL")
		token   = flag.String("token", os.Getenv("CHOWGO_API_KEY"), "bearer token (optional)")
		query   = flag.String("query", "", "run one search and exit")
		sortBy  = flag.String("sort", "", "sort mode: best-match, rating, price-asc, price-desc")
		limit   = flag.Int("limit", 0, "max results to request")
	)
	flag.Parse()

	opts := []chowgo.Option{chowgo.WithBaseURL(*baseURL)}
	if *token != "" {
		opts = append(opts, chowgo.WithToken(*token))
	}

	client, err := chowgo.New(opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "chowgo:", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *query != "" {
		if err := runSearch(ctx, client, *query, *sortBy, *limit); err != nil {
			fmt.Fprintln(os.Stderr, "chowgo:", err)
			os.Exit(1)
		}
		return
	}

	if err := runChat(ctx, client); err != nil {
		fmt.Fprintln(os.Stderr, "chowgo:", err)
		os.Exit(1)
	}
}

func runSearch(ctx context.Context, client *chowgo.Client, query, sortBy string, limit int) error {
	opts := &chowgo.SearchOptions{Limit: limit}
	if sortBy != "" {
		opts.Filters = &chowgo.FilterCriteria{Sort: chowgo.SortMode(sortBy)}
	}

	results, err := client.Search(ctx, query, opts)
	if err != nil {
		return err
	}

	for _, r := range results.Restaurants {
		fmt.Printf("%3d%%  %-28s %-24s %.1f★ (%d)  %s  %s\n",
			r.MatchScore, r.Name, r.Category, r.TotalScore, r.ReviewsCount, r.Price, r.Neighborhood)
	}
	fmt.Printf("\n%d results for %q\n", len(results.Restaurants), results.Metadata.OriginalQuery)
	return nil
}

func runChat(ctx context.Context, client *chowgo.Client) error {
	fmt.Printf("session %s — type a message, ctrl-d to quit\n", client.SessionID())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		// Stream blocks until the terminal event; errors surface on the
		// return value as well, so no OnError callback is needed here.
		err := client.Chat().Stream(ctx, text, chowgo.StreamHandler{
			OnToken:    func(tok string) { fmt.Print(tok) },
			OnComplete: func(chowgo.ChatMessage) { fmt.Println() },
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(os.Stderr, "stream:", err)
		}
	}
}
