package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"trivia-service/internal/cli"
	"trivia-service/internal/client"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "trivia-service base URL")
	user := flag.String("user", "", "user id (as issued by the identity provider)")
	topic := flag.String("topic", "science", "quiz topic")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	api := client.NewHTTPClient(*server, nil)
	if err := cli.Run(ctx, os.Stdin, os.Stdout, api, *user, *topic); err != nil {
		log.Fatalf("quiz run failed: %v", err)
	}
}
