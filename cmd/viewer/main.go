package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"github.com/IDMendis/RealTimeSecureChatApp/internal"
	"github.com/IDMendis/RealTimeSecureChatApp/repositories"
)

// Viewer renders the persisted message log for one scope without
// touching the live server: Badger is opened read-only, bypassing the
// lock held by the running process.
func main() {
	scope := flag.String("scope", "public", `scope to inspect: "public", "private", or "room:<id>"`)
	limit := flag.Int("limit", 50, "maximum messages to display")
	flag.Parse()

	// 1. Load config
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Open Badger in Read-Only mode
	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// 3. Scan and render
	repository := repositories.NewMessageRepository(db, logger, limit)
	messages, _, err := repository.GetMessages(*scope, nil)
	if err != nil {
		log.Fatalf("Failed to read messages: %v", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Author", "Body"})
	for _, message := range messages {
		table.Append([]string{
			message.At.Format("2006-01-02 15:04:05"),
			message.Author,
			message.Body,
		})
	}
	fmt.Printf("Scope %q, %d message(s)\n", *scope, len(messages))
	table.Render()
}
