// Command smsdump walks the message inbox and prints what the engine makes
// of each message. This utility is used to debug rule changes against real
// message samples without touching the expense store or the watermark.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/adikhanna/smsledger/pkg/engine"
	"github.com/adikhanna/smsledger/pkg/logging"
	"github.com/adikhanna/smsledger/pkg/store/sqlite"
)

func main() {
	dbPath := flag.String("db", "data/smsledger.db", "path to the sqlite database")
	limit := flag.Int("limit", 0, "dump at most this many messages (0 = all)")
	acceptedOnly := flag.Bool("accepted", false, "only show messages the gate accepts")
	flag.Parse()

	_ = godotenv.Load()
	logger := logging.Setup(logging.DefaultConfig())

	eng, err := engine.New()
	if err != nil {
		logger.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Open(*dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	messages, err := db.FetchMessages(context.Background(), 0)
	if err != nil {
		logger.Error("failed to fetch messages", "error", err)
		os.Exit(1)
	}

	shown := 0
	for _, message := range messages {
		if *limit > 0 && shown >= *limit {
			break
		}

		accepted := eng.IsExpenseMessage(message.Body)
		if *acceptedOnly && !accepted {
			continue
		}
		shown++

		fmt.Printf("--- %s ---\n", time.UnixMilli(message.TimestampMillis).Format(time.RFC3339))
		fmt.Println(snippet(message.Body))

		if !accepted {
			fmt.Println("=> rejected by gate")
			fmt.Println()
			continue
		}

		amount, ok := eng.ExtractAmount(message.Body)
		if !ok {
			fmt.Println("=> accepted, but no amount found (skipped)")
			fmt.Println()
			continue
		}

		merchant := eng.ExtractMerchant(message.Body)
		category := eng.DetectCategory(merchant, message.Body)
		identity := eng.ResolveIdentity(message.Body, amount, time.UnixMilli(message.TimestampMillis))

		fmt.Printf("=> amount=%s merchant=%q category=%s identity=%s\n",
			amount, merchant, category, identity)
		fmt.Println()
	}

	fmt.Printf("%d of %d messages shown\n", shown, len(messages))
}

// snippet collapses a body onto one line, truncated for readability.
func snippet(body string) string {
	s := strings.Join(strings.Fields(body), " ")
	if len(s) > 160 {
		s = s[:157] + "..."
	}
	return s
}
