// Command smsledger converts transaction notification messages into
// structured expense records, deduplicated and incrementally synchronized.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/adikhanna/smsledger/pkg/logging"
)

const usage = `smsledger - expense records from transaction notification messages

Usage:
  smsledger run       Run a single sync pass and exit (default)
  smsledger daemon    Run sync passes on an interval until interrupted
  smsledger status    Show the sync watermark and recent passes
  smsledger help      Show this help

Configuration is read from environment variables (and .env if present):
  SMSLEDGER_DB_PATH        sqlite database path (default data/smsledger.db)
  SMSLEDGER_SYNC_INTERVAL  daemon pass interval (default 15m)
  SMSLEDGER_PG_HOST        PostgreSQL host (required)
  SMSLEDGER_PG_PORT        PostgreSQL port (default 5432)
  SMSLEDGER_PG_DATABASE    PostgreSQL database (required)
  SMSLEDGER_PG_USER        PostgreSQL user (required)
  SMSLEDGER_PG_PASSWORD    PostgreSQL password
  SMSLEDGER_PG_SSLMODE     PostgreSQL sslmode (default disable)
  LOG_LEVEL                DEBUG, INFO, WARN, ERROR (default INFO)
`

func main() {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	command := "run"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	var err error
	switch command {
	case "run":
		err = runOnce(logging.Setup(logging.DefaultConfig()))
	case "daemon":
		err = runDaemon(logging.Setup(logging.DaemonConfig()))
	case "status":
		err = runStatus()
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
