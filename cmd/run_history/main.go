package main

import (
	"flag"
	"fmt"
	"log"

	"amp-trainer/db"
)

// run_history lists past training runs from the local ledger.
func main() {
	dbPath := flag.String("db", db.DefaultHistoryPath(), "Path to the run-history database")
	limit := flag.Int("n", 20, "Number of runs to show")
	flag.Parse()

	client, err := db.NewSQLiteClient(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open %s: %v", *dbPath, err)
	}
	defer client.Close()

	runs, err := client.ListRuns(*limit)
	if err != nil {
		log.Fatalf("ERROR: Failed to list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return
	}

	for _, run := range runs {
		sc := "-"
		if run.SkipConnection {
			sc = "sc"
		}
		fmt.Printf("#%d  %s  %-6s  %-8s %-7s %s  eps=%d  %s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Status,
			run.ModelType,
			run.HiddenConfig,
			sc,
			run.Epochs,
			run.OutDir)
		if run.Error != "" {
			fmt.Printf("     error: %s\n", run.Error)
		}
	}
}
