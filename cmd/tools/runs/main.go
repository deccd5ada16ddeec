// Lists recent match runs straight from the database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/david/grant-matcher/internal/db"
)

func main() {
	userIDFlag := flag.String("user", "", "User ID (UUID); empty lists runs for all users")
	limit := flag.Int("limit", 10, "Max runs to show")
	flag.Parse()

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	query := `
		SELECT id, user_id, (result->>'total_evaluated')::int, created_at
		FROM match_runs
		ORDER BY created_at DESC
		LIMIT $1`
	args := []any{*limit}
	if *userIDFlag != "" {
		userID, err := uuid.Parse(*userIDFlag)
		if err != nil {
			log.Fatalf("Invalid user ID: %v", err)
		}
		query = `
			SELECT id, user_id, (result->>'total_evaluated')::int, created_at
			FROM match_runs
			WHERE user_id = $2
			ORDER BY created_at DESC
			LIMIT $1`
		args = append(args, userID)
	}

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "User", "Evaluated", "Created At"})

	for rows.Next() {
		var runID, userID uuid.UUID
		var evaluated int
		var createdAt time.Time

		if err := rows.Scan(&runID, &userID, &evaluated, &createdAt); err != nil {
			log.Printf("Scan error: %v", err)
			continue
		}
		t.AppendRow(table.Row{runID, userID, evaluated, createdAt.Format(time.RFC3339)})
	}
	if err := rows.Err(); err != nil {
		log.Fatal(err)
	}

	t.Render()
}
