// Command clean-db wipes all application data from a development
// database. Destructive; refuses to run without an explicit DATABASE_URL
// argument so it can never be pointed at production by accident.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: clean-db <database-url>")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	// Reverse dependency order.
	tables := []string{
		"audit_logs",
		"system_logs",
		"notifications",
		"enrollments",
		"courses",
		"students",
		"instructors",
		"specializations",
		"users",
		"clients",
		"tenants",
	}

	for _, table := range tables {
		if _, err := conn.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			fmt.Printf("Warning: failed to truncate %s: %v\n", table, err)
			continue
		}
		fmt.Printf("Cleared %s\n", table)
	}

	fmt.Println("Database cleared.")
}
