// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command cleanup purges soft-deleted rows past the retention window.
// The application layer never issues physical deletes; this job is the
// one sanctioned path for reclaiming storage, run out of band (cron).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openlms/openlms/internal/config"
	"github.com/openlms/openlms/internal/store/postgres"
)

// Tables are purged in reverse dependency order so foreign keys never
// block a delete.
var tables = []string{
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

func main() {
	retentionDays := flag.Int("retention-days", 30, "purge soft-deleted rows older than this many days")
	notificationDays := flag.Int("notification-retention-days", 90, "purge read notifications older than this many days")
	dryRun := flag.Bool("dry-run", false, "report what would be purged without deleting")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -*retentionDays)
	fmt.Printf("Purging rows soft-deleted before %s\n", cutoff.Format(time.RFC3339))

	pool := db.Pool()
	var total int64
	for _, table := range tables {
		if *dryRun {
			var n int64
			row := pool.QueryRow(ctx,
				fmt.Sprintf("SELECT count(*) FROM %s WHERE is_deleted AND deleted_at < $1", table), cutoff)
			if err := row.Scan(&n); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to count %s: %v\n", table, err)
				os.Exit(1)
			}
			fmt.Printf("  %s: %d rows\n", table, n)
			total += n
			continue
		}

		tag, err := pool.Exec(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE is_deleted AND deleted_at < $1", table), cutoff)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to purge %s: %v\n", table, err)
			os.Exit(1)
		}
		fmt.Printf("  %s: %d rows\n", table, tag.RowsAffected())
		total += tag.RowsAffected()
	}

	// Read notifications expire on their own schedule, soft-deleted or not.
	notificationCutoff := time.Now().AddDate(0, 0, -*notificationDays)
	if *dryRun {
		var n int64
		row := pool.QueryRow(ctx,
			"SELECT count(*) FROM notifications WHERE read_at IS NOT NULL AND read_at < $1", notificationCutoff)
		if err := row.Scan(&n); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to count expired notifications: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  expired notifications: %d rows\n", n)
		fmt.Printf("Dry run: %d rows eligible for purge.\n", total+n)
		return
	}

	tag, err := pool.Exec(ctx,
		"DELETE FROM notifications WHERE read_at IS NOT NULL AND read_at < $1", notificationCutoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to purge expired notifications: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  expired notifications: %d rows\n", tag.RowsAffected())
	total += tag.RowsAffected()

	fmt.Printf("Purged %d rows.\n", total)
}
