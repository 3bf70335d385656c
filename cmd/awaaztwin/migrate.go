package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/mukundajmera/AwaazTwin/internal/infra/config"
	"github.com/mukundajmera/AwaazTwin/internal/infra/sqlite"
)

// runMigrate handles "migrate [up|status]".
func runMigrate(ctx context.Context, args []string, out io.Writer) int {
	sub := "up"
	if len(args) > 0 {
		sub = args[0]
	}
	if sub != "up" && sub != "status" {
		fmt.Fprintf(out, "unknown migrate command %q (want up or status)\n", sub) //nolint:errcheck
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "config: %v\n", err) //nolint:errcheck
		return 1
	}

	var db *sql.DB
	if sub == "up" {
		db, err = openDB(ctx, cfg.Data.DBPath)
	} else {
		db, err = sqlite.NewDB(cfg.Data.DBPath)
	}
	if err != nil {
		fmt.Fprintf(out, "migrate %s: %v\n", sub, err) //nolint:errcheck
		return 1
	}
	defer db.Close() //nolint:errcheck

	if err := printStatus(ctx, db, cfg.Data.DBPath, out); err != nil {
		fmt.Fprintf(out, "migrate %s: %v\n", sub, err) //nolint:errcheck
		return 1
	}
	return 0
}

func printStatus(ctx context.Context, db *sql.DB, path string, out io.Writer) error {
	current, err := sqlite.MigrationVersion(ctx, db)
	if err != nil {
		return err
	}
	pending, err := sqlite.Pending(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "database: %s\nschema version: %d\n", path, current) //nolint:errcheck
	if len(pending) == 0 {
		fmt.Fprintln(out, "pending: none") //nolint:errcheck
		return nil
	}
	for _, m := range pending {
		fmt.Fprintf(out, "pending: %03d %s\n", m.Version, m.Name) //nolint:errcheck
	}
	return nil
}
