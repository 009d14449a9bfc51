package business

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/samber/oops"

	// Register pgx driver
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/zenorapm/zenora/internal/config"
	migrations "github.com/zenorapm/zenora/sql"
)

// MigrateMain applies the database migrations.
func MigrateMain(ctx context.Context, cfg *config.Config) error {
	const dialect = "pgx"

	db, err := sql.Open(dialect, config.MakeConnStr(cfg.Database))
	if err != nil {
		return oops.In("main").Wrapf(err, "opening DB connection")
	}

	defer func() {
		_ = db.Close()
	}()

	goose.SetBaseFS(migrations.FS)

	err = goose.SetDialect(dialect)
	if err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	err = goose.UpContext(ctx, db, ".")
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}
