// Package pg opens PostgreSQL connection pools with pgx and applies
// embedded goose migrations through the database/sql bridge.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, log); err != nil { ... }
//
// Error helpers translate driver errors so stores can map them onto their
// own sentinels: IsNotFoundError for pgx.ErrNoRows, IsDuplicateKeyError for
// unique violations (SQLSTATE 23505).
package pg
