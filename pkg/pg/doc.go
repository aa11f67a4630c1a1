// Package pg bootstraps the PostgreSQL connection used by the page style
// store: Connect opens a pgx pool with retries, Migrate applies the embedded
// goose migrations and Healthcheck returns a ping check.
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//	styles := store.NewPostgres(pool)
package pg
