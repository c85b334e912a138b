package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if err := execFile("create_quiz_stats.sql")(ctx, db); err != nil {
				return err
			}
			return execSQL(`INSERT INTO quiz_stats (id) VALUES (1) ON CONFLICT (id) DO NOTHING`)(ctx, db)
		},
		execSQL(`DROP TABLE IF EXISTS quiz_stats`),
	)
}
