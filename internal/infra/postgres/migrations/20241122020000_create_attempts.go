package migrations

func init() {
	Migrations.MustRegister(
		execFile("create_attempts.sql"),
		execSQL(`DROP TABLE IF EXISTS attempts`),
	)
}
