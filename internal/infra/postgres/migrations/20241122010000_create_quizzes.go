package migrations

func init() {
	Migrations.MustRegister(
		execFile("create_quizzes.sql"),
		execSQL(`DROP TABLE IF EXISTS quizzes`),
	)
}
