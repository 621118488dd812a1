package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/postgres"
	_ "github.com/lib/pq"
)

// Open connects to Postgres. With CLOUDSQL_CONNECTION_NAME set the Cloud SQL
// proxy dialer is used (App Engine deploys); otherwise DATABASE_URL is handed
// to lib/pq directly.
func Open() (*sql.DB, error) {
	if conn := os.Getenv("CLOUDSQL_CONNECTION_NAME"); conn != "" {
		dbURI := fmt.Sprintf("host=%s dbname=%s user=%s password=%s sslmode=disable",
			conn,
			os.Getenv("CLOUDSQL_DATABASE_NAME"),
			os.Getenv("CLOUDSQL_USER"),
			os.Getenv("CLOUDSQL_PASSWORD"),
		)
		return sql.Open("cloudsqlpostgres", dbURI)
	}

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, fmt.Errorf("db: neither CLOUDSQL_CONNECTION_NAME nor DATABASE_URL is set")
	}

	return sql.Open("postgres", url)
}

// LogAndExec logs the statement and its arguments, then executes it.
func LogAndExec(db *sql.DB, query string, args ...interface{}) (sql.Result, error) {
	log.Println(query)
	if len(args) > 0 {
		log.Println(args...)
	}

	return db.Exec(query, args...)
}

// LogAndQueryRow logs the query and its arguments, then runs it for one row.
func LogAndQueryRow(db *sql.DB, query string, args ...interface{}) *sql.Row {
	log.Println(query)
	if len(args) > 0 {
		log.Println(args...)
	}

	return db.QueryRow(query, args...)
}
