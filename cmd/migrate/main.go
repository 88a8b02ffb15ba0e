// Package main applies database migrations.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
)

func main() {
	_ = godotenv.Load()

	var (
		dir     = flag.String("dir", "migrations", "directory with migration files")
		command = flag.String("command", "up", "goose command: up, down, status, version")
	)
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set")
		os.Exit(1)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		fmt.Fprintf(os.Stderr, "set dialect: %v\n", err)
		os.Exit(1)
	}

	var runErr error
	switch *command {
	case "up":
		runErr = goose.Up(db, *dir)
	case "down":
		runErr = goose.Down(db, *dir)
	case "status":
		runErr = goose.Status(db, *dir)
	case "version":
		runErr = goose.Version(db, *dir)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", *command)
		os.Exit(1)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "goose %s: %v\n", *command, runErr)
		os.Exit(1)
	}
}
