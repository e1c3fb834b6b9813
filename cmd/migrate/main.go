package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-bakery/internal/config"
	"ms-bakery/internal/database/migrations"
	"ms-bakery/internal/logger"
)

// Migration tool for the bakery database. Usage:
//
//	migrate -cmd up            apply everything, seeds included
//	migrate -cmd down          roll everything back
//	migrate -cmd to -v 3       land on a specific version
//	migrate -cmd run           what the server does at startup
func main() {
	cmd := flag.String("cmd", "run", "migration command: run, up, down, to")
	version := flag.Uint("v", 0, "target version for -cmd to")
	dir := flag.String("dir", "./migrations", "directory containing migration files")
	seed := flag.Bool("seed", false, "apply seed migrations when -cmd run")
	flag.Parse()

	log := logger.NewLogger()
	defer log.Close()

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}

	cfg := config.Load()
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Database.Username, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
	}

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	defer bunDB.Close()

	runner := migrations.NewRunner(bunDB, log, migrations.Options{
		MigrationsDir: *dir,
		SeedData:      *seed,
	})
	defer runner.Close()

	switch *cmd {
	case "run":
		err = runner.Run()
	case "up":
		err = runner.Up()
	case "down":
		err = runner.Down()
	case "to":
		err = runner.To(*version)
	default:
		log.Error("APP", fmt.Sprintf("Unknown command: %s", *cmd))
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migration %s failed: %v", *cmd, err))
	}
	log.Info("DATABASE", fmt.Sprintf("Migration %s completed", *cmd))
}
