package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("DB_URL not set in environment")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	if err := run(db, *mode, "./migrations"); err != nil {
		log.Fatal(err)
	}
}

func run(db *sql.DB, mode, migrationsDir string) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	switch mode {
	case "up":
		files, err := migrationFiles(migrationsDir, ".up.sql")
		if err != nil {
			return err
		}
		return runMigrationsUp(db, files)
	case "down":
		files, err := migrationFiles(migrationsDir, ".down.sql")
		if err != nil {
			return err
		}
		return runMigrationsDown(db, files)
	default:
		return fmt.Errorf("unknown mode: %s (use 'up' or 'down')", mode)
	}
}

func migrationFiles(dir, suffix string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// version strips the direction suffix so up and down files share one record.
func version(file string) string {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, ".up.sql")
	base = strings.TrimSuffix(base, ".down.sql")
	return base
}

func runMigrationsUp(db *sql.DB, files []string) error {
	for _, file := range files {
		v := version(file)

		var exists bool
		err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, v).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			fmt.Printf("skipping already applied migration: %s\n", v)
			continue
		}

		if err := apply(db, file); err != nil {
			return err
		}
		if _, err := db.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, v); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", v, err)
		}
		fmt.Printf("applied migration: %s\n", v)
	}
	return nil
}

func runMigrationsDown(db *sql.DB, files []string) error {
	// Reverse order: newest schema change rolls back first.
	for i := len(files) - 1; i >= 0; i-- {
		file := files[i]
		v := version(file)

		var exists bool
		err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, v).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if !exists {
			continue
		}

		if err := apply(db, file); err != nil {
			return err
		}
		if _, err := db.Exec(`DELETE FROM schema_migrations WHERE version = $1`, v); err != nil {
			return fmt.Errorf("failed to unrecord migration %s: %w", v, err)
		}
		fmt.Printf("rolled back migration: %s\n", v)
	}
	return nil
}

func apply(db *sql.DB, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("failed to apply %s: %w", file, err)
	}
	return nil
}
