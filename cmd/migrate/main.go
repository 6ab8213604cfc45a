package main

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/bdeshop/khelaghor-sub001/internal/auth"
	"github.com/bdeshop/khelaghor-sub001/internal/config"
	"github.com/bdeshop/khelaghor-sub001/internal/db"
	"github.com/bdeshop/khelaghor-sub001/internal/logger"
	"github.com/bdeshop/khelaghor-sub001/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New("wallet-migrate", cfg.LogPretty)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema_migrations")
	}

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		filename := filepath.Base(file)
		var exists bool
		if err := database.Get(&exists, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, filename); err != nil {
			log.Fatal().Err(err).Msg("failed to read migration state")
		}
		if exists {
			continue
		}
		if err := applyFile(database, file); err != nil {
			log.Fatal().Err(err).Str("file", filename).Msg("failed to apply migration")
		}
		if _, err := database.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, filename); err != nil {
			log.Fatal().Err(err).Str("file", filename).Msg("failed to record migration")
		}
		log.Info().Str("file", filename).Msg("applied migration")
	}

	seedSuperAdmin(database, log)
}

// seedSuperAdmin bootstraps the first dashboard admin from the environment.
// Later admins are created through the API by a super admin.
func seedSuperAdmin(database *sqlx.DB, log zerolog.Logger) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}
	ctx := context.Background()
	admins := store.NewAdminStore(database)
	hasAdmin, err := admins.HasAnyAdmin(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to check admins")
	}
	if hasAdmin {
		return
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash admin password")
	}
	if err := admins.Create(ctx, database, uuid.NewString(), username, passwordHash, true, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to seed super admin")
	}
	log.Info().Str("username", username).Msg("seeded super admin")
}

func applyFile(db execer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sections := strings.Split(string(content), "-- +migrate Down")
	if len(sections) == 0 {
		return nil
	}
	up := sections[0]
	statements := splitSQL(up)
	for _, stmt := range statements {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func splitSQL(sqlText string) []string {
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteRune('\n')
		if strings.Contains(line, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
