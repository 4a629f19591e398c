package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

type table struct {
	name string
	ddl  string
}

// Order matters: foreign keys point at earlier tables.
var tables = []table{
	{name: "accounts", ddl: `
CREATE TABLE IF NOT EXISTS accounts (
	id CHAR(36) NOT NULL PRIMARY KEY,
	email VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
	name VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NULL,
	image VARCHAR(1024) NULL,
	created_at DATETIME(3) NOT NULL,
	updated_at DATETIME(3) NOT NULL,
	UNIQUE KEY uniq_accounts_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{name: "oauth_identities", ddl: `
CREATE TABLE IF NOT EXISTS oauth_identities (
	provider VARCHAR(32) NOT NULL,
	provider_account_id VARCHAR(255) NOT NULL,
	account_id CHAR(36) NOT NULL,
	created_at DATETIME(3) NOT NULL,
	PRIMARY KEY (provider, provider_account_id),
	KEY idx_oauth_account (account_id),
	CONSTRAINT fk_oauth_account FOREIGN KEY (account_id) REFERENCES accounts (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{name: "trips", ddl: `
CREATE TABLE IF NOT EXISTS trips (
	id CHAR(36) NOT NULL PRIMARY KEY,
	owner_id CHAR(36) NOT NULL,
	name VARCHAR(255) NOT NULL,
	destination VARCHAR(255) NOT NULL,
	country VARCHAR(255) NULL,
	state VARCHAR(255) NULL,
	category VARCHAR(255) NULL,
	start_date DATETIME(3) NOT NULL,
	end_date DATETIME(3) NOT NULL,
	image_url VARCHAR(1024) NULL,
	created_at DATETIME(3) NOT NULL,
	updated_at DATETIME(3) NOT NULL,
	KEY idx_trips_owner_start (owner_id, start_date),
	CONSTRAINT fk_trips_owner FOREIGN KEY (owner_id) REFERENCES accounts (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
	{name: "locations", ddl: `
CREATE TABLE IF NOT EXISTS locations (
	id CHAR(36) NOT NULL PRIMARY KEY,
	trip_id CHAR(36) NOT NULL,
	lat DOUBLE NOT NULL,
	lng DOUBLE NOT NULL,
	title TEXT NOT NULL,
	sort_order INT NOT NULL,
	created_at DATETIME(3) NOT NULL,
	KEY idx_locations_trip_order (trip_id, sort_order),
	CONSTRAINT fk_locations_trip FOREIGN KEY (trip_id) REFERENCES trips (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`},
}

// HasTable reports whether table exists in the current schema.
func HasTable(ctx context.Context, q sqlx.QueryerContext, name string) (bool, error) {
	var found sql.NullString
	err := sqlx.GetContext(ctx, q, &found, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1`, name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return found.Valid && found.String != "", nil
}

// Migrate creates missing tables. It is safe to run repeatedly.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	for _, t := range tables {
		exists, err := HasTable(ctx, conn, t.name)
		if err != nil {
			return fmt.Errorf("check table %s: %w", t.name, err)
		}
		if exists {
			continue
		}
		if _, err := conn.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		log.Printf("[MIGRATE] action=create_table table=%s", t.name)
	}
	return nil
}
