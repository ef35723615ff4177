// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Errors are wrapped with a "table:<name>:" marker so that sqlerr can name
// the missing entity when a lookup returns no rows.
package repository

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// notFound wraps pgx.ErrNoRows so sqlerr reports "<entity> not found".
func notFound(table string) error {
	return fmt.Errorf("no rows affected in table:%s: %w", table, pgx.ErrNoRows)
}
