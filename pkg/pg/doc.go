// Package pg bootstraps the PostgreSQL pool (pgx) and runs embedded goose
// migrations for the optional Postgres account storage.
package pg
