// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx stdlib driver. Every store accepts a
// store.DBTX so it can run on a pool or inside a caller's transaction.
package postgres
