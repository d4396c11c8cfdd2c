// Package testdb opens a migrated PostgreSQL database for integration tests
// and isolates each test in a transaction that is always rolled back.
//
// Tests using it carry the "integration" build tag and are skipped unless
// LINGO_TEST_DATABASE_URL or DATABASE_URL is set.
package testdb
