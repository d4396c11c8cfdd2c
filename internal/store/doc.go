// Package store defines the persistence contracts for review records, the
// daily activity ledger, deck settings and vocabulary pools. Implementations
// live under internal/platform; services depend only on these interfaces.
package store
