// Package srs implements the spaced-repetition scheduling model: the
// per-grade interval policy, the running difficulty average, next review date
// anchoring and the daily new-card budget. Everything here is pure; callers
// supply "today" and handle persistence.
package srs
