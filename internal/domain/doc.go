// Package domain contains the core entities of the review scheduler: review
// records, grades, calendar dates, daily activity and deck settings. It has no
// knowledge of storage or transport.
package domain
