// Package queries contains the read side. Handlers run raw SQL through GORM
// and return flat read models instead of aggregates. They never write.
package queries
