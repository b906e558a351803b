// Package inprocess provides the task queue and deduplicator used when no
// broker or redis is configured. Tasks live in memory and are lost on
// restart; the notification retry job re-enqueues unsent creation messages.
package inprocess
