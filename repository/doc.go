// Package repository provides a generic, condition-based repository built on
// Bun, with soft-delete (tombstone) semantics, pagination, and aggregate
// queries over a single entity schema.
package repository
