// Package database provides connection management, configuration loading,
// query hooks, SQL error classification, health checks, and related
// utilities built on top of Bun.
package database
