// Package postgres contains the PostgreSQL-backed implementations of the
// store interfaces. Tasks, users and notifications keep their well-known
// fields in real columns and everything else a client sent in a jsonb
// document, so the API surface stays schemaless the way clients expect
// while queries and sorting run on indexed columns.
package postgres
