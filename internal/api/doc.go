// Package api contains the HTTP handlers for the task-management API.
//
// Handlers depend only on the store and auth service interfaces and never
// reach into the database directly. Ownership scoping is enforced at this
// layer: every protected handler compares the request's target email with
// the identity the access guard verified, and rejects mismatches with 403
// before any store call runs.
package api
