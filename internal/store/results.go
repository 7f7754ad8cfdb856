package store

import "github.com/google/uuid"

// Operation summaries returned to clients. The field names mirror the wire
// format the original frontend already consumes, which is why they carry
// their JSON tags here rather than in the API layer.

// InsertResult summarizes a successful insert.
type InsertResult struct {
	Acknowledged bool      `json:"acknowledged"`
	InsertedID   uuid.UUID `json:"insertedId"`
}

// UpdateResult summarizes an update: how many rows the query matched and
// how many were written.
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult summarizes a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// RunningSummary is the cross-user dashboard aggregation over running
// tasks: a count and the titles joined with ", " in insertion order.
type RunningSummary struct {
	Count  int64  `json:"count"`
	Titles string `json:"titles"`
}
