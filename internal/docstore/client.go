// Package docstore is the document-store gateway: a small set of
// collection-level verbs served by the hosted Data API, a local on-disk
// store, or Postgres.
package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	CollectionUsers          = "users"
	CollectionGoals          = "goals"
	CollectionTasks          = "tasks"
	CollectionJournalEntries = "journal_entries"
)

var ErrUnsupported = errors.New("operation not supported by document store")

// Filter is an equality filter over top-level document fields.
type Filter = bson.M

type FindOptions struct {
	Sort  bson.D
	Limit int64
}

// SortNewestFirst orders documents by created_at descending.
var SortNewestFirst = bson.D{{Key: "created_at", Value: -1}}

type Client interface {
	// FindOne decodes the first matching document into out and reports
	// whether one was found.
	FindOne(ctx context.Context, collection string, filter Filter, out interface{}) (bool, error)
	Find(ctx context.Context, collection string, filter Filter, opts FindOptions, out interface{}) error
	InsertOne(ctx context.Context, collection string, document interface{}) error
	// UpdateOne applies a $set of fields to the first matching document and
	// returns the number of documents matched.
	UpdateOne(ctx context.Context, collection string, filter Filter, set bson.M) (int64, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)
}
