// Package docstoretest provides document store doubles for tests.
package docstoretest

import (
	"context"
	"errors"

	"github.com/saulo-duarte/swayami/internal/docstore"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrUnavailable = errors.New("document store unavailable")

// Unavailable fails every call.
type Unavailable struct{}

var _ docstore.Client = Unavailable{}

func (Unavailable) FindOne(context.Context, string, docstore.Filter, interface{}) (bool, error) {
	return false, ErrUnavailable
}

func (Unavailable) Find(context.Context, string, docstore.Filter, docstore.FindOptions, interface{}) error {
	return ErrUnavailable
}

func (Unavailable) InsertOne(context.Context, string, interface{}) error {
	return ErrUnavailable
}

func (Unavailable) UpdateOne(context.Context, string, docstore.Filter, bson.M) (int64, error) {
	return 0, ErrUnavailable
}

func (Unavailable) DeleteOne(context.Context, string, docstore.Filter) (int64, error) {
	return 0, ErrUnavailable
}

// FailWrites wraps a client and rejects every mutation.
type FailWrites struct {
	docstore.Client
}

func (FailWrites) InsertOne(context.Context, string, interface{}) error {
	return ErrUnavailable
}

func (FailWrites) UpdateOne(context.Context, string, docstore.Filter, bson.M) (int64, error) {
	return 0, ErrUnavailable
}

func (FailWrites) DeleteOne(context.Context, string, docstore.Filter) (int64, error) {
	return 0, ErrUnavailable
}
