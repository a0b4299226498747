package docstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/peterbourgon/diskv/v3"
	"go.mongodb.org/mongo-driver/bson"
)

const localKeyPrefix = "swayami_mock_"

// Local keeps each collection as one extended-JSON array on disk. It is the
// fallback when the hosted store is unconfigured or unreachable.
type Local struct {
	mu sync.Mutex
	d  *diskv.Diskv
}

func NewLocal(basePath string) *Local {
	return &Local{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024,
		}),
	}
}

// StorageKey names the on-disk entry holding a collection.
func StorageKey(collection string) string {
	return localKeyPrefix + collection
}

type localCollection struct {
	Documents []bson.M `bson:"documents"`
}

func (l *Local) load(collection string) ([]bson.M, error) {
	key := StorageKey(collection)
	if !l.d.Has(key) {
		return nil, nil
	}
	raw, err := l.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	var c localCollection
	if err := bson.UnmarshalExtJSON(raw, false, &c); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return c.Documents, nil
}

func (l *Local) save(collection string, docs []bson.M) error {
	if docs == nil {
		docs = []bson.M{}
	}
	raw, err := bson.MarshalExtJSON(localCollection{Documents: docs}, false, false)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return l.d.Write(StorageKey(collection), raw)
}

func (l *Local) FindOne(ctx context.Context, collection string, filter Filter, out interface{}) (bool, error) {
	f, err := toDocument(filter)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	docs, err := l.load(collection)
	if err != nil {
		return false, err
	}
	for _, doc := range docs {
		if matches(doc, f) {
			return true, decodeDocument(doc, out)
		}
	}
	return false, nil
}

func (l *Local) Find(ctx context.Context, collection string, filter Filter, opts FindOptions, out interface{}) error {
	f, err := toDocument(filter)
	if err != nil {
		return err
	}

	l.mu.Lock()
	docs, err := l.load(collection)
	l.mu.Unlock()
	if err != nil {
		return err
	}

	result := make([]bson.M, 0, len(docs))
	for _, doc := range docs {
		if matches(doc, f) {
			result = append(result, doc)
		}
	}
	sortDocuments(result, opts.Sort)
	if opts.Limit > 0 && int64(len(result)) > opts.Limit {
		result = result[:opts.Limit]
	}
	return decodeDocuments(result, out)
}

func (l *Local) InsertOne(ctx context.Context, collection string, document interface{}) error {
	doc, err := toDocument(document)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	docs, err := l.load(collection)
	if err != nil {
		return err
	}
	return l.save(collection, append(docs, doc))
}

func (l *Local) UpdateOne(ctx context.Context, collection string, filter Filter, set bson.M) (int64, error) {
	f, err := toDocument(filter)
	if err != nil {
		return 0, err
	}
	fields, err := toDocument(set)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	docs, err := l.load(collection)
	if err != nil {
		return 0, err
	}
	for _, doc := range docs {
		if !matches(doc, f) {
			continue
		}
		for k, v := range fields {
			doc[k] = v
		}
		return 1, l.save(collection, docs)
	}
	return 0, nil
}

func (l *Local) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	f, err := toDocument(filter)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	docs, err := l.load(collection)
	if err != nil {
		return 0, err
	}
	for i, doc := range docs {
		if !matches(doc, f) {
			continue
		}
		docs = append(docs[:i], docs[i+1:]...)
		return 1, l.save(collection, docs)
	}
	return 0, nil
}

// Reset removes every stored collection.
func (l *Local) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.d.EraseAll()
}
