package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// documentRow stores one document of any collection as jsonb.
type documentRow struct {
	ID         string         `gorm:"primaryKey;type:text"`
	Collection string         `gorm:"primaryKey;type:text"`
	Document   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

var sortKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Postgres keeps documents in a single jsonb table keyed by collection and
// _id. Filters use jsonb containment.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewPostgres(db)
}

func NewPostgres(db *gorm.DB) (*Postgres, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("migrate documents table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func encodeJSON(doc bson.M) (datatypes.JSON, error) {
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodeRow(row documentRow) (bson.M, error) {
	doc := bson.M{}
	if err := bson.UnmarshalExtJSON(row.Document, false, &doc); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", row.Collection, row.ID, err)
	}
	return doc, nil
}

func (p *Postgres) scope(ctx context.Context, collection string, filter Filter) (*gorm.DB, error) {
	f, err := toDocument(filter)
	if err != nil {
		return nil, err
	}
	q := p.db.WithContext(ctx).Model(&documentRow{}).Where("collection = ?", collection)
	if len(f) == 0 {
		return q, nil
	}
	contains, err := encodeJSON(f)
	if err != nil {
		return nil, err
	}
	return q.Where("document @> ?::jsonb", string(contains)), nil
}

func (p *Postgres) FindOne(ctx context.Context, collection string, filter Filter, out interface{}) (bool, error) {
	q, err := p.scope(ctx, collection, filter)
	if err != nil {
		return false, err
	}

	var row documentRow
	if err := q.Order("created_at").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	doc, err := decodeRow(row)
	if err != nil {
		return false, err
	}
	return true, decodeDocument(doc, out)
}

func (p *Postgres) Find(ctx context.Context, collection string, filter Filter, opts FindOptions, out interface{}) error {
	q, err := p.scope(ctx, collection, filter)
	if err != nil {
		return err
	}

	for _, e := range opts.Sort {
		if !sortKeyPattern.MatchString(e.Key) {
			return fmt.Errorf("invalid sort key %q", e.Key)
		}
		dir := "ASC"
		if direction(e.Value) < 0 {
			dir = "DESC"
		}
		q = q.Order(fmt.Sprintf("COALESCE(document->'%s'->>'$date', document->>'%s') %s", e.Key, e.Key, dir))
	}
	if opts.Limit > 0 {
		q = q.Limit(int(opts.Limit))
	}

	var rows []documentRow
	if err := q.Find(&rows).Error; err != nil {
		return err
	}

	docs := make([]bson.M, 0, len(rows))
	for _, row := range rows {
		doc, err := decodeRow(row)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	return decodeDocuments(docs, out)
}

func (p *Postgres) InsertOne(ctx context.Context, collection string, document interface{}) error {
	doc, err := toDocument(document)
	if err != nil {
		return err
	}

	id, _ := doc["_id"].(string)
	if id == "" {
		id = uuid.NewString()
		doc["_id"] = id
	}
	body, err := encodeJSON(doc)
	if err != nil {
		return err
	}

	return p.db.WithContext(ctx).Create(&documentRow{
		ID:         id,
		Collection: collection,
		Document:   body,
	}).Error
}

func (p *Postgres) UpdateOne(ctx context.Context, collection string, filter Filter, set bson.M) (int64, error) {
	fields, err := toDocument(set)
	if err != nil {
		return 0, err
	}
	q, err := p.scope(ctx, collection, filter)
	if err != nil {
		return 0, err
	}

	var row documentRow
	if err := q.Order("created_at").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	doc, err := decodeRow(row)
	if err != nil {
		return 0, err
	}
	for k, v := range fields {
		doc[k] = v
	}
	body, err := encodeJSON(doc)
	if err != nil {
		return 0, err
	}

	res := p.db.WithContext(ctx).Model(&documentRow{}).
		Where("collection = ? AND id = ?", collection, row.ID).
		Update("document", body)
	return res.RowsAffected, res.Error
}

func (p *Postgres) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	q, err := p.scope(ctx, collection, filter)
	if err != nil {
		return 0, err
	}

	var row documentRow
	if err := q.Order("created_at").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	res := p.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, row.ID).
		Delete(&documentRow{})
	return res.RowsAffected, res.Error
}
