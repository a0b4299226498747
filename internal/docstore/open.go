package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saulo-duarte/swayami/internal/config"
)

type Backend string

const (
	BackendAuto     Backend = "auto"
	BackendDataAPI  Backend = "dataapi"
	BackendLocal    Backend = "local"
	BackendPostgres Backend = "postgres"
)

// PlaceholderAPIKey is the value shipped in sample env files. It counts as
// no key at all.
const PlaceholderAPIKey = "your_mongodb_data_api_key_here"

func IsPlaceholder(apiKey string) bool {
	apiKey = strings.TrimSpace(apiKey)
	return apiKey == "" || apiKey == PlaceholderAPIKey
}

// Probe issues a cheap findOne against the users collection, bounded by
// timeout.
func Probe(ctx context.Context, c Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out struct{}
	_, err := c.FindOne(ctx, CollectionUsers, Filter{"_id": "__health__"}, &out)
	return err
}

// Open picks the document store for cfg. With backend "auto" the hosted
// Data API is used when it has a real key and answers a probe; otherwise
// the local store takes over for the rest of the process.
func Open(ctx context.Context, cfg config.DocStoreConfig) (Client, Backend, error) {
	log := config.WithContext(ctx)

	switch Backend(cfg.Backend) {
	case BackendLocal:
		log.WithField("path", cfg.LocalPath).Info("Using local document store")
		return NewLocal(cfg.LocalPath), BackendLocal, nil

	case BackendPostgres:
		pg, err := OpenPostgres(cfg.DSN)
		if err != nil {
			return nil, "", err
		}
		log.Info("Using postgres document store")
		return pg, BackendPostgres, nil

	case BackendDataAPI, BackendAuto, "":
		if IsPlaceholder(cfg.APIKey) {
			log.Warn("Document store API key is not configured, falling back to local store")
			return NewLocal(cfg.LocalPath), BackendLocal, nil
		}

		api := NewDataAPI(DataAPIConfig{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			DataSource: cfg.DataSource,
			Database:   cfg.Database,
		}, nil)
		if err := Probe(ctx, api, cfg.ProbeTimeout); err != nil {
			log.WithError(err).Warn("Document store is unreachable, falling back to local store")
			return NewLocal(cfg.LocalPath), BackendLocal, nil
		}
		log.Info("Using hosted document store")
		return api, BackendDataAPI, nil
	}

	return nil, "", fmt.Errorf("unknown document store backend %q", cfg.Backend)
}
