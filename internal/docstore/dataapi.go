package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

type DataAPIConfig struct {
	BaseURL    string
	APIKey     string
	DataSource string
	Database   string
}

// APIError is a non-2xx answer from the Data API.
type APIError struct {
	Action string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("data api %s: status %d: %s", e.Action, e.Status, e.Body)
}

// DataAPI talks to a hosted document database over its HTTPS action
// endpoints. Every call is a POST to {base}/action/{verb}.
type DataAPI struct {
	cfg        DataAPIConfig
	httpClient *http.Client
}

func NewDataAPI(cfg DataAPIConfig, httpClient *http.Client) *DataAPI {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &DataAPI{cfg: cfg, httpClient: httpClient}
}

type actionRequest struct {
	Collection string      `bson:"collection"`
	Database   string      `bson:"database"`
	DataSource string      `bson:"dataSource"`
	Filter     bson.M      `bson:"filter,omitempty"`
	Document   interface{} `bson:"document,omitempty"`
	Update     bson.M      `bson:"update,omitempty"`
	Sort       bson.D      `bson:"sort,omitempty"`
	Limit      int64       `bson:"limit,omitempty"`
}

type actionResponse struct {
	Document      bson.RawValue `bson:"document"`
	Documents     bson.RawValue `bson:"documents"`
	InsertedID    interface{}   `bson:"insertedId"`
	MatchedCount  int64         `bson:"matchedCount"`
	ModifiedCount int64         `bson:"modifiedCount"`
	DeletedCount  int64         `bson:"deletedCount"`
}

func (d *DataAPI) request(collection string) actionRequest {
	return actionRequest{
		Collection: collection,
		Database:   d.cfg.Database,
		DataSource: d.cfg.DataSource,
	}
}

func (d *DataAPI) do(ctx context.Context, action string, req actionRequest) (*actionResponse, error) {
	body, err := bson.MarshalExtJSON(req, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.BaseURL+"/action/"+action, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/ejson")
	httpReq.Header.Set("Accept", "application/ejson")
	httpReq.Header.Set("api-key", d.cfg.APIKey)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("data api %s: %w", action, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", action, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Action: action, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	out := &actionResponse{}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return out, nil
	}
	if err := bson.UnmarshalExtJSON(respBody, false, out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", action, err)
	}
	return out, nil
}

func present(v bson.RawValue) bool {
	return len(v.Value) > 0 && v.Type != bson.TypeNull
}

func (d *DataAPI) FindOne(ctx context.Context, collection string, filter Filter, out interface{}) (bool, error) {
	req := d.request(collection)
	req.Filter = filter

	resp, err := d.do(ctx, "findOne", req)
	if err != nil {
		return false, err
	}
	if !present(resp.Document) {
		return false, nil
	}
	if err := resp.Document.Unmarshal(out); err != nil {
		return false, fmt.Errorf("decode %s document: %w", collection, err)
	}
	return true, nil
}

func (d *DataAPI) Find(ctx context.Context, collection string, filter Filter, opts FindOptions, out interface{}) error {
	req := d.request(collection)
	req.Filter = filter
	req.Sort = opts.Sort
	req.Limit = opts.Limit

	resp, err := d.do(ctx, "find", req)
	if err != nil {
		return err
	}
	if !present(resp.Documents) {
		return decodeDocuments(nil, out)
	}
	if err := resp.Documents.Unmarshal(out); err != nil {
		return fmt.Errorf("decode %s documents: %w", collection, err)
	}
	return nil
}

func (d *DataAPI) InsertOne(ctx context.Context, collection string, document interface{}) error {
	req := d.request(collection)
	req.Document = document

	_, err := d.do(ctx, "insertOne", req)
	return err
}

func (d *DataAPI) UpdateOne(ctx context.Context, collection string, filter Filter, set bson.M) (int64, error) {
	req := d.request(collection)
	req.Filter = filter
	req.Update = bson.M{"$set": set}

	resp, err := d.do(ctx, "updateOne", req)
	if err != nil {
		return 0, err
	}
	return resp.MatchedCount, nil
}

func (d *DataAPI) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	req := d.request(collection)
	req.Filter = filter

	resp, err := d.do(ctx, "deleteOne", req)
	if err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}
