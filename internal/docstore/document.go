package docstore

import (
	"bytes"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// toDocument converts a struct or map into a generic document by running it
// through the bson encoder, so bson tags decide the field names.
func toDocument(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// decodeDocuments decodes docs into out, which must point to a slice.
func decodeDocuments(docs []bson.M, out interface{}) error {
	if docs == nil {
		docs = []bson.M{}
	}
	raw, err := bson.Marshal(bson.M{"documents": docs})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("documents").Unmarshal(out)
}

func decodeDocument(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok {
			if want == nil {
				continue
			}
			return false
		}
		if compareValues(got, want) != 0 {
			return false
		}
	}
	return true
}

func sortDocuments(docs []bson.M, order bson.D) {
	if len(order) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, e := range order {
			c := compareValues(docs[i][e.Key], docs[j][e.Key])
			if c == 0 {
				continue
			}
			if direction(e.Value) < 0 {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func direction(v interface{}) int {
	if f, ok := number(v); ok && f < 0 {
		return -1
	}
	return 1
}

func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func instant(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

// compareValues orders two document values. Values of different kinds
// compare as unequal with nil sorting first.
func compareValues(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := instant(a); ok {
		if y, ok := instant(b); ok {
			return x.Compare(y)
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}

	ra, errA := bson.Marshal(bson.M{"v": a})
	rb, errB := bson.Marshal(bson.M{"v": b})
	if errA != nil || errB != nil {
		return 1
	}
	return bytes.Compare(ra, rb)
}
