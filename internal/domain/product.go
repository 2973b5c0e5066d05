// Package domain holds the core catalog record types.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Product is a semi-structured catalog record: a server-assigned integer ID
// plus free-form fields supplied by clients. The ID never lives inside
// Fields; it is merged in and out during JSON (de)serialization so clients
// see a single flat object.
type Product struct {
	ID     int64
	Fields map[string]any
}

// MarshalJSON flattens the product into a single JSON object with the id
// alongside the free-form fields.
func (p Product) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(p.Fields)+1)
	for k, v := range p.Fields {
		doc[k] = v
	}
	doc["id"] = p.ID
	return json.Marshal(doc)
}

// UnmarshalJSON captures every non-id key into Fields. A client-supplied id
// is parsed (for update lookups) but kept out of Fields.
func (p *Product) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.ID = 0
	if raw, ok := doc["id"]; ok {
		id, err := toInt64(raw)
		if err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		p.ID = id
		delete(doc, "id")
	}
	p.Fields = doc
	return nil
}

// Merge returns a copy of p with the given fields shallow-merged on top:
// keys present in fields replace existing values, absent keys are preserved.
// The ID is immutable; an "id" key in fields is ignored.
func (p Product) Merge(fields map[string]any) Product {
	merged := Product{ID: p.ID, Fields: make(map[string]any, len(p.Fields)+len(fields))}
	for k, v := range p.Fields {
		merged.Fields[k] = v
	}
	for k, v := range fields {
		if k == "id" {
			continue
		}
		merged.Fields[k] = v
	}
	return merged
}

// Clone returns a deep-enough copy for handing records across goroutines.
// Field values themselves are shared; callers treat them as immutable.
func (p Product) Clone() Product {
	fields := make(map[string]any, len(p.Fields))
	for k, v := range p.Fields {
		fields[k] = v
	}
	return Product{ID: p.ID, Fields: fields}
}

// toInt64 accepts the numeric forms encoding/json produces for an id.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
