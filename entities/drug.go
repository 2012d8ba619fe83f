// Package entities holds the records served by the OpenBNF API.
package entities

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Drug is a formulary record as stored in the drugs collection.
// The store identity (_id) is never serialized to JSON.
//
// Apart from the name, a field holds whatever the document holds: usually a
// string, sometimes a list or a nested document. The value is passed through
// untouched on output and projected to text for display and search.
type Drug struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	FName             any                `bson:"fname,omitempty"`
	Breadcrumbs       any                `bson:"breadcrumbs,omitempty"`
	Indications       any                `bson:"indications,omitempty"`
	Doses             any                `bson:"doses,omitempty"`
	ContraIndications any                `bson:"contra-indications,omitempty"`
	Interactions      any                `bson:"interactions,omitempty"`
	SideEffects       any                `bson:"side-effects,omitempty"`
	HepaticImpairment any                `bson:"hepatic-impairment,omitempty"`
	RenalImpairment   any                `bson:"renal-impairment,omitempty"`

	// Extra keeps the document fields that are not part of Schema
	Extra map[string]any `bson:",inline"`
}

// Section is a rendered field of a drug.
type Section struct {
	Field FieldSpec
	Text  string
}

// Value returns the value of a known field and whether it is set.
func (d *Drug) Value(key string) (any, bool) {
	if key == "name" {
		return d.Name, true
	}
	if p := d.field(key); p != nil {
		return *p, present(*p)
	}
	return nil, false
}

// Text returns the text projection of a known field. Breadcrumbs are joined
// with " > ", other lists one item per line.
func (d *Drug) Text(key string) string {
	switch key {
	case "name":
		return d.Name
	case "breadcrumbs":
		return strings.Join(d.Crumbs(), " > ")
	}
	if p := d.field(key); p != nil {
		return fieldText(*p, "\n")
	}
	return ""
}

// Crumbs returns the breadcrumbs as text, outermost chapter first.
func (d Drug) Crumbs() []string {
	switch v := d.Breadcrumbs.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, c := range v {
			if s := fieldText(c, ", "); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	if s := fieldText(d.Breadcrumbs, ", "); s != "" {
		return []string{s}
	}
	return nil
}

// Source returns the fname field as text.
func (d Drug) Source() string {
	return fieldText(d.FName, ", ")
}

// Sections returns the non-empty fields selected by keep, in schema order.
func (d *Drug) Sections(keep func(FieldSpec) bool) []Section {
	var out []Section
	for _, f := range Schema {
		if !keep(f) {
			continue
		}
		if text := d.Text(f.Key); text != "" {
			out = append(out, Section{Field: f, Text: text})
		}
	}
	return out
}

func (d *Drug) field(key string) *any {
	switch key {
	case "fname":
		return &d.FName
	case "breadcrumbs":
		return &d.Breadcrumbs
	case "indications":
		return &d.Indications
	case "doses":
		return &d.Doses
	case "contra-indications":
		return &d.ContraIndications
	case "interactions":
		return &d.Interactions
	case "side-effects":
		return &d.SideEffects
	case "hepatic-impairment":
		return &d.HepaticImpairment
	case "renal-impairment":
		return &d.RenalImpairment
	}
	return nil
}

// MarshalJSON flattens the known fields and Extra into one object, without _id.
func (d Drug) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+len(Schema))
	for k, v := range d.Extra {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	for _, f := range Schema {
		if v, ok := d.Value(f.Key); ok {
			out[f.Key] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a seed document. Unknown fields land in Extra and _id is dropped.
func (d *Drug) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	d.fromDocument(doc)
	return nil
}

// UnmarshalBSON reads a stored document the same way as UnmarshalJSON,
// keeping the ObjectID identity.
func (d *Drug) UnmarshalBSON(data []byte) error {
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}
	d.fromDocument(doc)
	return nil
}

func (d *Drug) fromDocument(doc map[string]any) {
	*d = Drug{}
	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		d.ID = id
	}
	// A name that is not a string leaves the record nameless, and it is
	// dropped by validation.
	d.Name, _ = doc["name"].(string)

	var rest map[string]any
	for k, v := range doc {
		if k == "_id" || k == "name" {
			continue
		}
		if p := d.field(k); p != nil {
			*p = plain(v)
			continue
		}
		if rest == nil {
			rest = make(map[string]any)
		}
		rest[k] = plain(v)
	}
	d.Extra = rest
}

// plain converts BSON containers into the map and slice types encoding/json
// understands.
func plain(v any) any {
	switch t := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		return plain(map[string]any(t))
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.A:
		return plain([]any(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

func present(v any) bool {
	if s, ok := v.(string); ok {
		return s != ""
	}
	return v != nil
}

// fieldText projects a field value to text. List items are joined with sep.
// A nested document becomes one "key: value" line per key, in key order.
func fieldText(v any, sep string) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, sep)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := fieldText(e, ", "); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			if s := fieldText(t[k], ", "); s != "" {
				lines = append(lines, k+": "+s)
			}
		}
		return strings.Join(lines, "\n")
	}
	return fmt.Sprint(v)
}
