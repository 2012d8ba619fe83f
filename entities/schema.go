package entities

// FieldCategory groups the known fields of a drug record.
type FieldCategory int

const (
	CategoryCore FieldCategory = iota
	CategoryClinical
	CategoryImpairment
)

// FieldSpec describes one known field of a drug record.
type FieldSpec struct {
	Key      string
	Label    string
	Category FieldCategory
	// Displayed marks fields rendered on the result page
	Displayed bool
	// Searchable marks free-text fields that can be queried by substring
	Searchable bool
}

// Schema lists every field the application knows about, in display order.
// Anything else found on a stored document is kept in Drug.Extra.
var Schema = []FieldSpec{
	{Key: "name", Label: "Name", Category: CategoryCore, Displayed: true},
	{Key: "fname", Label: "Source", Category: CategoryCore, Displayed: true},
	{Key: "breadcrumbs", Label: "Chapter", Category: CategoryCore, Displayed: true},
	{Key: "indications", Label: "Indications", Category: CategoryClinical, Searchable: true},
	{Key: "doses", Label: "Doses", Category: CategoryClinical, Displayed: true},
	{Key: "contra-indications", Label: "Contra-indications", Category: CategoryClinical, Displayed: true},
	{Key: "interactions", Label: "Interactions", Category: CategoryClinical, Displayed: true},
	{Key: "side-effects", Label: "Side-effects", Category: CategoryClinical, Searchable: true},
	{Key: "hepatic-impairment", Label: "Hepatic impairment", Category: CategoryImpairment, Displayed: true},
	{Key: "renal-impairment", Label: "Renal impairment", Category: CategoryImpairment, Displayed: true},
}

// IsImpairment selects the impairment fields.
func IsImpairment(f FieldSpec) bool {
	return f.Category == CategoryImpairment
}

// IsResultField selects the fields shown on a result page, impairments included.
func IsResultField(f FieldSpec) bool {
	return f.Displayed
}

// IsSearchable selects the fields accepted by field substring lookups.
func IsSearchable(f FieldSpec) bool {
	return f.Searchable
}

// LookupField returns the schema entry for key.
func LookupField(key string) (FieldSpec, bool) {
	for _, f := range Schema {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Fields returns the schema entries accepted by keep, in schema order.
func Fields(keep func(FieldSpec) bool) []FieldSpec {
	var out []FieldSpec
	for _, f := range Schema {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
