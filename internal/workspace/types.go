package workspace

// RichText is a fragment of formatted text on a record property.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// Formula carries the computed value of a formula property.
type Formula struct {
	Number *float64 `json:"number,omitempty"`
}

// Relation is a pointer to another record in the workspace.
type Relation struct {
	ID string `json:"id"`
}

// Person is a workspace member referenced by a people property.
type Person struct {
	Name string `json:"name,omitempty"`
}

// Property is the union of property shapes the platform consumes.
type Property struct {
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Number   *float64   `json:"number,omitempty"`
	Formula  *Formula   `json:"formula,omitempty"`
	Relation []Relation `json:"relation,omitempty"`
	People   []Person   `json:"people,omitempty"`
}

// Record is a single row of a workspace database.
type Record struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// TitleText returns the plain text of a title property, empty when absent.
func (r Record) TitleText(name string) string {
	prop, ok := r.Properties[name]
	if !ok {
		return ""
	}
	return joinPlainText(prop.Title)
}

// RichTextValue returns the plain text of a rich-text property.
func (r Record) RichTextValue(name string) string {
	prop, ok := r.Properties[name]
	if !ok {
		return ""
	}
	return joinPlainText(prop.RichText)
}

// NumberValue returns the numeric value of a property, preferring the
// plain number over a formula result. Missing values read as zero.
func (r Record) NumberValue(name string) float64 {
	prop, ok := r.Properties[name]
	if !ok {
		return 0
	}
	if prop.Number != nil {
		return *prop.Number
	}
	if prop.Formula != nil && prop.Formula.Number != nil {
		return *prop.Formula.Number
	}
	return 0
}

// NumberPtr returns the numeric value of a property, or nil when the
// property is absent or carries no number. Lets callers distinguish a
// stored zero from a missing property when falling back across names.
func (r Record) NumberPtr(name string) *float64 {
	prop, ok := r.Properties[name]
	if !ok {
		return nil
	}
	if prop.Formula != nil && prop.Formula.Number != nil {
		return prop.Formula.Number
	}
	if prop.Number != nil {
		return prop.Number
	}
	return nil
}

// RelationIDs returns the ids referenced by a relation property.
func (r Record) RelationIDs(name string) []string {
	prop, ok := r.Properties[name]
	if !ok || len(prop.Relation) == 0 {
		return nil
	}
	ids := make([]string, 0, len(prop.Relation))
	for _, rel := range prop.Relation {
		if rel.ID != "" {
			ids = append(ids, rel.ID)
		}
	}
	return ids
}

// PersonName returns the first member name on a people property.
func (r Record) PersonName(name string) string {
	prop, ok := r.Properties[name]
	if !ok {
		return ""
	}
	for _, p := range prop.People {
		if p.Name != "" {
			return p.Name
		}
	}
	return ""
}

func joinPlainText(fragments []RichText) string {
	out := ""
	for _, f := range fragments {
		out += f.PlainText
	}
	return out
}
