// Package arff holds ceka's in-memory dataset model, its ARFF codec and the
// refinement operations the arff mode exposes.
package arff

import "strings"

// Missing is the ARFF marker for an absent value
const Missing = "?"

// Kind is an attribute's declared type
type Kind int

const (
	Nominal Kind = iota
	Numeric
	String
	Date
)

func (k Kind) String() string {
	switch k {
	case Nominal:
		return "nominal"
	case Numeric:
		return "numeric"
	case String:
		return "string"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// Attribute is one column of the dataset header
type Attribute struct {
	Name string
	Kind Kind

	// Values are the declared nominal values, in declaration order
	Values []string

	// TypeName keeps the numeric spelling (numeric, real, integer)
	TypeName string

	// Format is the optional date pattern
	Format string
}

// Dataset is a relation with its header and dense rows.
// Every cell is stored as its ARFF text; Missing marks absent values.
type Dataset struct {
	Relation   string
	Attributes []Attribute
	Rows       [][]string
}

// New creates an empty dataset with the given header
func New(relation string, attrs ...Attribute) *Dataset {
	return &Dataset{Relation: relation, Attributes: attrs}
}

// NominalAttribute builds a nominal attribute declaring values
func NominalAttribute(name string, values ...string) Attribute {
	return Attribute{Name: name, Kind: Nominal, Values: values}
}

// NumericAttribute builds a numeric attribute
func NumericAttribute(name string) Attribute {
	return Attribute{Name: name, Kind: Numeric, TypeName: "numeric"}
}

// AttributeIndex returns the index of the attribute called name, or -1.
// Matching is case-sensitive first, then case-insensitive.
func (d *Dataset) AttributeIndex(name string) int {
	for i, a := range d.Attributes {
		if a.Name == name {
			return i
		}
	}
	for i, a := range d.Attributes {
		if strings.EqualFold(a.Name, name) {
			return i
		}
	}
	return -1
}

// AddRow appends a row. Values are not checked; see IntegrityCheck.
func (d *Dataset) AddRow(values ...string) {
	d.Rows = append(d.Rows, values)
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.Rows)
}

func (a *Attribute) declares(value string) bool {
	for _, v := range a.Values {
		if v == value {
			return true
		}
	}
	return false
}
