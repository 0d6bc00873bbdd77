package search

// Store-agnostic field names a predicate can reference. The persistence
// adapter owns the mapping to physical columns.
const (
	FieldID           = "id"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldPropertyType = "propertyType"
	FieldPurpose      = "purpose"
	FieldPrice        = "price"
	FieldStatus       = "status"
	FieldFeatured     = "featured"
	FieldBedrooms     = "totalBedrooms"
	FieldBathrooms    = "totalBathrooms"
	FieldAddress      = "location.address"
	FieldCity         = "location.city"
	FieldCountry      = "location.country"
	FieldOwner        = "owner"
	FieldCreatedAt    = "createdAt"
)

// TextSearchFields are the fields a free-text term is matched against.
var TextSearchFields = []string{
	FieldTitle,
	FieldDescription,
	FieldAddress,
	FieldCity,
	FieldCountry,
}

// Clause is one conjunct of a Predicate. Implementations are plain value
// types so two predicates built from the same input compare equal.
type Clause interface {
	clause()
}

// Range constrains a numeric field to an inclusive interval. A nil bound
// leaves that side open.
type Range struct {
	Field string
	Min   *float64
	Max   *float64
}

// Equals constrains a field to an exact value.
type Equals struct {
	Field string
	Value any
}

// AtLeast constrains a numeric field to values >= Value.
type AtLeast struct {
	Field string
	Value float64
}

// Substring matches a case-insensitive substring, OR'd across Fields.
type Substring struct {
	Fields []string
	Term   string
}

// In constrains a field to a set of values.
type In struct {
	Field  string
	Values []string
}

// Not excludes rows whose field equals Value.
type Not struct {
	Field string
	Value any
}

func (Range) clause()     {}
func (Equals) clause()    {}
func (AtLeast) clause()   {}
func (Substring) clause() {}
func (In) clause()        {}
func (Not) clause()       {}

// Predicate is the boolean AND of its clauses. The zero value matches
// everything.
type Predicate struct {
	Clauses []Clause
}

// With returns a copy of the predicate with c appended.
func (p Predicate) With(c Clause) Predicate {
	clauses := make([]Clause, 0, len(p.Clauses)+1)
	clauses = append(clauses, p.Clauses...)
	clauses = append(clauses, c)
	return Predicate{Clauses: clauses}
}

// IsEmpty reports whether the predicate has no clauses.
func (p Predicate) IsEmpty() bool {
	return len(p.Clauses) == 0
}
