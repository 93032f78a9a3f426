package normalizer

import "deliverydir/internal/models"

// Synonyms lists, per logical field, the header spellings accepted for it
// in priority order.
type Synonyms struct {
	Name          []string `yaml:"name"`
	StreetAddress []string `yaml:"street_address"`
	City          []string `yaml:"city"`
	StateProvince []string `yaml:"state_province"`
	ZipPostalCode []string `yaml:"zip_postal_code"`
	Country       []string `yaml:"country"`
	Owner         []string `yaml:"owner"`
	LinkedIn      []string `yaml:"linkedin"`
	Email         []string `yaml:"email"`
}

// DefaultSynonyms returns the built-in header spellings.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		Name:          []string{"Name", "DSP Name", "Company", "DSP"},
		StreetAddress: []string{"Street Address", "Address"},
		City:          []string{"City"},
		StateProvince: []string{"State", "State/Province", "Province", "Region"},
		ZipPostalCode: []string{"Zip", "Zip Code", "Postal Code", "Zip/Postal Code"},
		Country:       []string{"Country"},
		Owner:         []string{"Owner", "Owner Name"},
		LinkedIn:      []string{"LinkedIn", "LinkedIn URL"},
		Email:         []string{"Email", "Email Address"},
	}
}

// Override returns s with every non-empty list in other replacing its counterpart.
func (s Synonyms) Override(other Synonyms) Synonyms {
	pick := func(base, over []string) []string {
		if len(over) > 0 {
			return over
		}

		return base
	}

	return Synonyms{
		Name:          pick(s.Name, other.Name),
		StreetAddress: pick(s.StreetAddress, other.StreetAddress),
		City:          pick(s.City, other.City),
		StateProvince: pick(s.StateProvince, other.StateProvince),
		ZipPostalCode: pick(s.ZipPostalCode, other.ZipPostalCode),
		Country:       pick(s.Country, other.Country),
		Owner:         pick(s.Owner, other.Owner),
		LinkedIn:      pick(s.LinkedIn, other.LinkedIn),
		Email:         pick(s.Email, other.Email),
	}
}

// Column is the position of a logical field in a source table.
// The zero value is an unresolved column.
type Column struct {
	Index    int
	Resolved bool
}

// Value returns the cell for this column, or false if the column is unresolved
// or the row ends before it.
func (c Column) Value(row []string) (string, bool) {
	if !c.Resolved || c.Index >= len(row) {
		return "", false
	}

	return row[c.Index], true
}

// Columns holds the resolved position of every logical field.
type Columns struct {
	Name          Column
	StreetAddress Column
	City          Column
	StateProvince Column
	ZipPostalCode Column
	Country       Column
	Owner         Column
	LinkedIn      Column
	Email         Column
}

func (c *Columns) core() []Column {
	return []Column{
		c.Name, c.StreetAddress, c.City, c.StateProvince, c.ZipPostalCode,
		c.Country, c.Owner,
	}
}

func (c *Columns) all() []Column {
	return []Column{
		c.Name, c.StreetAddress, c.City, c.StateProvince, c.ZipPostalCode,
		c.Country, c.Owner, c.LinkedIn, c.Email,
	}
}

// Width is the minimum number of cells a row needs to supply every resolved core
// column. LinkedIn and Email are optional and never widen a row's requirement.
func (c *Columns) Width() int {
	width := 0

	for _, col := range c.core() {
		if col.Resolved && col.Index+1 > width {
			width = col.Index + 1
		}
	}

	return width
}

// Missing returns the number of logical fields that did not resolve.
func (c *Columns) Missing() int {
	n := 0

	for _, col := range c.all() {
		if !col.Resolved {
			n++
		}
	}

	return n
}

// Unresolved returns the output column names of fields that did not resolve.
func (c *Columns) Unresolved() []string {
	names := []string{
		models.ColName, models.ColStreetAddress, models.ColCity, models.ColStateProvince,
		models.ColZipPostalCode, models.ColCountry, models.ColOwner, models.ColLinkedIn, models.ColEmail,
	}

	var out []string

	for i, col := range c.all() {
		if !col.Resolved {
			out = append(out, names[i])
		}
	}

	return out
}

// DuplicateHeaders returns header cells that repeat, ignoring case, in order of
// their second occurrence.
func DuplicateHeaders(header []string) []string {
	seen := make(map[string]bool, len(header))

	var dups []string

	for _, h := range header {
		k := foldKey(h)
		if seen[k] {
			dups = append(dups, h)
		}

		seen[k] = true
	}

	return dups
}

// ResolveColumns matches a header row against the synonym lists.
// Matching ignores case; if a header repeats, its last occurrence wins.
func ResolveColumns(header []string, syn Synonyms) Columns {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[foldKey(h)] = i
	}

	find := func(names []string) Column {
		for _, n := range names {
			if i, ok := positions[foldKey(n)]; ok {
				return Column{Index: i, Resolved: true}
			}
		}

		return Column{}
	}

	return Columns{
		Name:          find(syn.Name),
		StreetAddress: find(syn.StreetAddress),
		City:          find(syn.City),
		StateProvince: find(syn.StateProvince),
		ZipPostalCode: find(syn.ZipPostalCode),
		Country:       find(syn.Country),
		Owner:         find(syn.Owner),
		LinkedIn:      find(syn.LinkedIn),
		Email:         find(syn.Email),
	}
}
