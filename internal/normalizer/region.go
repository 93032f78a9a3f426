package normalizer

import (
	"strings"

	"deliverydir/internal/models"
)

// RegionTable lists the country spellings recognized for each named region.
// Anything not listed is models.RegionOther.
type RegionTable struct {
	USA    []string `yaml:"usa"`
	Canada []string `yaml:"canada"`
	UK     []string `yaml:"uk"`
	EU     []string `yaml:"eu"`
}

// DefaultRegions returns the built-in country spellings.
func DefaultRegions() RegionTable {
	return RegionTable{
		USA:    []string{"usa", "united states", "u.s.a.", "us"},
		Canada: []string{"canada"},
		UK:     []string{"united kingdom", "uk"},
		EU: []string{
			"germany", "france", "spain", "italy", "netherlands", "belgium", "poland",
			"sweden", "denmark", "ireland", "austria", "czechia", "czech republic",
			"portugal", "finland", "greece", "hungary", "romania", "slovakia", "slovenia",
			"bulgaria", "croatia", "estonia", "latvia", "lithuania", "luxembourg", "malta",
		},
	}
}

// Merge returns t with the spellings of other appended.
func (t RegionTable) Merge(other RegionTable) RegionTable {
	return RegionTable{
		USA:    append(append([]string(nil), t.USA...), other.USA...),
		Canada: append(append([]string(nil), t.Canada...), other.Canada...),
		UK:     append(append([]string(nil), t.UK...), other.UK...),
		EU:     append(append([]string(nil), t.EU...), other.EU...),
	}
}

// Regions is a compiled, read-only RegionTable.
type Regions struct {
	index map[string]models.Region
}

// NewRegions compiles t. When a spelling is listed under several regions
// the first of USA, Canada, UK, EU wins.
func NewRegions(t RegionTable) *Regions {
	r := &Regions{index: make(map[string]models.Region)}

	groups := []struct {
		region models.Region
		names  []string
	}{
		{models.RegionUSA, t.USA},
		{models.RegionCanada, t.Canada},
		{models.RegionUK, t.UK},
		{models.RegionEU, t.EU},
	}

	for _, g := range groups {
		for _, name := range g.names {
			key := foldKey(strings.TrimSpace(name))
			if key == "" {
				continue
			}

			if _, taken := r.index[key]; !taken {
				r.index[key] = g.region
			}
		}
	}

	return r
}

// Infer maps a country to its region by exact, case-insensitive match
// after trimming. Unknown or empty countries are models.RegionOther.
func (r *Regions) Infer(country string) models.Region {
	if region, ok := r.index[foldKey(strings.TrimSpace(country))]; ok {
		return region
	}

	return models.RegionOther
}
