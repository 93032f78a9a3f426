package normalizer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deliverydir/internal/models"
)

func TestNewProcessor(t *testing.T) {
	p := NewProcessor(DefaultRules())
	if p == nil {
		t.Fatal("NewProcessor returned nil")
	}
}

func TestProcessor_Process(t *testing.T) {
	p := NewProcessor(DefaultRules())

	table := &models.Table{
		Header: []string{"Country", "DSP Name", "Address", "City", "State", "Zip", "Owner Name"},
		Rows: [][]string{
			{" USA ", "  Acme\tLogistics ", "1 Main St", "Austin", "TX", "78701", "Jane  Doe"},
			{"germany", "Blitz GmbH", "Hauptstr. 2", "Berlin", "", "10115", ""},
		},
	}

	entries, err := p.Process(table)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	got := make([]models.DirectoryRecord, 0, len(entries))
	for i := range entries {
		got = append(got, entries[i].Record(models.TypeDSP))
	}

	want := []models.DirectoryRecord{
		{
			Name: "Acme Logistics", Type: models.TypeDSP, StreetAddress: "1 Main St", City: "Austin",
			StateProvince: "TX", ZipPostalCode: "78701", Country: "USA", Region: models.RegionUSA, Owner: "Jane Doe",
		},
		{
			Name: "Blitz GmbH", Type: models.TypeDSP, StreetAddress: "Hauptstr. 2", City: "Berlin",
			ZipPostalCode: "10115", Country: "germany", Region: models.RegionEU,
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Process() mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessor_Process_MissingColumns(t *testing.T) {
	p := NewProcessor(DefaultRules())

	table := &models.Table{
		Header: []string{"Company", "City"},
		Rows:   [][]string{{"Acme", "Reno"}, {"Beta", ""}},
	}

	entries, err := p.Process(table)
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Process returned %d entries, want 2", len(entries))
	}

	e := entries[1]
	if e.Country.Valid() || e.Owner.Valid() {
		t.Errorf("Country/Owner should be absent, got %+v", e)
	}

	if !e.City.Valid() || e.City.String() != "" {
		t.Errorf("City should be present and empty, got %+v", e.City)
	}

	if e.Region != models.RegionOther {
		t.Errorf("Region = %s, want Other", e.Region)
	}

	row := e.ExportRow()
	if len(row) != len(models.ExportHeaders) {
		t.Fatalf("ExportRow has %d cells, want %d", len(row), len(models.ExportHeaders))
	}

	if row[0] != "Beta" || row[5] != "" || row[6] != "Other" {
		t.Errorf("ExportRow = %q", row)
	}
}

func TestProcessor_Process_MalformedRow(t *testing.T) {
	p := NewProcessor(DefaultRules())

	table := &models.Table{
		Header: []string{"Name", "City", "Country"},
		Rows: [][]string{
			{"Acme", "Reno", "USA"},
			{"Short", "Reno"},
		},
	}

	entries, err := p.Process(table)
	if err == nil {
		t.Fatal("Process expected error for short row")
	}

	if !errors.Is(err, ErrMalformedRow) {
		t.Errorf("error = %v, want ErrMalformedRow", err)
	}

	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error %q should name row 2", err)
	}

	if entries != nil {
		t.Error("Process expected nil result for malformed table")
	}
}

func TestProcessor_Process_ShortRowOutsideResolvedColumns(t *testing.T) {
	p := NewProcessor(DefaultRules())

	table := &models.Table{
		Header: []string{"Name", "City", "Notes"},
		Rows:   [][]string{{"Acme", "Reno"}},
	}

	if _, err := p.Process(table); err != nil {
		t.Errorf("Process returned unexpected error: %v", err)
	}
}

func TestProcessor_Process_ShortContactCells(t *testing.T) {
	p := NewProcessor(DefaultRules())

	table := &models.Table{
		Header: []string{"Name", "City", "Country", "LinkedIn", "Email"},
		Rows: [][]string{
			{"Acme", "Austin", "USA"},
			{"Blitz", "Berlin", "Germany", "https://linkedin.com/company/blitz"},
		},
	}

	entries, err := p.Process(table)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if entries[0].LinkedIn.Valid() || entries[0].Email.Valid() {
		t.Errorf("entries[0] contacts = %+v, %+v, want absent", entries[0].LinkedIn, entries[0].Email)
	}

	if !entries[1].LinkedIn.Valid() || entries[1].Email.Valid() {
		t.Errorf("entries[1] contacts = %+v, %+v", entries[1].LinkedIn, entries[1].Email)
	}
}

func TestProcessor_ProcessColumns_Resolved(t *testing.T) {
	p := NewProcessor(DefaultRules())

	table := &models.Table{
		Header: []string{"Company", "City", "Country"},
		Rows:   [][]string{{" Acme ", "Reno", "usa"}},
	}

	cols := p.Columns(table)

	entries, err := p.ProcessColumns(table, &cols)
	if err != nil {
		t.Fatalf("ProcessColumns failed: %v", err)
	}

	viaProcess, err := p.Process(table)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if diff := cmp.Diff(viaProcess, entries, cmp.AllowUnexported(models.Text{})); diff != "" {
		t.Errorf("ProcessColumns() mismatch (-Process +ProcessColumns):\n%s", diff)
	}

	if entries[0].Name.String() != "Acme" || entries[0].Region != models.RegionUSA {
		t.Errorf("entry = %+v", entries[0])
	}
}

func TestProcessor_Process_Nil(t *testing.T) {
	p := NewProcessor(DefaultRules())

	if _, err := p.Process(nil); !errors.Is(err, ErrNilTable) {
		t.Errorf("error = %v, want ErrNilTable", err)
	}
}

func TestProcessor_Classify(t *testing.T) {
	p := NewProcessor(DefaultRules())

	tests := []struct {
		name string
		want models.CompanyType
	}{
		{"FedEx Ground ISP", models.TypeFedEx},
		{"Acme fedex contractor", models.TypeFedEx},
		{"Blue ISP LLC", models.TypeFedEx},
		{"Philisp Co", models.TypeFedEx},
		{"Acme Logistics", models.TypeDSP},
		{"", models.TypeDSP},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := models.Entry{Name: models.Present(tt.name)}
			if got := p.Classify(&e); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestProcessor_CustomRules(t *testing.T) {
	rules := DefaultRules()
	rules.Keywords = []string{"courier"}
	rules.Regions = rules.Regions.Merge(RegionTable{Canada: []string{"Kanada"}})

	p := NewProcessor(rules)

	entries, err := p.Process(&models.Table{
		Header: []string{"Name", "Country"},
		Rows:   [][]string{{"Northern Courier", "kanada"}, {"FedEx ISP", "Canada"}},
	})
	if err != nil {
		t.Fatalf("Process returned unexpected error: %v", err)
	}

	if entries[0].Region != models.RegionCanada {
		t.Errorf("Region = %s, want Canada", entries[0].Region)
	}

	if got := p.Classify(&entries[0]); got != models.TypeFedEx {
		t.Errorf("Classify = %s, want FedEx", got)
	}

	if got := p.Classify(&entries[1]); got != models.TypeDSP {
		t.Errorf("Classify = %s, want DSP with custom keywords", got)
	}
}
