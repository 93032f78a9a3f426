// Package models defines data structures for the directory normalizer and its outputs.
package models

// CompanyType is the tagged category of a directory entry.
type CompanyType string

// Company types.
const (
	TypeDSP   CompanyType = "DSP"
	TypeFedEx CompanyType = "FedEx"
)

// Region is the geographic classification derived from a country.
type Region string

// Regions.
const (
	RegionUSA    Region = "USA"
	RegionCanada Region = "Canada"
	RegionUK     Region = "UK"
	RegionEU     Region = "EU"
	RegionOther  Region = "Other"
)

// Output column names.
const (
	ColName          = "Name"
	ColType          = "Type"
	ColStreetAddress = "Street Address"
	ColCity          = "City"
	ColStateProvince = "State/Province"
	ColZipPostalCode = "Zip/Postal Code"
	ColCountry       = "Country"
	ColRegion        = "Region"
	ColOwner         = "Owner"
	ColLinkedIn      = "LinkedIn"
	ColEmail         = "Email"
)

// ExportHeaders is the fixed column order of exported spreadsheets.
var ExportHeaders = []string{
	ColName,
	ColStreetAddress,
	ColCity,
	ColStateProvince,
	ColZipPostalCode,
	ColCountry,
	ColRegion,
	ColOwner,
	ColLinkedIn,
	ColEmail,
}

// QueryHeaders is the column order announced by the query endpoints.
var QueryHeaders = append([]string{ColName, ColType}, ExportHeaders[1:]...)

// Entry is a normalized source row before it is tagged with a company type.
type Entry struct {
	Name          Text
	StreetAddress Text
	City          Text
	StateProvince Text
	ZipPostalCode Text
	Country       Text
	Owner         Text
	LinkedIn      Text
	Email         Text
	Region        Region
}

// DirectoryRecord is the normalized unit of output.
type DirectoryRecord struct {
	Name          string      `json:"Name"`
	Type          CompanyType `json:"Type"`
	StreetAddress string      `json:"Street Address"`
	City          string      `json:"City"`
	StateProvince string      `json:"State/Province"`
	ZipPostalCode string      `json:"Zip/Postal Code"`
	Country       string      `json:"Country"`
	Region        Region      `json:"Region"`
	Owner         string      `json:"Owner"`
	LinkedIn      string      `json:"LinkedIn"`
	Email         string      `json:"Email"`
}

// Record renders the entry as an output record of the given type.
func (e *Entry) Record(typ CompanyType) DirectoryRecord {
	return DirectoryRecord{
		Name:          e.Name.String(),
		Type:          typ,
		StreetAddress: e.StreetAddress.String(),
		City:          e.City.String(),
		StateProvince: e.StateProvince.String(),
		ZipPostalCode: e.ZipPostalCode.String(),
		Country:       e.Country.String(),
		Region:        e.Region,
		Owner:         e.Owner.String(),
		LinkedIn:      e.LinkedIn.String(),
		Email:         e.Email.String(),
	}
}

// Row renders the record in QueryHeaders order.
func (r *DirectoryRecord) Row() []string {
	return []string{
		r.Name,
		string(r.Type),
		r.StreetAddress,
		r.City,
		r.StateProvince,
		r.ZipPostalCode,
		r.Country,
		string(r.Region),
		r.Owner,
		r.LinkedIn,
		r.Email,
	}
}

// ExportRow renders the entry in ExportHeaders order.
// LinkedIn and Email are always blank in exported sheets.
func (e *Entry) ExportRow() []string {
	return []string{
		e.Name.String(),
		e.StreetAddress.String(),
		e.City.String(),
		e.StateProvince.String(),
		e.ZipPostalCode.String(),
		e.Country.String(),
		string(e.Region),
		e.Owner.String(),
		"",
		"",
	}
}

// Document is the body returned by the query endpoints.
type Document struct {
	Headers []string          `json:"headers"`
	Rows    []DirectoryRecord `json:"rows"`
}

// NewDocument wraps records with the query headers.
// Rows is never nil so an empty table encodes as [].
func NewDocument(records []DirectoryRecord) *Document {
	if records == nil {
		records = []DirectoryRecord{}
	}

	return &Document{
		Headers: QueryHeaders,
		Rows:    records,
	}
}
