package dataset

import "math"

// Column names used by the source files.
const (
	ColName        = "Name"
	ColYear        = "Year"
	ColGenre       = "Genre"
	ColNASales     = "NA_Sales"
	ColEUSales     = "EU_Sales"
	ColJPSales     = "JP_Sales"
	ColOtherSales  = "Other_Sales"
	ColGlobalSales = "Global_Sales"
)

// SalesRecord is one row of the primary sales dataset. Fields stay as text.
type SalesRecord struct {
	Name        string
	Year        string
	Genre       string
	NASales     string
	EUSales     string
	JPSales     string
	OtherSales  string
	GlobalSales string
}

// YearValue returns the coerced release year.
func (r SalesRecord) YearValue() float64 { return Number(r.Year) }

// GlobalSalesValue returns the coerced worldwide sales in millions.
func (r SalesRecord) GlobalSalesValue() float64 { return Number(r.GlobalSales) }

// RegionValue returns the coerced sales for one region.
func (r SalesRecord) RegionValue(reg Region) float64 {
	switch reg {
	case RegionNA:
		return Number(r.NASales)
	case RegionEU:
		return Number(r.EUSales)
	case RegionJP:
		return Number(r.JPSales)
	case RegionOther:
		return Number(r.OtherSales)
	}
	return math.NaN()
}

// SalesRecords maps every table row to a SalesRecord.
func SalesRecords(t *Table) []SalesRecord {
	out := make([]SalesRecord, t.Len())
	for i := range out {
		out[i] = SalesRecord{
			Name:        t.Field(i, ColName),
			Year:        t.Field(i, ColYear),
			Genre:       t.Field(i, ColGenre),
			NASales:     t.Field(i, ColNASales),
			EUSales:     t.Field(i, ColEUSales),
			JPSales:     t.Field(i, ColJPSales),
			OtherSales:  t.Field(i, ColOtherSales),
			GlobalSales: t.Field(i, ColGlobalSales),
		}
	}
	return out
}

// GenreYearPoint is one row of the genre-by-year aggregate.
type GenreYearPoint struct {
	Genre       string
	Year        string
	GlobalSales string
}

func (p GenreYearPoint) YearValue() float64        { return Number(p.Year) }
func (p GenreYearPoint) GlobalSalesValue() float64 { return Number(p.GlobalSales) }

// GenreYearPoints maps every table row to a GenreYearPoint.
func GenreYearPoints(t *Table) []GenreYearPoint {
	out := make([]GenreYearPoint, t.Len())
	for i := range out {
		out[i] = GenreYearPoint{
			Genre:       t.Field(i, ColGenre),
			Year:        t.Field(i, ColYear),
			GlobalSales: t.Field(i, ColGlobalSales),
		}
	}
	return out
}

// GenreRegionRow is one row of the genre-by-region aggregate.
type GenreRegionRow struct {
	Genre      string
	NASales    string
	EUSales    string
	JPSales    string
	OtherSales string
}

// Value returns the coerced sales for one region.
func (r GenreRegionRow) Value(reg Region) float64 {
	switch reg {
	case RegionNA:
		return Number(r.NASales)
	case RegionEU:
		return Number(r.EUSales)
	case RegionJP:
		return Number(r.JPSales)
	case RegionOther:
		return Number(r.OtherSales)
	}
	return math.NaN()
}

// GenreRegionRows maps every table row to a GenreRegionRow.
func GenreRegionRows(t *Table) []GenreRegionRow {
	out := make([]GenreRegionRow, t.Len())
	for i := range out {
		out[i] = GenreRegionRow{
			Genre:      t.Field(i, ColGenre),
			NASales:    t.Field(i, ColNASales),
			EUSales:    t.Field(i, ColEUSales),
			JPSales:    t.Field(i, ColJPSales),
			OtherSales: t.Field(i, ColOtherSales),
		}
	}
	return out
}

// Region is a sales region. The declaration order is the stacking order.
type Region int

const (
	RegionNA Region = iota
	RegionEU
	RegionJP
	RegionOther
)

// Regions lists every region in stacking order.
var Regions = []Region{RegionNA, RegionEU, RegionJP, RegionOther}

// Column returns the source column holding the region's sales.
func (r Region) Column() string {
	switch r {
	case RegionNA:
		return ColNASales
	case RegionEU:
		return ColEUSales
	case RegionJP:
		return ColJPSales
	case RegionOther:
		return ColOtherSales
	}
	return ""
}

func (r Region) String() string { return r.Column() }

// DistinctGenres returns genre names in first-seen order.
func DistinctGenres(records []SalesRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Genre]; ok {
			continue
		}
		seen[r.Genre] = struct{}{}
		out = append(out, r.Genre)
	}
	return out
}
