// Package dataset loads the tabular sources behind the sales story.
//
// Every resource is a comma-separated file with a header row. Loading never
// coerces values: a [Table] holds text cells and the typed views
// ([SalesRecord], [GenreYearPoint], [GenreRegionRow]) keep text fields as
// well. Consumers convert the fields they need with [Number], which follows
// unary-plus semantics: blank cells become 0 and unparseable cells become NaN.
//
// # Resources
//
// A resource is either an http(s) URL or a path. Relative paths resolve
// against the loader's base directory.
//
//	loader := dataset.NewLoader("data")
//	table, err := loader.Load(ctx, "vgsales_cleaned.csv")
//	records := dataset.SalesRecords(table)
package dataset
