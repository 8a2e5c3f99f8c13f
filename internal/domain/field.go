package domain

// Field names an array-valued attribute of a Movie. The string value is the
// document key used by every store.
type Field string

const (
	FieldTaglines      Field = "taglines"
	FieldCompanyName   Field = "company_name"
	FieldGenre         Field = "genre"
	FieldLanguage      Field = "language"
	FieldCountry       Field = "country"
	FieldAkaTitles     Field = "aka_titles"
	FieldPlot          Field = "plot"
	FieldTrivia        Field = "trivia"
	FieldColorInfo     Field = "color_info"
	FieldGoofs         Field = "goofs"
	FieldDistributors  Field = "distributors"
	FieldMiscCompanies Field = "misc_companies"
	FieldLocations     Field = "locations"
)

// FieldKind describes the element type stored in an array field.
type FieldKind int

const (
	FieldKindUnknown FieldKind = iota
	// FieldKindString holds plain strings.
	FieldKindString
	// FieldKindStringGroup holds one []string per appended value.
	FieldKindStringGroup
	// FieldKindPlot holds PlotSummary values.
	FieldKindPlot
)

func (f Field) String() string { return string(f) }

// Kind returns the element kind of the field, FieldKindUnknown for names
// that are not Movie array fields.
func (f Field) Kind() FieldKind {
	switch f {
	case FieldTaglines, FieldCompanyName, FieldGenre, FieldLanguage, FieldCountry,
		FieldTrivia, FieldColorInfo, FieldGoofs, FieldDistributors, FieldMiscCompanies,
		FieldLocations:
		return FieldKindString
	case FieldAkaTitles:
		return FieldKindStringGroup
	case FieldPlot:
		return FieldKindPlot
	}
	return FieldKindUnknown
}

func (f Field) IsValid() bool {
	return f.Kind() != FieldKindUnknown
}
