package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Movie is the accumulating catalog document keyed by Name. Year is set by the
// year pass, every other field is filled by exactly one later pass.
type Movie struct {
	ID   uuid.UUID `json:"-"`
	Name string    `json:"name"`
	Year string    `json:"year"`

	Taglines      []string      `json:"taglines,omitempty"`
	CompanyName   []string      `json:"company_name,omitempty"`
	Genre         []string      `json:"genre,omitempty"`
	Language      []string      `json:"language,omitempty"`
	Country       []string      `json:"country,omitempty"`
	AkaTitles     [][]string    `json:"aka_titles,omitempty"`
	Plot          []PlotSummary `json:"plot,omitempty"`
	Trivia        []string      `json:"trivia,omitempty"`
	ColorInfo     []string      `json:"color_info,omitempty"`
	Goofs         []string      `json:"goofs,omitempty"`
	Distributors  []string      `json:"distributors,omitempty"`
	MiscCompanies []string      `json:"misc_companies,omitempty"`
	Locations     []string      `json:"locations,omitempty"`
}

// PlotSummary is one plot text with its author attribution.
type PlotSummary struct {
	Text string `json:"text"`
	By   string `json:"by"`
}

// NewMovie creates a Movie with a fresh ID.
func NewMovie(name, year string) Movie {
	return Movie{ID: uuid.New(), Name: name, Year: year}
}

// Append adds value to the array field f. The value type must match the
// field kind: string, []string or PlotSummary.
func (m *Movie) Append(f Field, value any) error {
	switch f.Kind() {
	case FieldKindString:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: want string, got %T: %w", f, value, ErrInvalidValue)
		}
		ptr := m.stringField(f)
		*ptr = append(*ptr, s)
	case FieldKindStringGroup:
		group, ok := value.([]string)
		if !ok {
			return fmt.Errorf("%s: want []string, got %T: %w", f, value, ErrInvalidValue)
		}
		m.AkaTitles = append(m.AkaTitles, Normalize(f, group).([]string))
	case FieldKindPlot:
		p, ok := value.(PlotSummary)
		if !ok {
			return fmt.Errorf("%s: want PlotSummary, got %T: %w", f, value, ErrInvalidValue)
		}
		m.Plot = append(m.Plot, p)
	default:
		return fmt.Errorf("%q: %w", string(f), ErrUnknownField)
	}
	return nil
}

// Normalize returns the stored form of value for f. A nil title group becomes
// an empty one so documents never hold a null group. Groups are copied.
func Normalize(f Field, value any) any {
	if group, ok := value.([]string); ok && f.Kind() == FieldKindStringGroup {
		return append([]string{}, group...)
	}
	return value
}

// CheckValue reports whether value can be appended to f without touching a Movie.
func CheckValue(f Field, value any) error {
	var probe Movie
	return probe.Append(f, value)
}

func (m *Movie) stringField(f Field) *[]string {
	switch f {
	case FieldTaglines:
		return &m.Taglines
	case FieldCompanyName:
		return &m.CompanyName
	case FieldGenre:
		return &m.Genre
	case FieldLanguage:
		return &m.Language
	case FieldCountry:
		return &m.Country
	case FieldTrivia:
		return &m.Trivia
	case FieldColorInfo:
		return &m.ColorInfo
	case FieldGoofs:
		return &m.Goofs
	case FieldDistributors:
		return &m.Distributors
	case FieldMiscCompanies:
		return &m.MiscCompanies
	case FieldLocations:
		return &m.Locations
	}
	// Kind() already restricted f to string fields.
	panic("domain: no string field " + string(f))
}
