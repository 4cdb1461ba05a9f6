package domain

import "strings"

// Section is a data-entry section definition. Attributes maps display names
// to the canonical keys used inside CVDataRecord.Details.
type Section struct {
	ID         string            `json:"data_section_id"`
	Title      string            `json:"title"`
	Attributes map[string]string `json:"attributes"`
}

// DisplayName resolves the display name for a canonical attribute key,
// falling back to the key itself when the section does not define one.
func (s Section) DisplayName(key string) string {
	for display, k := range s.Attributes {
		if k == key {
			return display
		}
	}
	return key
}

// Key resolves the canonical attribute key for a display name. Lookups are
// case-insensitive because section definitions are authored by hand.
func (s Section) Key(display string) (string, bool) {
	for d, k := range s.Attributes {
		if strings.EqualFold(d, display) {
			return k, true
		}
	}
	return "", false
}

// Section titles with special row-building rules.
const (
	SectionPublications = "Publications"
	SectionGrants       = "Research Funding"
)

// IsPublications reports whether the section uses the publications row
// builder (author bolding, DOI hyperlink).
func (s Section) IsPublications() bool {
	return strings.EqualFold(s.Title, SectionPublications)
}

// IsGrants reports whether the section uses the grants row builder
// (placeholder agency value blanked).
func (s Section) IsGrants() bool {
	return strings.EqualFold(s.Title, SectionGrants)
}

// CVDataRecord is one immutable data-entry row. Details holds the parsed
// data_details JSON object; when the stored text is not valid JSON, Details
// is nil and Raw carries the undecoded string so the content still renders.
type CVDataRecord struct {
	ID        string         `json:"id"`
	SectionID string         `json:"data_section_id"`
	Details   map[string]any `json:"data_details"`
	Raw       string         `json:"-"`
}

// Value returns the record's value for an attribute key as a string.
// Array values are joined with ", "; missing attributes yield "".
func (r CVDataRecord) Value(key string) string {
	v, ok := r.Details[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Values returns the record's value for an attribute key as a list; scalar
// values become a one-element list.
func (r CVDataRecord) Values(key string) []string {
	v, ok := r.Details[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return parts
	default:
		return nil
	}
}

// FacultyProfile is the fixed face-page data rendered before the grouped
// content, plus the scholarly identifier used to bold the CV holder in
// publication author lists.
type FacultyProfile struct {
	UserID          string `json:"user_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Rank            string `json:"rank"`
	Department      string `json:"primary_department"`
	Faculty         string `json:"primary_faculty"`
	ScholarID       string `json:"scholar_id"`
	JoinedTimestamp string `json:"joined_timestamp"`
	RankSince       string `json:"rank_since"`
}
