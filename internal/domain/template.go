package domain

// HiddenGroupID marks template groups that are skipped entirely during
// rendering (draft/inactive groups).
const HiddenGroupID = "hidden"

// Reserved attribute-group ids. Attributes in the unlabeled group are shown
// without a column-group header; attributes in the hidden group are dropped
// from the output.
const (
	GroupUnlabeled = "unlabeled"
	GroupHidden    = "hidden"
)

// Template is the user-authored configuration for one generated document.
// Templates are authored externally and are read-only to this engine.
type Template struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	StartYear     *int    `json:"start_year,omitempty"`
	EndYear       *int    `json:"end_year,omitempty"`
	SortAscending bool    `json:"sort_ascending"`
	Groups        []Group `json:"groups"`
}

// Group is an ordered list of prepared sections rendered under one heading.
type Group struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Sections []PreparedSection `json:"sections"`
}

// PreparedSection is a data section as customized by one template: renames,
// merges, filters, sub-sections, notes.
type PreparedSection struct {
	DataSectionID          string            `json:"data_section_id"`
	AttributeGroups        []AttributeGroup  `json:"attribute_groups"`
	Renames                map[string]string `json:"attribute_rename_map,omitempty"`
	MergeVisibleAttributes bool              `json:"merge_visible_attributes"`
	IncludeRowNumbers      bool              `json:"include_row_number_column"`
	ShowRowCount           bool              `json:"show_row_count"`
	ShowTitle              bool              `json:"show_title"`
	TypeFilter             *TypeFilter       `json:"type_filter,omitempty"`
	SubSections            []SubSection      `json:"sub_sections,omitempty"`
	NoteSettings           []NoteSetting     `json:"note_settings,omitempty"`
}

// AttributeGroup is a named cluster of attribute keys rendered together,
// optionally under a shared column-group header.
type AttributeGroup struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

// TypeFilter restricts a section's records to those whose typed field
// matches (or, with Exclude set, does not match) a value. Used for
// one-section-many-subtype data.
type TypeFilter struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
	Exclude   bool   `json:"exclude,omitempty"`
}

// SubSection splits one data section into independently rendered slices,
// each filtered to records whose type field equals the sub-section title.
type SubSection struct {
	Title            string            `json:"title"`
	HiddenAttributes []string          `json:"hidden_attributes,omitempty"`
	Renames          map[string]string `json:"attribute_rename_map,omitempty"`
	ShowRowCount     bool              `json:"show_row_count"`
	IncludeRowNumber bool              `json:"include_row_number_column"`
}

// NoteSetting pulls a free-text attribute out of the row and renders it
// below the table.
type NoteSetting struct {
	SourceAttribute   string `json:"source_attribute"`
	AssociateWith     string `json:"attribute_to_associate_note,omitempty"`
	ShowAttributeName bool   `json:"show_attribute_name"`
}

// VisibleAttributes returns the attribute keys of every non-hidden group,
// in template order, minus any keys listed in extraHidden.
func (ps PreparedSection) VisibleAttributes(extraHidden []string) []string {
	hidden := map[string]bool{}
	for _, k := range extraHidden {
		hidden[k] = true
	}
	var out []string
	for _, g := range ps.AttributeGroups {
		if g.ID == GroupHidden {
			continue
		}
		for _, k := range g.Attributes {
			if !hidden[k] {
				out = append(out, k)
			}
		}
	}
	return out
}
