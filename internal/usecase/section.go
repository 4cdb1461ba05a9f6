package usecase

import (
	"fmt"
	"strings"

	"cv-generator/internal/domain"
	"cv-generator/internal/model"
)

// Column width ratios. Attribute columns share width evenly; the row-number
// column stays narrow.
const (
	rowNumberRatio = 1
	attributeRatio = 4
)

// Candidate display names for the attribute that types a record when a
// section holds many subtypes.
var typeAttributes = []string{"type", "category"}

// The grants row builder blanks this agency value; it is the data-entry
// form's dropdown placeholder, not real content.
const agencyPlaceholder = "Other (please specify)"

// Publications row builder attribute names.
var (
	authorAttributes = []string{"author names", "authors"}
	doiAttributes    = []string{"doi"}
	agencyAttributes = []string{"funding agency", "agency"}
)

// BuildSection renders one prepared section: sub-header, headers, one row
// per record, and trailing note blocks. A prepared section with
// sub-sections expands into one synthetic prepared section per sub-section
// instead.
func (rc *RenderContext) BuildSection(ps domain.PreparedSection) string {
	section, ok := rc.Sections[ps.DataSectionID]
	if !ok {
		// missing section definition: skip this prepared section, never the
		// whole document
		rc.Log.Warn().Str("section_id", ps.DataSectionID).Msg("section definition not found, skipping")
		return ""
	}

	if len(ps.SubSections) > 0 {
		return rc.buildSubSections(section, ps)
	}
	return rc.buildPrepared(section, ps, section.Title)
}

// buildSubSections expands each sub-section into a synthetic prepared
// section filtered to records typed with the sub-section's title. Nesting
// stops here: synthesized sections carry no sub-sections of their own.
func (rc *RenderContext) buildSubSections(section domain.Section, ps domain.PreparedSection) string {
	var b strings.Builder

	if ps.ShowTitle {
		b.WriteString(rc.subHeaderRow(section.Title))
	}

	typeKey := ""
	for _, name := range typeAttributes {
		if k, ok := section.Key(name); ok {
			typeKey = k
			break
		}
	}

	for _, sub := range ps.SubSections {
		child := domain.PreparedSection{
			DataSectionID:          ps.DataSectionID,
			AttributeGroups:        reduceGroups(ps.AttributeGroups, sub.HiddenAttributes),
			Renames:                sub.Renames,
			MergeVisibleAttributes: ps.MergeVisibleAttributes,
			IncludeRowNumbers:      sub.IncludeRowNumber,
			ShowRowCount:           sub.ShowRowCount,
			ShowTitle:              true,
			NoteSettings:           ps.NoteSettings,
		}
		if typeKey != "" {
			child.TypeFilter = &domain.TypeFilter{Attribute: typeKey, Value: sub.Title}
		}
		b.WriteString(rc.buildPrepared(section, child, sub.Title))
	}
	return b.String()
}

// reduceGroups drops hidden attribute keys from every attribute group.
func reduceGroups(groups []domain.AttributeGroup, hidden []string) []domain.AttributeGroup {
	drop := map[string]bool{}
	for _, k := range hidden {
		drop[k] = true
	}
	out := make([]domain.AttributeGroup, 0, len(groups))
	for _, g := range groups {
		kept := make([]string, 0, len(g.Attributes))
		for _, k := range g.Attributes {
			if !drop[k] {
				kept = append(kept, k)
			}
		}
		out = append(out, domain.AttributeGroup{ID: g.ID, Name: g.Name, Attributes: kept})
	}
	return out
}

// buildPrepared renders a single flat prepared section under the given
// display title.
func (rc *RenderContext) buildPrepared(section domain.Section, ps domain.PreparedSection, title string) string {
	records := rc.Records[ps.DataSectionID]
	records = applyTypeFilter(ps.TypeFilter, records)
	records = FilterDateRange(section, records, rc.Template.StartYear, rc.Template.EndYear, rc.Now)
	records = SortByEndYear(section, records, rc.Template.SortAscending, rc.Now)

	var b strings.Builder

	if ps.ShowTitle {
		if ps.ShowRowCount {
			title = fmt.Sprintf("%s (%d)", title, len(records))
		}
		b.WriteString(rc.subHeaderRow(title))
	}

	visible := ps.VisibleAttributes(nil)
	if len(visible) == 0 && len(records) == 0 {
		return b.String()
	}

	if !ps.MergeVisibleAttributes {
		b.WriteString(rc.headerRows(section, ps, visible))
	}

	for i, rec := range records {
		b.WriteString(rc.recordRow(section, ps, visible, rec, i+1))
	}

	b.WriteString(rc.noteBlocks(section, ps, records))
	return b.String()
}

// applyTypeFilter restricts records by a typed field; a nil filter keeps
// everything.
func applyTypeFilter(tf *domain.TypeFilter, records []domain.CVDataRecord) []domain.CVDataRecord {
	if tf == nil {
		return records
	}
	out := make([]domain.CVDataRecord, 0, len(records))
	for _, rec := range records {
		match := strings.EqualFold(strings.TrimSpace(rec.Value(tf.Attribute)), strings.TrimSpace(tf.Value))
		if match != tf.Exclude {
			out = append(out, rec)
		}
	}
	return out
}

// subHeaderRow emits a full-width single-cell title row.
func (rc *RenderContext) subHeaderRow(title string) string {
	row := model.Row{
		Cells:  []model.Cell{{Spans: []model.TextSpan{{Text: title, Bold: true}}, Background: model.BackgroundSubHeader}},
		Ratios: []int{1},
	}
	return RenderRow(rc.Format, row, false, false)
}

// headerRows emits the column headers: a column-group tier when any
// attribute group carries a real name, then one cell per visible attribute.
func (rc *RenderContext) headerRows(section domain.Section, ps domain.PreparedSection, visible []string) string {
	if len(visible) == 0 {
		return ""
	}
	var b strings.Builder

	if hasNamedGroups(ps.AttributeGroups) {
		b.WriteString(rc.groupHeaderRow(ps))
	}

	cells := make([]model.Cell, 0, len(visible)+1)
	ratios := make([]int, 0, len(visible)+1)
	if ps.IncludeRowNumbers {
		cells = append(cells, model.Cell{Spans: []model.TextSpan{{Text: ""}}, Background: model.BackgroundColumnHeader})
		ratios = append(ratios, rowNumberRatio)
	}
	for _, key := range visible {
		cells = append(cells, model.Cell{
			Spans:      []model.TextSpan{{Text: rc.attributeLabel(section, ps, key), Bold: true}},
			Background: model.BackgroundColumnHeader,
		})
		ratios = append(ratios, attributeRatio)
	}
	b.WriteString(RenderRow(rc.Format, model.Row{Cells: cells, Ratios: ratios}, false, false))
	return b.String()
}

func hasNamedGroups(groups []domain.AttributeGroup) bool {
	for _, g := range groups {
		if g.ID != domain.GroupHidden && g.ID != domain.GroupUnlabeled && g.Name != "" {
			return true
		}
	}
	return false
}

// groupHeaderRow emits the upper header tier: one cell per attribute group,
// sized to span the group's columns. Unlabeled groups get placeholder
// cells so columns still line up.
func (rc *RenderContext) groupHeaderRow(ps domain.PreparedSection) string {
	var cells []model.Cell
	var ratios []int
	if ps.IncludeRowNumbers {
		cells = append(cells, model.Cell{Background: model.BackgroundColumnHeader})
		ratios = append(ratios, rowNumberRatio)
	}
	for _, g := range ps.AttributeGroups {
		if g.ID == domain.GroupHidden || len(g.Attributes) == 0 {
			continue
		}
		name := g.Name
		if g.ID == domain.GroupUnlabeled {
			name = ""
		}
		cells = append(cells, model.Cell{
			Spans:      []model.TextSpan{{Text: name, Bold: true}},
			Background: model.BackgroundColumnHeader,
		})
		ratios = append(ratios, attributeRatio*len(g.Attributes))
	}
	return RenderRow(rc.Format, model.Row{Cells: cells, Ratios: ratios}, false, false)
}

// attributeLabel resolves the display label for an attribute key, honoring
// the template's rename map.
func (rc *RenderContext) attributeLabel(section domain.Section, ps domain.PreparedSection, key string) string {
	if label, ok := ps.Renames[key]; ok && label != "" {
		return label
	}
	return section.DisplayName(key)
}

// recordRow builds one data row, selecting the row builder by the
// section's identity, and renders it with the prepared section's merge and
// row-number settings.
func (rc *RenderContext) recordRow(section domain.Section, ps domain.PreparedSection, visible []string, rec domain.CVDataRecord, number int) string {
	// unparseable data_details: pass the raw value through as a single
	// full-width row rather than dropping the record
	if rec.Details == nil && rec.Raw != "" {
		row := model.Row{Cells: []model.Cell{model.Text(rec.Raw)}, Ratios: []int{1}}
		return RenderRow(rc.Format, row, false, false)
	}

	cells := make([]model.Cell, 0, len(visible)+1)
	ratios := make([]int, 0, len(visible)+1)
	if ps.IncludeRowNumbers {
		cells = append(cells, model.Text(fmt.Sprintf("%d", number)))
		ratios = append(ratios, rowNumberRatio)
	}
	for _, key := range visible {
		cells = append(cells, rc.buildCell(section, rec, key))
		ratios = append(ratios, attributeRatio)
	}

	row := model.Row{Cells: cells, Ratios: ratios}
	if ps.MergeVisibleAttributes {
		return RenderRow(rc.Format, row, true, !ps.IncludeRowNumbers)
	}
	return RenderRow(rc.Format, row, false, false)
}

// buildCell builds the logical cell for one attribute of one record,
// applying the section-specific special rules.
func (rc *RenderContext) buildCell(section domain.Section, rec domain.CVDataRecord, key string) model.Cell {
	if section.IsPublications() {
		if matchesAttribute(section, key, authorAttributes) {
			return rc.authorsCell(rec, key)
		}
		if matchesAttribute(section, key, doiAttributes) {
			return doiCell(rec.Value(key))
		}
	}
	if section.IsGrants() && matchesAttribute(section, key, agencyAttributes) {
		v := rec.Value(key)
		if strings.EqualFold(strings.TrimSpace(v), agencyPlaceholder) {
			return model.Text("")
		}
		return model.Text(v)
	}
	return model.Text(rec.Value(key))
}

// matchesAttribute reports whether key is the canonical key for any of the
// given display names in this section.
func matchesAttribute(section domain.Section, key string, names []string) bool {
	for _, name := range names {
		if k, ok := section.Key(name); ok && k == key {
			return true
		}
	}
	return false
}

// authorsCell explodes the author list into one span per author, bolding
// the author matching the CV holder's scholarly identifier. An exact
// case-folded match wins; substring matching is the fallback when no
// author matches exactly, so an identifier that is a prefix of several
// names ("Doe" in "Doe" and "Doe J") bolds only the exact one.
func (rc *RenderContext) authorsCell(rec domain.CVDataRecord, key string) model.Cell {
	authors := rec.Values(key)
	if len(authors) == 1 && strings.Contains(authors[0], ",") {
		authors = strings.Split(authors[0], ",")
	}
	trimmed := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			trimmed = append(trimmed, a)
		}
	}

	id := strings.TrimSpace(rc.Profile.ScholarID)
	exact := false
	if id != "" {
		for _, a := range trimmed {
			if strings.EqualFold(a, id) {
				exact = true
				break
			}
		}
	}

	spans := make([]model.TextSpan, 0, len(trimmed))
	for _, a := range trimmed {
		bold := false
		if id != "" {
			if exact {
				bold = strings.EqualFold(a, id)
			} else {
				bold = containsFold(a, id)
			}
		}
		spans = append(spans, model.TextSpan{Text: a, Bold: bold})
	}
	return model.Cell{Spans: spans}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// doiCell turns a DOI value into a hyperlinked span.
func doiCell(doi string) model.Cell {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return model.Text("")
	}
	href := doi
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		href = "https://doi.org/" + strings.TrimPrefix(href, "doi:")
	}
	return model.Cell{Spans: []model.TextSpan{{Text: doi, Link: href}}}
}

// noteBlocks renders the configured free-text notes below the table. Notes
// with an association attribute render as "Assoc: text" labeled lines with
// the association bolded; others render as bullets. When the setting asks
// for the attribute's display name, the label prefixes the block only if at
// least one note was rendered.
func (rc *RenderContext) noteBlocks(section domain.Section, ps domain.PreparedSection, records []domain.CVDataRecord) string {
	var b strings.Builder
	for _, ns := range ps.NoteSettings {
		var block strings.Builder
		rendered := 0
		for _, rec := range records {
			note := strings.TrimSpace(rec.Value(ns.SourceAttribute))
			if note == "" {
				continue
			}
			assoc := ""
			if ns.AssociateWith != "" {
				assoc = strings.TrimSpace(rec.Value(ns.AssociateWith))
			}
			if assoc != "" {
				content := rc.Format.Bold(rc.Format.Escape(assoc)) + ": " + rc.Format.Escape(note)
				block.WriteString(rc.Format.Paragraph(content))
			} else {
				// record without the association value: plain bullet, no
				// empty bold label
				block.WriteString(rc.Format.Bullet(rc.Format.Escape(note)))
			}
			rendered++
		}
		if rendered == 0 {
			continue
		}
		if ns.ShowAttributeName {
			label := rc.attributeLabel(section, ps, ns.SourceAttribute)
			b.WriteString(rc.Format.Paragraph(rc.Format.Bold(rc.Format.Escape(label))))
		}
		b.WriteString(block.String())
	}
	return b.String()
}
