package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cv-generator/internal/domain"
	"cv-generator/internal/model"
)

// Store is the upstream data/query collaborator. Fetch failures must
// propagate: a partial document would misrepresent the official record.
type Store interface {
	GetSections(ctx context.Context) ([]domain.Section, error)
	GetUserCVData(ctx context.Context, userID string, sectionIDs []string) ([]domain.CVDataRecord, error)
	GetFacultyProfile(ctx context.Context, userID string) (domain.FacultyProfile, error)
}

// DocumentBuilder assembles complete documents for one or more users.
type DocumentBuilder struct {
	store Store
	log   zerolog.Logger
}

func NewDocumentBuilder(store Store, log zerolog.Logger) *DocumentBuilder {
	return &DocumentBuilder{store: store, log: log}
}

// Build produces the complete document for the given users in the given
// format. Users render sequentially; each user's data fetch completes
// before that user's body is built. A page break separates users, never
// preceding the first.
func (b *DocumentBuilder) Build(ctx context.Context, f Format, tpl domain.Template, userIDs []string) (string, error) {
	sections, err := b.store.GetSections(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch sections: %w", err)
	}

	sectionIDs := templateSectionIDs(tpl)

	var out strings.Builder
	out.WriteString(f.DocumentStart(tpl.Name))

	for i, uid := range userIDs {
		if i > 0 {
			out.WriteString(f.PageBreak())
		}

		profile, err := b.store.GetFacultyProfile(ctx, uid)
		if err != nil {
			return "", fmt.Errorf("fetch profile for %s: %w", uid, err)
		}
		records, err := b.store.GetUserCVData(ctx, uid, sectionIDs)
		if err != nil {
			return "", fmt.Errorf("fetch cv data for %s: %w", uid, err)
		}

		rc := NewRenderContext(f, tpl, profile, sections, records, b.log)
		out.WriteString(rc.BuildProfileHeader())
		for _, g := range tpl.Groups {
			if g.ID == domain.HiddenGroupID {
				continue
			}
			out.WriteString(rc.BuildGroup(g))
		}
	}

	out.WriteString(f.DocumentEnd())
	return out.String(), nil
}

// templateSectionIDs collects every data section id a template references,
// deduplicated in first-appearance order.
func templateSectionIDs(tpl domain.Template) []string {
	seen := map[string]bool{}
	var ids []string
	for _, g := range tpl.Groups {
		for _, ps := range g.Sections {
			if !seen[ps.DataSectionID] {
				seen[ps.DataSectionID] = true
				ids = append(ids, ps.DataSectionID)
			}
		}
	}
	return ids
}

// BuildGroup renders a group header row followed by each member prepared
// section's output and trailing vertical spacing.
func (rc *RenderContext) BuildGroup(g domain.Group) string {
	var b strings.Builder
	header := model.Row{
		Cells: []model.Cell{{
			Spans:      []model.TextSpan{{Text: g.Title, Bold: true, Size: 12}},
			Background: model.BackgroundHeader,
		}},
		Ratios: []int{1},
	}
	b.WriteString(RenderRow(rc.Format, header, false, false))
	for _, ps := range g.Sections {
		b.WriteString(rc.BuildSection(ps))
	}
	b.WriteString(rc.Format.Spacer())
	return b.String()
}

// BuildProfileHeader renders the fixed face page preceding the grouped
// content: name, rank, department, faculty and appointment dates.
func (rc *RenderContext) BuildProfileHeader() string {
	p := rc.Profile
	var b strings.Builder

	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	nameRow := model.Row{
		Cells: []model.Cell{{
			Spans:      []model.TextSpan{{Text: name, Bold: true, Size: 14}},
			Background: model.BackgroundHeader,
		}},
		Ratios: []int{1},
	}
	b.WriteString(RenderRow(rc.Format, nameRow, false, false))

	fields := []struct{ label, value string }{
		{"Rank", p.Rank},
		{"Department", p.Department},
		{"Faculty", p.Faculty},
		{"Date of Initial Appointment", p.JoinedTimestamp},
		{"Present Rank Since", p.RankSince},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		row := model.Row{
			Cells: []model.Cell{
				{Spans: []model.TextSpan{{Text: f.label, Bold: true}}, Background: model.BackgroundColumnHeader},
				model.Text(f.value),
			},
			Ratios: []int{1, 3},
		}
		b.WriteString(RenderRow(rc.Format, row, false, false))
	}
	b.WriteString(rc.Format.Spacer())
	return b.String()
}
