package usecase

import (
	"time"

	"github.com/rs/zerolog"

	"cv-generator/internal/domain"
)

// RenderContext carries everything one render invocation needs. It is built
// once per user and threaded explicitly through every builder, so
// concurrent renders for different users never share mutable state.
type RenderContext struct {
	Format   Format
	Template domain.Template
	Profile  domain.FacultyProfile
	Sections map[string]domain.Section        // by data section id
	Records  map[string][]domain.CVDataRecord // by data section id
	Now      time.Time
	Log      zerolog.Logger
}

// NewRenderContext indexes the fetched section definitions and CV records
// for one user's render pass.
func NewRenderContext(f Format, tpl domain.Template, profile domain.FacultyProfile,
	sections []domain.Section, records []domain.CVDataRecord, log zerolog.Logger) *RenderContext {

	sectionIdx := make(map[string]domain.Section, len(sections))
	for _, s := range sections {
		sectionIdx[s.ID] = s
	}
	recordIdx := make(map[string][]domain.CVDataRecord)
	for _, r := range records {
		recordIdx[r.SectionID] = append(recordIdx[r.SectionID], r)
	}
	return &RenderContext{
		Format:   f,
		Template: tpl,
		Profile:  profile,
		Sections: sectionIdx,
		Records:  recordIdx,
		Now:      time.Now(),
		Log:      log,
	}
}
