package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"cv-generator/internal/domain"
)

// CVStore reads section definitions, CV data records and faculty profiles
// from the CV database. It implements usecase.Store.
type CVStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewCVStore(pool *pgxpool.Pool, log zerolog.Logger) *CVStore {
	return &CVStore{pool: pool, log: log}
}

// GetSections returns all section definitions. The stored attributes column
// is a JSON-encoded display-name→key map; a section whose attributes fail
// to decode is kept with an empty map so its records still render.
func (s *CVStore) GetSections(ctx context.Context) ([]domain.Section, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, title, attributes FROM data_sections ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("query data_sections: %w", err)
	}
	defer rows.Close()

	var out []domain.Section
	for rows.Next() {
		var sec domain.Section
		var attrsRaw []byte
		if err := rows.Scan(&sec.ID, &sec.Title, &attrsRaw); err != nil {
			return nil, err
		}
		if len(attrsRaw) > 0 {
			if err := json.Unmarshal(attrsRaw, &sec.Attributes); err != nil {
				s.log.Warn().Err(err).Str("section", sec.Title).Msg("bad attributes JSON, using empty map")
				sec.Attributes = map[string]string{}
			}
		} else {
			sec.Attributes = map[string]string{}
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// GetUserCVData returns the user's records for the given sections. The
// data_details column is JSON-encoded text; a record whose details fail to
// decode keeps the raw string so the content is passed through rather than
// dropped.
func (s *CVStore) GetUserCVData(ctx context.Context, userID string, sectionIDs []string) ([]domain.CVDataRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, data_section_id::text, data_details
		 FROM cv_data
		 WHERE user_id::text = $1 AND data_section_id::text = ANY($2)
		 ORDER BY created_at`,
		userID, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("query cv_data: %w", err)
	}
	defer rows.Close()

	var out []domain.CVDataRecord
	for rows.Next() {
		var rec domain.CVDataRecord
		var raw string
		if err := rows.Scan(&rec.ID, &rec.SectionID, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &rec.Details); err != nil {
			s.log.Warn().Err(err).Str("record", rec.ID).Msg("bad data_details JSON, passing raw value through")
			rec.Details = nil
			rec.Raw = raw
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetFacultyProfile returns the face-page data for one user.
func (s *CVStore) GetFacultyProfile(ctx context.Context, userID string) (domain.FacultyProfile, error) {
	var p domain.FacultyProfile
	err := s.pool.QueryRow(ctx,
		`SELECT user_id::text, first_name, last_name,
		        coalesce(rank, ''), coalesce(primary_department, ''),
		        coalesce(primary_faculty, ''), coalesce(scholar_id, ''),
		        coalesce(joined_timestamp::text, ''), coalesce(rank_since::text, '')
		 FROM faculty_profiles WHERE user_id::text = $1`,
		userID).Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Rank,
		&p.Department, &p.Faculty, &p.ScholarID, &p.JoinedTimestamp, &p.RankSince)
	if err != nil {
		return domain.FacultyProfile{}, fmt.Errorf("query faculty_profiles for %s: %w", userID, err)
	}
	return p, nil
}
