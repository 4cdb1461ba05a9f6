package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"cv-generator/internal/domain"
)

type JobsRepo struct {
	pool *pgxpool.Pool
}

func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

func (r *JobsRepo) Save(ctx context.Context, j *domain.RenderJob) error {
	if r.pool == nil {
		return nil
	}

	metaB, _ := json.Marshal(j.Metadata)
	userIDs := make([]string, 0, len(j.UserIDs))
	for _, id := range j.UserIDs {
		userIDs = append(userIDs, id.String())
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO render_jobs (id, user_ids, template_name, format, status, metadata, document_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, metadata = EXCLUDED.metadata, document_id = EXCLUDED.document_id, updated_at = EXCLUDED.updated_at`,
		j.ID, userIDs, j.TemplateName, j.Format, j.Status, metaB, j.DocumentID, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return err
	}

	// Best-effort: persist a documents row once an artifact exists.
	srcPath := ""
	if j.Metadata != nil {
		if p, ok := j.Metadata["generated_source"].(string); ok {
			srcPath = p
		}
	}
	if srcPath == "" {
		return nil
	}

	var docID uuid.UUID
	if j.DocumentID != nil {
		docID = *j.DocumentID
	} else {
		docID = uuid.New()
		j.DocumentID = &docID
	}

	pdfPath := ""
	if p, ok := j.Metadata["generated_pdf"].(string); ok {
		pdfPath = p
	}

	if _, e := r.pool.Exec(ctx, `INSERT INTO documents (id, template_name, format, file_name, source_path, pdf_path, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET file_name = EXCLUDED.file_name, source_path = EXCLUDED.source_path, pdf_path = EXCLUDED.pdf_path, updated_at = EXCLUDED.updated_at`,
		docID, j.TemplateName, j.Format, filepath.Base(srcPath), srcPath, pdfPath, j.CreatedAt, j.UpdatedAt); e != nil {
		fmt.Printf("jobs_repo: unable to upsert documents row (non-fatal): %v\n", e)
	}

	return nil
}

// Get loads one render job by id.
func (r *JobsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("jobs store not available")
	}
	j := &domain.RenderJob{}
	var userIDs []string
	var metaB []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_ids, template_name, format, status, metadata, document_id, created_at, updated_at
		 FROM render_jobs WHERE id = $1`, id).
		Scan(&j.ID, &userIDs, &j.TemplateName, &j.Format, &j.Status, &metaB, &j.DocumentID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, s := range userIDs {
		if uid, e := uuid.Parse(s); e == nil {
			j.UserIDs = append(j.UserIDs, uid)
		}
	}
	if len(metaB) > 0 {
		_ = json.Unmarshal(metaB, &j.Metadata)
	}
	return j, nil
}
