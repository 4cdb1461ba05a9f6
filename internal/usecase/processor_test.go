package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-generator/internal/domain"
)

type fakeConverter struct {
	out []byte
	err error
}

func (c *fakeConverter) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	return c.out, c.err
}

type memJobsRepo struct {
	saved []domain.RenderJob
}

func (r *memJobsRepo) Save(ctx context.Context, j *domain.RenderJob) error {
	r.saved = append(r.saved, *j)
	return nil
}

func newJob(format string, convert bool) *domain.RenderJob {
	return &domain.RenderJob{
		ID:           uuid.New(),
		UserIDs:      []uuid.UUID{uuid.New()},
		Format:       format,
		ConvertToPDF: convert,
		Status:       domain.JobPending,
		Metadata:     map[string]interface{}{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func testProcessor(t *testing.T, conv Converter, repo JobsRepo, store Store) *Processor {
	t.Helper()
	b := NewDocumentBuilder(store, zerolog.Nop())
	return NewProcessor(b, conv, repo, t.TempDir(), zerolog.Nop())
}

func TestProcessWritesSourceArtifact(t *testing.T) {
	store := testStore()
	repo := &memJobsRepo{}
	p := testProcessor(t, nil, repo, store)

	job := newJob("html", false)
	job.UserIDs = []uuid.UUID{uuid.New()}
	store.profiles[job.UserIDs[0].String()] = domain.FacultyProfile{FirstName: "Jane", LastName: "Doe"}

	require.NoError(t, p.Process(context.Background(), job, testTemplate()))

	assert.Equal(t, domain.JobCompleted, job.Status)
	src, ok := job.Metadata["generated_source"].(string)
	require.True(t, ok)
	assert.Equal(t, ".html", filepath.Ext(src))
	b, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Jane Doe")
	// pending and completed states were both persisted
	require.NotEmpty(t, repo.saved)
	assert.Equal(t, domain.JobCompleted, repo.saved[len(repo.saved)-1].Status)
}

func TestProcessLaTeXArtifactExtension(t *testing.T) {
	store := testStore()
	p := testProcessor(t, nil, &memJobsRepo{}, store)

	job := newJob("latex", false)
	store.profiles[job.UserIDs[0].String()] = domain.FacultyProfile{FirstName: "A", LastName: "B"}

	require.NoError(t, p.Process(context.Background(), job, testTemplate()))
	src := job.Metadata["generated_source"].(string)
	assert.Equal(t, ".tex", filepath.Ext(src))
}

func TestProcessConvertsToPDF(t *testing.T) {
	store := testStore()
	conv := &fakeConverter{out: []byte("%PDF-1.4 fake")}
	p := testProcessor(t, conv, &memJobsRepo{}, store)

	job := newJob("html", true)
	store.profiles[job.UserIDs[0].String()] = domain.FacultyProfile{FirstName: "A", LastName: "B"}

	require.NoError(t, p.Process(context.Background(), job, testTemplate()))
	pdf, ok := job.Metadata["generated_pdf"].(string)
	require.True(t, ok)
	require.NotEmpty(t, pdf)
	b, err := os.ReadFile(pdf)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(b))
}

func TestProcessArtifactWriteFailureFailsJob(t *testing.T) {
	store := testStore()
	repo := &memJobsRepo{}
	// outDir nested under a regular file so MkdirAll cannot succeed
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	b := NewDocumentBuilder(store, zerolog.Nop())
	p := NewProcessor(b, nil, repo, filepath.Join(blocker, "out"), zerolog.Nop())

	job := newJob("html", false)
	store.profiles[job.UserIDs[0].String()] = domain.FacultyProfile{FirstName: "A", LastName: "B"}

	err := p.Process(context.Background(), job, testTemplate())
	require.Error(t, err)
	assert.Equal(t, domain.JobFailed, job.Status)
	assert.NotEmpty(t, job.Metadata["error"])
	// the failure reached the repo: a poller must not see "running" forever
	require.NotEmpty(t, repo.saved)
	assert.Equal(t, domain.JobFailed, repo.saved[len(repo.saved)-1].Status)
}

func TestProcessBuildFailureFailsJob(t *testing.T) {
	store := testStore()
	store.dataErr = errors.New("fetch failed")
	p := testProcessor(t, nil, &memJobsRepo{}, store)

	job := newJob("html", false)
	store.profiles[job.UserIDs[0].String()] = domain.FacultyProfile{}

	err := p.Process(context.Background(), job, testTemplate())
	require.Error(t, err)
	assert.Equal(t, domain.JobFailed, job.Status)
	assert.Contains(t, job.Metadata["error"], "fetch failed")
}
