package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cv-generator/internal/domain"
)

// Converter is the external HTML→PDF conversion collaborator.
type Converter interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// JobsRepo persists render jobs.
type JobsRepo interface {
	Save(ctx context.Context, j *domain.RenderJob) error
}

// Processor runs one render job end to end: build the document, write the
// source artifact, optionally hand it to the converter, record the outcome.
type Processor struct {
	builder   *DocumentBuilder
	converter Converter
	repo      JobsRepo
	outDir    string
	log       zerolog.Logger
}

func NewProcessor(b *DocumentBuilder, c Converter, repo JobsRepo, outDir string, log zerolog.Logger) *Processor {
	return &Processor{builder: b, converter: c, repo: repo, outDir: outDir, log: log}
}

func formatFor(name string) Format {
	if name == "latex" {
		return LaTeXFormat{}
	}
	return HTMLFormat{}
}

func extensionFor(f Format) string {
	if f.Name() == "latex" {
		return "tex"
	}
	return "html"
}

// Process executes the job. A document build failure fails the job (a
// partial document must not pass); a conversion failure is recorded on the
// job but leaves the source artifact intact.
func (p *Processor) Process(ctx context.Context, job *domain.RenderJob, tpl domain.Template) error {
	if job.Metadata == nil {
		job.Metadata = map[string]interface{}{}
	}
	job.Status = domain.JobRunning
	job.UpdatedAt = time.Now()
	p.save(ctx, job)

	f := formatFor(job.Format)
	userIDs := make([]string, 0, len(job.UserIDs))
	for _, id := range job.UserIDs {
		userIDs = append(userIDs, id.String())
	}

	doc, err := p.builder.Build(ctx, f, tpl, userIDs)
	if err != nil {
		return p.fail(ctx, job, err)
	}

	ts := time.Now().Format("20060102T150405")
	genDir := filepath.Join(p.outDir, "generated")
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return p.fail(ctx, job, err)
	}
	srcName := fmt.Sprintf("cv_%s.%s", ts, extensionFor(f))
	srcPath := filepath.Join(genDir, srcName)
	if err := os.WriteFile(srcPath, []byte(doc), 0o644); err != nil {
		return p.fail(ctx, job, err)
	}
	job.Metadata["generated_source"] = srcPath

	if job.ConvertToPDF && f.Name() == "html" && p.converter != nil {
		pdfPath := filepath.Join(genDir, fmt.Sprintf("cv_%s.pdf", ts))
		if err := p.convertWithRetry(ctx, doc, pdfPath); err != nil {
			p.log.Error().Err(err).Str("job", job.ID.String()).Msg("pdf conversion failed")
			job.Metadata["generated_pdf"] = ""
			job.Metadata["pdf_render_error"] = err.Error()
		} else {
			job.Metadata["generated_pdf"] = pdfPath
		}
	}

	job.Status = domain.JobCompleted
	job.UpdatedAt = time.Now()
	if p.repo != nil {
		if err := p.repo.Save(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// convertWithRetry calls the converter up to three times with exponential
// backoff, validating the PDF signature before accepting the output.
func (p *Processor) convertWithRetry(ctx context.Context, html, dest string) error {
	var lastErr error
	attempts := 3
	for i := 0; i < attempts; i++ {
		pdf, err := p.converter.RenderHTMLToPDF(ctx, html)
		if err == nil {
			if len(pdf) > 0 && strings.HasPrefix(string(pdf), "%PDF") {
				return os.WriteFile(dest, pdf, 0o644)
			}
			err = fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
		}
		lastErr = err
		p.log.Warn().Err(err).Int("attempt", i+1).Msg("convert attempt failed")
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("conversion failed after %d attempts: %w", attempts, lastErr)
}

// fail marks the job failed with the error recorded, persists it, and
// returns the error. Every failure path must land here so a polled job
// never sits in "running" after its goroutine has died.
func (p *Processor) fail(ctx context.Context, job *domain.RenderJob, err error) error {
	job.Status = domain.JobFailed
	job.Metadata["error"] = err.Error()
	job.UpdatedAt = time.Now()
	p.save(ctx, job)
	return err
}

func (p *Processor) save(ctx context.Context, job *domain.RenderJob) {
	if p.repo == nil {
		return
	}
	if err := p.repo.Save(ctx, job); err != nil {
		p.log.Warn().Err(err).Str("job", job.ID.String()).Msg("job save failed")
	}
}
