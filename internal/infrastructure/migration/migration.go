package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	migrations := []Migration{
		{
			Name: "create_render_jobs",
			Up:   createRenderJobs,
		},
		{
			Name: "create_documents",
			Up:   createDocuments,
		},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

// createRenderJobs creates the render_jobs table if it doesn't exist. The
// section and CV data tables belong to the data-entry application and are
// not managed here.
func createRenderJobs(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS render_jobs (
			id UUID PRIMARY KEY,
			user_ids TEXT[] NOT NULL DEFAULT '{}',
			template_name TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT 'html',
			status TEXT NOT NULL DEFAULT 'pending',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			document_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		slog.Warn("Error creating render_jobs table (may already exist)", "error", err)
		return nil
	}

	slog.Info("Successfully ensured render_jobs table")
	return nil
}

// createDocuments creates the documents artifact table if it doesn't exist
func createDocuments(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS documents (
			id UUID PRIMARY KEY,
			template_name TEXT NOT NULL DEFAULT '',
			format TEXT NOT NULL DEFAULT 'html',
			file_name TEXT NOT NULL DEFAULT '',
			source_path TEXT NOT NULL DEFAULT '',
			pdf_path TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		slog.Warn("Error creating documents table (may already exist)", "error", err)
		return nil
	}

	slog.Info("Successfully ensured documents table")
	return nil
}
