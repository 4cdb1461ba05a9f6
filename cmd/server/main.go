package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	httpadapter "cv-generator/internal/adapter/http"
	repo "cv-generator/internal/adapter/repository"
	"cv-generator/internal/infrastructure/migration"
	"cv-generator/internal/usecase"
	infra "cv-generator/pkg/infrastructure"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// infra setup
	jobsPool, err := infra.NewJobsPool(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("jobs DB not available")
	} else if err := migration.RunMigrations(ctx, jobsPool); err != nil {
		log.Warn().Err(err).Msg("migrations failed")
	}

	cvPool, err := infra.NewCVPool(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cv DB not available")
	}

	converter := infra.NewChromedpConverter()
	store := repo.NewCVStore(cvPool, log)
	jobsRepo := repo.NewJobsRepo(jobsPool)

	outDir := os.Getenv("CV_DATA_DIR")
	if outDir == "" {
		outDir = "cv-data"
	}

	builder := usecase.NewDocumentBuilder(store, log)
	processor := usecase.NewProcessor(builder, converter, jobsRepo, outDir, log)

	app := fiber.New()

	h := httpadapter.NewHandler(processor, jobsRepo, log)
	app.Post("/documents/start", h.StartJob)
	app.Get("/documents/:id", h.GetJob)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	if err := app.Listen(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
