package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cv-generator/internal/domain"
	"cv-generator/internal/model"
	"cv-generator/internal/usecase"
)

type jobsStore interface {
	usecase.JobsRepo
	Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error)
}

type Handler struct {
	processor *usecase.Processor
	repo      jobsStore
	log       zerolog.Logger
}

func NewHandler(p *usecase.Processor, r jobsStore, log zerolog.Logger) *Handler {
	return &Handler{processor: p, repo: r, log: log}
}

type startReq struct {
	UserIDs      []string        `json:"userIds"`
	Format       string          `json:"format"`
	ConvertToPDF bool            `json:"convertToPdf"`
	Template     json.RawMessage `json:"template"`
}

// StartJob validates the submitted template, records a pending job and
// spawns the render in the background.
func (h *Handler) StartJob(c *fiber.Ctx) error {
	var req startReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if len(req.UserIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userIds required"})
	}

	userIDs := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, s := range req.UserIDs {
		uid, err := uuid.Parse(s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId: " + s})
		}
		userIDs = append(userIDs, uid)
	}

	var tplMap map[string]interface{}
	if err := json.Unmarshal(req.Template, &tplMap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid template JSON"})
	}
	if err := model.ValidateTemplateMap(tplMap); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	var tpl domain.Template
	if err := json.Unmarshal(req.Template, &tpl); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid template JSON"})
	}

	format := req.Format
	if format != "latex" {
		format = "html"
	}

	job := &domain.RenderJob{
		ID:           uuid.New(),
		UserIDs:      userIDs,
		TemplateName: tpl.Name,
		Format:       format,
		ConvertToPDF: req.ConvertToPDF,
		Status:       domain.JobPending,
		Metadata:     map[string]interface{}{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	// persist initial job (best-effort)
	if h.repo != nil {
		if err := h.repo.Save(context.Background(), job); err != nil {
			h.log.Warn().Err(err).Msg("failed to save job")
		}
	}

	// spawn background processing
	go func(j *domain.RenderJob, t domain.Template) {
		ctx := context.Background()
		if err := h.processor.Process(ctx, j, t); err != nil {
			h.log.Error().Err(err).Str("job", j.ID.String()).Msg("job failed")
		}
	}(job, tpl)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"jobId": job.ID.String(), "status": "started"})
}

// GetJob reports a job's status and artifact paths.
func (h *Handler) GetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid job id"})
	}
	job, err := h.repo.Get(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}
