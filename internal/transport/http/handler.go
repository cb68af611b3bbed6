package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"adventure-service/internal/entity"
	"adventure-service/internal/service"
)

type Handler struct {
	storySvc *service.StoryService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(storySvc *service.StoryService, logger *zap.Logger) *Handler {
	return &Handler{
		storySvc: storySvc,
		validate: validator.New(),
		logger:   logger.Named("http"),
	}
}

type createStoryDTO struct {
	Theme string `json:"theme" validate:"required,max=200" example:"fantasy"`
}

type jobResp struct {
	JobID       string           `json:"job_id"`
	Status      entity.JobStatus `json:"status"`
	CreatedAt   string           `json:"created_at"`
	StoryID     *string          `json:"story_id"`
	CompletedAt *string          `json:"completed_at"`
	Error       *string          `json:"error"`
}

type infoResp struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Docs    string `json:"docs"`
}

type healthResp struct {
	Status string `json:"status"`
}

func toJobResp(j *entity.Job) jobResp {
	resp := jobResp{
		JobID:     j.ID.String(),
		Status:    j.Status,
		CreatedAt: j.CreatedAt.UTC().Format(time.RFC3339),
		Error:     j.Error,
	}
	if j.StoryID != nil {
		s := j.StoryID.String()
		resp.StoryID = &s
	}
	if j.CompletedAt != nil {
		s := j.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	switch verrs[0].Tag() {
	case "required":
		return "theme is required"
	case "max":
		return "theme must be at most " + verrs[0].Param() + " characters"
	}
	return "invalid theme"
}

// handleServiceError maps service errors onto HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		writeErr(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, entity.ErrInvalidInput):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, entity.ErrIntegrity):
		writeErr(w, http.StatusInternalServerError, "Story root node not found")
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}

// Info godoc
// @Summary Service info
// @Tags system
// @Produce json
// @Success 200 {object} infoResp
// @Router / [get]
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResp{
		Message: "Choose Your Own Adventure API",
		Status:  "running",
		Docs:    "/swagger/index.html",
	})
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} healthResp
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{Status: "healthy"})
}

// CreateStory godoc
// @Summary Start a story generation job
// @Description Stores a pending job and generates the story in the background. Sets the session_id cookie.
// @Tags stories
// @Accept json
// @Produce json
// @Param request body createStoryDTO true "story theme"
// @Success 200 {object} jobResp
// @Failure 400 {object} apiError
// @Failure 500 {object} apiError
// @Router /stories/create [post]
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var dto createStoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		writeErr(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	sessionID := ensureSession(w, r)

	job, err := h.storySvc.CreateJob(r.Context(), dto.Theme, sessionID)
	if err != nil {
		h.handleServiceError(w, err, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, toJobResp(job))
}

// GetJob godoc
// @Summary Get job status
// @Tags stories
// @Produce json
// @Param job_id path string true "job id (uuid)"
// @Success 200 {object} jobResp
// @Failure 404 {object} apiError
// @Router /stories/jobs/{job_id} [get]
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "job_id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "Job not found")
		return
	}

	job, err := h.storySvc.GetJob(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, toJobResp(job))
}

// GetCompleteStory godoc
// @Summary Get a story with its whole node tree
// @Tags stories
// @Produce json
// @Param story_id path string true "story id (uuid)"
// @Success 200 {object} entity.CompleteStory
// @Failure 404 {object} apiError
// @Failure 500 {object} apiError
// @Router /stories/{story_id}/complete [get]
func (h *Handler) GetCompleteStory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "story_id"))
	if err != nil {
		writeErr(w, http.StatusNotFound, "Story not found")
		return
	}

	story, err := h.storySvc.GetCompleteStory(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Story not found")
		return
	}

	writeJSON(w, http.StatusOK, story)
}
