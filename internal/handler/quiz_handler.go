package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/repository"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/quizdesk/quizdesk-backend/internal/validator"
)

// QuizHandler handles admin-facing quiz management.
type QuizHandler struct {
	quizService *service.QuizService
	attempts    *repository.AttemptRepository
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, attempts *repository.AttemptRepository) *QuizHandler {
	return &QuizHandler{quizService: quizService, attempts: attempts}
}

// ListQuizzes godoc
// GET /api/v1/admin/quizzes
// Lists quizzes with pagination, title search and an active filter.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, perPage := parsePageQuery(c)
	search := c.Query("search")

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		isActive = &active
	}

	quizzes, total, err := h.quizService.List(c.Request.Context(), search, isActive, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, buildPagination(page, perPage, total))
}

// CreateQuiz godoc
// POST /api/v1/admin/quizzes
// Creates a quiz. New quizzes start inactive.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// GetQuiz godoc
// GET /api/v1/admin/quizzes/:quiz_id
// Returns one quiz with its full configuration.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	quiz, err := h.quizService.Get(c.Request.Context(), quizID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// UpdateQuiz godoc
// PUT /api/v1/admin/quizzes/:quiz_id
// Updates a quiz's configuration and refreshes its cached payload.
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), quizID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// ToggleQuizStatus godoc
// PATCH /api/v1/admin/quizzes/:quiz_id/status
// Activates or deactivates a quiz.
func (h *QuizHandler) ToggleQuizStatus(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	var req model.ToggleQuizStatusRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.SetActive(c.Request.Context(), quizID, *req.IsActive)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// DuplicateQuiz godoc
// POST /api/v1/admin/quizzes/:quiz_id/duplicate
// Deep-copies a quiz and its questions. The clone is inactive.
func (h *QuizHandler) DuplicateQuiz(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	clone, err := h.quizService.Duplicate(c.Request.Context(), quizID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": clone})
}

// DeleteQuiz godoc
// DELETE /api/v1/admin/quizzes/:quiz_id
// Removes a quiz; questions cascade.
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// GetQuizResults godoc
// GET /api/v1/admin/quizzes/:quiz_id/results
// Lists attempt results for a quiz, optionally filtered by status.
func (h *QuizHandler) GetQuizResults(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	if _, err := h.quizService.Get(c.Request.Context(), quizID); err != nil {
		failFromService(c, err)
		return
	}

	page, perPage := parsePageQuery(c)

	var status *model.AttemptStatus
	if raw := c.Query("status"); raw != "" {
		s := model.AttemptStatus(raw)
		if s != model.AttemptStatusInProgress && s != model.AttemptStatusCompleted {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		status = &s
	}

	results, total, err := h.attempts.ListByQuiz(c.Request.Context(), quizID, status, perPage, (page-1)*perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, buildPagination(page, perPage, total))
}

func parseQuizID(c *gin.Context) (uuid.UUID, bool) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return quizID, true
}

// failFromService maps common service sentinels onto HTTP errors.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrEmailTaken):
		response.Fail(c, http.StatusConflict, response.ErrEmailTaken)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
