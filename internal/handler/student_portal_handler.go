package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/middleware"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/quizdesk/quizdesk-backend/internal/validator"
)

// StudentPortalHandler handles the student-facing quiz and attempt endpoints.
type StudentPortalHandler struct {
	quizService    *service.QuizService
	attemptService *service.AttemptService
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(quizService *service.QuizService, attemptService *service.AttemptService) *StudentPortalHandler {
	return &StudentPortalHandler{quizService: quizService, attemptService: attemptService}
}

// GetQuiz godoc
// GET /api/v1/quizzes/:quiz_id
// Returns the sanitized quiz payload after the access gates pass.
func (h *StudentPortalHandler) GetQuiz(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.quizService.FetchForStudent(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNotAvailable):
			response.Fail(c, http.StatusForbidden, response.ErrQuizNotAvailable)
		case errors.Is(err, service.ErrQuizExpired):
			response.Fail(c, http.StatusForbidden, response.ErrQuizExpired)
		case errors.Is(err, service.ErrQuizNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrQuizNoQuestions)
		case errors.Is(err, service.ErrAlreadyCompleted):
			response.Fail(c, http.StatusConflict, response.ErrAttemptCompleted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": payload})
}

// StartAttempt godoc
// POST /api/v1/attempts/start
// Starts a new attempt or resumes the in-progress one for the quiz.
func (h *StudentPortalHandler) StartAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attemptService.Start(c.Request.Context(), req.QuizID, claims.UserID,
		c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyCompleted):
			response.Fail(c, http.StatusConflict, response.ErrAttemptCompleted)
		case errors.Is(err, service.ErrAttemptLimitReached):
			response.Fail(c, http.StatusConflict, response.ErrAttemptLimit)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	status := http.StatusCreated
	if result.Resumed {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// CompleteAttempt godoc
// POST /api/v1/attempts/complete
// Closes the caller's in-progress attempt; the stored grade is recomputed
// server-side.
func (h *StudentPortalHandler) CompleteAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CompleteAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.attemptService.Complete(c.Request.Context(), &req, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrForbidden):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, service.ErrAlreadyCompleted):
			response.Fail(c, http.StatusConflict, response.ErrAttemptCompleted)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// SaveAnswer godoc
// POST /api/v1/attempts/answers
// Records one answer; a second POST for the same question is a conflict.
func (h *StudentPortalHandler) SaveAnswer(c *gin.Context) {
	h.saveAnswer(c, false)
}

// UpdateAnswer godoc
// PUT /api/v1/attempts/answers
// Overwrites the stored answer for a question.
func (h *StudentPortalHandler) UpdateAnswer(c *gin.Context) {
	h.saveAnswer(c, true)
}

func (h *StudentPortalHandler) saveAnswer(c *gin.Context, update bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SaveAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.attemptService.SaveAnswer(c.Request.Context(), &req, claims.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrForbidden):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		case errors.Is(err, service.ErrAttemptNotActive):
			response.Fail(c, http.StatusConflict, response.ErrAttemptNotActive)
		case errors.Is(err, service.ErrResponseExists):
			response.Fail(c, http.StatusConflict, response.ErrResponseExists)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	status := http.StatusCreated
	if update {
		status = http.StatusOK
	}
	response.Success(c, status, gin.H{"response": resp})
}

// GetAttemptState godoc
// GET /api/v1/attempts/:attempt_id/state
// Returns the resumable state: remaining time plus saved answers.
func (h *StudentPortalHandler) GetAttemptState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.attemptService.GetState(c.Request.Context(), attemptID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrForbidden):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, state)
}
