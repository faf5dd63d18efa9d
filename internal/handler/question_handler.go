package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/response"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/quizdesk/quizdesk-backend/internal/validator"
)

// QuestionHandler handles admin-facing question management within a quiz.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// ListQuestions godoc
// GET /api/v1/admin/quizzes/:quiz_id/questions
// Lists a quiz's questions in order, correct answers included.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), quizID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// AddQuestion godoc
// POST /api/v1/admin/quizzes/:quiz_id/questions
// Appends a question to a quiz.
func (h *QuestionHandler) AddQuestion(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}

	var req model.AddQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Add(c.Request.Context(), quizID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// UpdateQuestion godoc
// PUT /api/v1/admin/quizzes/:quiz_id/questions/:question_id
// Updates a question, scoped to its quiz.
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}
	questionID, ok := parseQuestionID(c)
	if !ok {
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), quizID, questionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// DeleteQuestion godoc
// DELETE /api/v1/admin/quizzes/:quiz_id/questions/:question_id
// Removes a question, scoped to its quiz.
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	quizID, ok := parseQuizID(c)
	if !ok {
		return
	}
	questionID, ok := parseQuestionID(c)
	if !ok {
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), quizID, questionID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

func parseQuestionID(c *gin.Context) (uuid.UUID, bool) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return questionID, true
}
