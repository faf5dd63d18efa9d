package model

import (
	"github.com/google/uuid"
)

// Question represents a single quiz question. Options is always an ordered
// list of exactly four strings; CorrectAnswer is the letter A-D keyed to it.
type Question struct {
	ID            uuid.UUID `json:"id"`
	QuizID        uuid.UUID `json:"quiz_id"`
	QuestionText  string    `json:"question_text"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	OrderNum      int       `json:"order_num"`
}

// QuestionForStudent is a question without the correct answer, sent to students.
type QuestionForStudent struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	Options      []string  `json:"options"`
	OrderNum     int       `json:"order_num"`
}

// AddQuestionRequest is the payload for adding a question to a quiz.
type AddQuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,len=4,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,oneof=A B C D"`
	OrderNum      int      `json:"order_num" binding:"min=0"`
}

// UpdateQuestionRequest is the payload for updating an existing question.
type UpdateQuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"required,len=4,dive,required,max=500"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,oneof=A B C D"`
	OrderNum      int      `json:"order_num" binding:"min=0"`
}
