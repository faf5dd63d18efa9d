package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's login session JTI.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:%d", studentID)
}

// QuizTimerKey returns the cache key for a student's quiz countdown record.
// The value is a JSON object {start, remaining} mirroring what the browser
// keeps in local storage under quiz_<id>_time.
func (r *CacheKeyStruct) QuizTimerKey(quizID string, studentID int) string {
	return fmt.Sprintf("student:%d:quiz:%s:time", studentID, quizID)
}

// QuizAnswersKey returns the cache key for a student's saved answer map.
func (r *CacheKeyStruct) QuizAnswersKey(quizID string, studentID int) string {
	return fmt.Sprintf("student:%d:quiz:%s:answers", studentID, quizID)
}

// QuizChoicesKey returns the cache key for a student's letter-choice map.
func (r *CacheKeyStruct) QuizChoicesKey(quizID string, studentID int) string {
	return fmt.Sprintf("student:%d:quiz:%s:choices", studentID, quizID)
}

// AttemptStartKey returns the cache key for an attempt's start timestamp.
func (r *CacheKeyStruct) AttemptStartKey(quizID string, studentID int) string {
	return fmt.Sprintf("student:%d:quiz:%s:attempt_start", studentID, quizID)
}

// QuizPayloadKey returns the cache key for a quiz's student-facing payload.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// QuizAnswerKeyKey returns the cache key for a quiz's answer key.
func (r *CacheKeyStruct) QuizAnswerKeyKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:key", quizID)
}

// QuizDurationKey returns the cache key for a quiz's time limit in seconds.
func (r *CacheKeyStruct) QuizDurationKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:duration", quizID)
}

var CacheKey = NewCacheKeyStruct()
