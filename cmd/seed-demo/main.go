package main

import (
	"context"
	"fmt"
	"time"

	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/database"
	"github.com/quizdesk/quizdesk-backend/internal/logger"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/repository"
	"github.com/quizdesk/quizdesk-backend/internal/service"
)

// Seeds a demo quiz with ten questions plus twenty student accounts, all
// sharing the password "changeme1".
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	studentRepo := repository.NewStudentRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	quizService := service.NewQuizService(quizRepo, questionRepo, attemptRepo, rdb)
	questionService := service.NewQuestionService(questionRepo, quizService)

	fmt.Println("=== Seeding Demo Data ===")

	// ─── Quiz ──────────────────────────────────────────────────────────
	passingScore := 70
	quiz, err := quizService.Create(ctx, &model.CreateQuizRequest{
		Title:            "General Aptitude Screening",
		Description:      "Entry screening quiz for the internship program.",
		TimeLimitMinutes: 30,
		PassingScore:     &passingScore,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create quiz")
	}
	fmt.Printf("Created quiz: %s\n", quiz.ID)

	questions := []model.AddQuestionRequest{
		{QuestionText: "What is 15% of 200?", Options: []string{"20", "25", "30", "35"}, CorrectAnswer: "C"},
		{QuestionText: "Which number completes the series 2, 6, 18, 54, ...?", Options: []string{"108", "162", "148", "172"}, CorrectAnswer: "B"},
		{QuestionText: "If all roses are flowers and some flowers fade quickly, which statement must be true?", Options: []string{"All roses fade quickly", "Some roses are flowers", "No rose fades", "All flowers are roses"}, CorrectAnswer: "B"},
		{QuestionText: "A train travels 60 km in 45 minutes. What is its speed in km/h?", Options: []string{"75", "80", "85", "90"}, CorrectAnswer: "B"},
		{QuestionText: "Which word is the odd one out?", Options: []string{"Circle", "Square", "Triangle", "Sphere"}, CorrectAnswer: "D"},
		{QuestionText: "What is the next letter in the sequence A, C, F, J, ...?", Options: []string{"M", "N", "O", "P"}, CorrectAnswer: "C"},
		{QuestionText: "If a shirt costs $40 after a 20% discount, what was its original price?", Options: []string{"$45", "$48", "$50", "$52"}, CorrectAnswer: "C"},
		{QuestionText: "How many sides does a heptagon have?", Options: []string{"Six", "Seven", "Eight", "Nine"}, CorrectAnswer: "B"},
		{QuestionText: "Which fraction is largest?", Options: []string{"3/5", "5/8", "2/3", "7/12"}, CorrectAnswer: "C"},
		{QuestionText: "What is the average of 12, 18, 24 and 30?", Options: []string{"20", "21", "22", "24"}, CorrectAnswer: "B"},
	}
	for i, q := range questions {
		q.OrderNum = i + 1
		if _, err := questionService.Add(ctx, quiz.ID, &q); err != nil {
			log.Fatal().Err(err).Int("order", i+1).Msg("Failed to create question")
		}
	}
	fmt.Printf("Created %d questions\n", len(questions))

	if _, err := quizService.SetActive(ctx, quiz.ID, true); err != nil {
		log.Fatal().Err(err).Msg("Failed to activate quiz")
	}
	fmt.Println("Quiz activated")

	// ─── Students ──────────────────────────────────────────────────────
	names := []string{
		"Aarav Sharma", "Diya Patel", "Rohan Mehta", "Priya Singh", "Arjun Nair",
		"Ananya Iyer", "Kabir Khan", "Ishita Gupta", "Vivaan Reddy", "Sneha Desai",
		"Aditya Joshi", "Kavya Menon", "Rahul Verma", "Meera Pillai", "Dev Malhotra",
		"Tara Bose", "Nikhil Rao", "Pooja Kulkarni", "Samar Chawla", "Riya Kapoor",
	}

	successCount := 0
	for i, name := range names {
		student, err := studentService.Create(ctx, &model.CreateStudentRequest{
			Name:     name,
			Email:    fmt.Sprintf("student%d@example.com", i+1),
			Phone:    fmt.Sprintf("+91900000%04d", i+1),
			Password: "changeme1",
		})
		if err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		successCount++
		if (i+1)%10 == 0 {
			fmt.Printf("Created %d students...\n", i+1)
		}
		_ = student
	}

	fmt.Printf("\nSeed completed! Quiz %s active with %d students.\n", quiz.ID, successCount)
}
