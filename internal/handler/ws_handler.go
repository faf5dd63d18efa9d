package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/quizdesk/quizdesk-backend/internal/config"
	"github.com/quizdesk/quizdesk-backend/internal/middleware"
	"github.com/quizdesk/quizdesk-backend/internal/model"
	"github.com/quizdesk/quizdesk-backend/internal/service"
	"github.com/quizdesk/quizdesk-backend/internal/session"
	ws "github.com/quizdesk/quizdesk-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// tickInterval is how often the remaining-time push goes out.
const tickInterval = 5 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the live attempt stream: server-pushed countdown ticks
// plus client autosave messages.
type WSHandler struct {
	rdb            *redis.Client
	quizService    *service.QuizService
	attemptService *service.AttemptService
	sessions       *session.Store
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	rdb *redis.Client,
	quizService *service.QuizService,
	attemptService *service.AttemptService,
	sessions *session.Store,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		rdb:            rdb,
		quizService:    quizService,
		attemptService: attemptService,
		sessions:       sessions,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/quizzes/:quiz_id/stream
// Upgrades to WebSocket for countdown pushes and answer autosave.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quiz ID"})
		return
	}
	studentID := claims.UserID

	attempt, err := h.attemptService.ActiveAttempt(c.Request.Context(), quizID, studentID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no attempt in progress for this quiz"})
		return
	}

	quiz, err := h.quizService.Get(c.Request.Context(), quizID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "quiz not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("student_id", studentID).
		Str("quiz_id", quizID.String()).
		Logger()
	wsLog.Info().Msg("Student connected")

	// Reader goroutine feeds messages into the select loop so countdown
	// pushes and client messages share one writer. done lets the pump exit
	// when the main loop returns first, e.g. on a failed tick write.
	msgs := make(chan ws.RequestPayload)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go readPump(conn, msgs, readErr, done)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	ctx := context.Background()
	for {
		select {
		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return

		case <-ticker.C:
			remaining, err := h.attemptService.RemainingSeconds(ctx, quiz, attempt, studentID)
			if err != nil {
				wsLog.Error().Err(err).Msg("Remaining time recompute failed")
				continue
			}
			event := ws.EventTick
			if remaining == 0 {
				event = ws.EventExpired
			}
			if err := ws.WriteTyped(conn, ws.TickResponse{Event: event, Remaining: remaining}); err != nil {
				return
			}

		case msg := <-msgs:
			switch msg.Action {
			case ws.ActionAutosave:
				h.handleAutosave(ctx, conn, wsLog, quizID, attempt.ID, studentID, &msg)
			case ws.ActionPing:
				ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			default:
				wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
				ws.WriteError(conn, "unknown action: "+string(msg.Action))
			}
		}
	}
}

// readPump forwards incoming messages until the connection errors or done
// closes. Sends race the done channel so the pump never blocks on a loop
// that already returned.
func readPump(conn ws.Conn, msgs chan<- ws.RequestPayload, readErr chan<- error, done <-chan struct{}) {
	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			select {
			case readErr <- err:
			case <-done:
			}
			return
		}
		select {
		case msgs <- msg:
		case <-done:
			return
		}
	}
}

// handleAutosave mirrors an answer into the session state and queues it for
// PostgreSQL persistence. Correctness is checked against the cached answer
// key rather than trusting the client.
func (h *WSHandler) handleAutosave(ctx context.Context, conn ws.Conn, wsLog zerolog.Logger, quizID, attemptID uuid.UUID, studentID int, msg *ws.RequestPayload) {
	if msg.QID == "" || msg.Answer == "" {
		ws.WriteError(conn, "q_id and ans are required")
		return
	}

	questionID, err := uuid.Parse(msg.QID)
	if err != nil {
		ws.WriteError(conn, "invalid q_id format")
		return
	}

	if err := h.sessions.SaveAnswer(ctx, quizID, studentID, questionID, msg.Answer); err != nil {
		wsLog.Error().Err(err).Msg("Autosave Redis error")
		ws.WriteError(conn, "save failed")
		return
	}

	answerKey, err := h.quizService.AnswerKey(ctx, quizID)
	if err != nil {
		wsLog.Error().Err(err).Msg("Answer key lookup failed")
		ws.WriteError(conn, "save failed")
		return
	}

	job := model.ResponseJob{
		AttemptID:      attemptID,
		QuizID:         quizID,
		StudentID:      studentID,
		QuestionID:     questionID,
		SelectedAnswer: msg.Answer,
		IsCorrect:      answerKey[msg.QID] == msg.Answer,
	}
	payload, _ := json.Marshal(job)
	h.rdb.RPush(ctx, config.WorkerKey.PersistResponsesQueue, payload)

	ws.WriteTyped(conn, ws.AutosaveResponse{Event: ws.EventSuccess, Status: "saved"})
}
