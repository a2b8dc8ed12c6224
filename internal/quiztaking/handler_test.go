package quiztaking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eureka-quiz/web/internal/attempt"
	"github.com/eureka-quiz/web/internal/models"
	"github.com/eureka-quiz/web/internal/realtime"
	"github.com/eureka-quiz/web/internal/web/webtest"
)

func harness(t *testing.T, opts attempt.Options) *webtest.Harness {
	h := NewHandler(opts, nil)
	hs := webtest.New(t, func(r *gin.Engine) {
		r.GET("/quiz-details/:quizId", h.Take)
		r.POST("/quiz-details/:quizId/answers", h.Answer)
		r.POST("/quiz-details/:quizId/submit", h.Submit)
		r.POST("/quiz-details/:quizId/visibility", h.Visibility)
		r.POST("/quiz-details/:quizId/leave", h.Leave)
		r.GET("/ws/quiz/:quizId", h.Watch)
	})
	hs.LoginAs(t, models.RoleStudent)
	return hs
}

func quizBackend(hs *webtest.Harness) {
	hs.Backend.JSON("GET /api/quiz/7", http.StatusOK, map[string]interface{}{
		"id": 7, "quiz_name": "Chapter 1", "class_name": "Algebra", "duration_minutes": 20,
	})
	hs.Backend.JSON("GET /api/quiz/7/questions", http.StatusOK, []map[string]interface{}{
		{"id": 1, "question_text": "2+2?", "question_type": "identification"},
		{"id": 2, "question_text": "Pick a prime", "question_type": "multiple choice", "choices": []string{"4", "5"}},
		{"id": 3, "question_text": "Earth is flat", "question_type": "true or false"},
	})
}

func TestTakeRendersQuestions(t *testing.T) {
	hs := harness(t, attempt.Options{})
	quizBackend(hs)

	w := hs.Get("/quiz-details/7")
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Chapter 1")
	assert.Contains(t, body, `name="answer_2" value="5"`)
	assert.Contains(t, body, `value="False"`)
	require.NotNil(t, hs.Client().Attempts.Get(7))
}

func TestTakeInvalidID(t *testing.T) {
	hs := harness(t, attempt.Options{})

	w := hs.Get("/quiz-details/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), attempt.MsgInvalidQuiz)
	assert.Empty(t, hs.Backend.Calls())
}

func TestTakeLoadFailure(t *testing.T) {
	hs := harness(t, attempt.Options{})
	hs.Backend.JSON("GET /api/quiz/7", http.StatusOK, map[string]interface{}{"id": 7})
	hs.Backend.JSON("GET /api/quiz/7/questions", http.StatusInternalServerError, map[string]string{})

	w := hs.Get("/quiz-details/7")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), attempt.MsgQuestionsFailed)
	assert.Nil(t, hs.Client().Attempts.Get(7))
}

func TestTakeMissingQuiz(t *testing.T) {
	hs := harness(t, attempt.Options{})
	hs.Backend.JSON("GET /api/quiz/7", http.StatusNotFound, map[string]string{"detail": "Quiz not found"})
	hs.Backend.JSON("GET /api/quiz/7/questions", http.StatusOK, []map[string]interface{}{})

	w := hs.Get("/quiz-details/7")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), attempt.MsgQuizLoadFailed)
	assert.Nil(t, hs.Client().Attempts.Get(7))
}

func TestTakeExpiredSession(t *testing.T) {
	hs := harness(t, attempt.Options{})
	hs.Backend.JSON("GET /api/quiz/7", http.StatusUnauthorized, map[string]string{})
	hs.Backend.JSON("GET /api/quiz/7/questions", http.StatusUnauthorized, map[string]string{})

	w := hs.Get("/quiz-details/7")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Nil(t, hs.Client().Session.Current())
}

func TestAnswerThenSubmit(t *testing.T) {
	hs := harness(t, attempt.Options{})
	quizBackend(hs)
	hs.Backend.JSON("POST /api/quiz/7/submit", http.StatusOK, map[string]interface{}{
		"message": "Quiz submitted successfully.", "score": 66.67, "correct_answers": 2, "total_questions": 3,
	})

	hs.Get("/quiz-details/7")
	w := hs.PostJSON("/quiz-details/7/answers", map[string]interface{}{"question_id": 2, "answer": "4"})
	require.Equal(t, http.StatusOK, w.Code)
	hs.PostJSON("/quiz-details/7/answers", map[string]interface{}{"question_id": 2, "answer": "5"})

	w = hs.PostForm("/quiz-details/7/submit", url.Values{"answer_1": {"4"}, "answer_3": {""}})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Quiz submitted successfully.")
	assert.Contains(t, body, "Correct answers: 2 / 3")

	call, ok := hs.Backend.Find(http.MethodPost, "/api/quiz/7/submit")
	require.True(t, ok)
	assert.JSONEq(t, `{"answers":[{"question_id":2,"answer":"5"},{"question_id":1,"answer":"4"}]}`, string(call.Body))
}

func TestSubmitFailureKeepsAnswers(t *testing.T) {
	hs := harness(t, attempt.Options{})
	quizBackend(hs)
	hs.Backend.JSON("POST /api/quiz/7/submit", http.StatusInternalServerError, map[string]string{})

	hs.Get("/quiz-details/7")
	w := hs.PostForm("/quiz-details/7/submit", url.Values{"answer_1": {"4"}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), attempt.MsgSubmitFailed)
	assert.Contains(t, w.Body.String(), `name="answer_1" value="4"`)
}

func TestSubmitLockedAfterGraded(t *testing.T) {
	hs := harness(t, attempt.Options{LockAfterGraded: true})
	quizBackend(hs)
	hs.Backend.JSON("POST /api/quiz/7/submit", http.StatusOK, map[string]interface{}{"message": "ok"})

	hs.Get("/quiz-details/7")
	w := hs.PostForm("/quiz-details/7/submit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = hs.PostForm("/quiz-details/7/submit", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), MsgAlreadyGraded)
}

func TestAnswerWithoutAttempt(t *testing.T) {
	hs := harness(t, attempt.Options{})

	w := hs.PostJSON("/quiz-details/7/answers", map[string]interface{}{"question_id": 1, "answer": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = hs.PostForm("/quiz-details/7/submit", nil)
	assert.Equal(t, "/quiz-details/7", w.Header().Get("Location"))
}

func TestLeaveClosesAttempt(t *testing.T) {
	hs := harness(t, attempt.Options{})
	quizBackend(hs)

	hs.Get("/quiz-details/7")
	flow := hs.Client().Attempts.Get(7)
	require.NotNil(t, flow)

	w := hs.PostForm("/quiz-details/7/leave", nil)
	assert.Equal(t, "/student-dashboard", w.Header().Get("Location"))
	assert.True(t, flow.Closed())
	assert.Nil(t, hs.Client().Attempts.Get(7))
	assert.ErrorIs(t, flow.RecordAnswer(1, "x"), attempt.ErrClosed)
}

func TestRevisitResumesAnswers(t *testing.T) {
	hs := harness(t, attempt.Options{})
	var loads atomic.Int32
	hs.Backend.Handle("GET /api/quiz/7", func(w http.ResponseWriter, r *http.Request) {
		loads.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 7, "quiz_name": "Chapter 1"})
	})
	hs.Backend.JSON("GET /api/quiz/7/questions", http.StatusOK, []map[string]interface{}{
		{"id": 1, "question_text": "2+2?", "question_type": "identification"},
	})

	hs.Get("/quiz-details/7")
	hs.PostJSON("/quiz-details/7/answers", map[string]interface{}{"question_id": 1, "answer": "4"})
	w := hs.Get("/quiz-details/7")
	assert.Contains(t, w.Body.String(), `name="answer_1" value="4"`)
	assert.Equal(t, int32(1), loads.Load())
}

func TestVisibilitySocketWarns(t *testing.T) {
	hs := harness(t, attempt.Options{})
	quizBackend(hs)
	hs.Get("/quiz-details/7")

	srv := httptest.NewServer(hs.Engine)
	defer srv.Close()

	header := http.Header{}
	header.Set("Cookie", hs.Cookie().String())
	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/quiz/7", header)
	require.NoError(t, err)
	defer ws.Close()

	raw, _ := json.Marshal(realtime.VisibilityData{Hidden: true})
	require.NoError(t, ws.WriteJSON(realtime.WSMessage{Event: realtime.EventVisibility, Data: raw}))

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg realtime.WSMessage
	require.NoError(t, ws.ReadJSON(&msg))
	assert.Equal(t, realtime.EventWarning, msg.Event)
	var warn realtime.WarningData
	require.NoError(t, json.Unmarshal(msg.Data, &warn))
	assert.Equal(t, attempt.MsgTabSwitch, warn.Message)

	assert.Empty(t, hs.Client().Notes.Drain(), "warning is delivered on the socket only")
	assert.Equal(t, 1, hs.Client().Attempts.Get(7).Snapshot().Switches)
}

func TestVisibilitySocketNeedsAttempt(t *testing.T) {
	hs := harness(t, attempt.Options{})

	w := hs.Get("/ws/quiz/7")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisibilityFallback(t *testing.T) {
	hs := harness(t, attempt.Options{})
	quizBackend(hs)
	hs.Get("/quiz-details/7")

	w := hs.PostJSON("/quiz-details/7/visibility", realtime.VisibilityData{Hidden: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"message":"You switched tabs! Please stay on this page."}}`, w.Body.String())

	w = hs.PostJSON("/quiz-details/7/visibility", realtime.VisibilityData{Hidden: false})
	require.Equal(t, http.StatusOK, w.Code)
	view := hs.Client().Attempts.Get(7).Snapshot()
	assert.False(t, view.Hidden)
	assert.Equal(t, 1, view.Switches)
	assert.Empty(t, hs.Client().Notes.Drain())
}
