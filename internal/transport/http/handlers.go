package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"classroom-quiz-service/internal/app"
	"classroom-quiz-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Handler serves the quiz REST API.
type Handler struct {
	service  *app.QuizService
	validate *validator.Validate
}

func NewHandler(service *app.QuizService) *Handler {
	return &Handler{service: service, validate: validator.New()}
}

type signInRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type startSessionRequest struct {
	Token   string          `json:"token"`
	EndTime json.RawMessage `json:"endTime"`
}

type submitRequest struct {
	Token   string         `json:"token"`
	Answers map[string]any `json:"answers" validate:"required"`
}

type markOpenAnswerRequest struct {
	Token        string `json:"token"`
	StudentName  string `json:"studentName" validate:"required"`
	QuestionID   string `json:"questionId" validate:"required_without=QuestionText"`
	QuestionText string `json:"questionText"`
	IsCorrect    *bool  `json:"isCorrect" validate:"required"`
}

// decode parses and validates a JSON body.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", domain.ErrValidation)
	}
	if err := h.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.service.SignIn(r.Context(), req.FirstName, req.LastName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": user.ID, "role": user.Role})
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token := firstNonEmpty(requestToken(r), req.Token)
	if token == "" {
		writeError(w, r, fmt.Errorf("%w: token is required", domain.ErrValidation))
		return
	}
	endTime, err := parseEndTime(req.EndTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	session, err := h.service.StartSession(r.Context(), token, endTime)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": session.ID,
		"startTime": session.StartTime,
		"endTime":   session.EndTime,
	})
}

// parseEndTime accepts an integer or a numeric string. Absent or null means "use the default".
func parseEndTime(raw json.RawMessage) (*int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: endTime must be an integer timestamp in milliseconds", domain.ErrValidation)
	}
	return &v, nil
}

func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"testStarted":     status.Open,
		"remainingTimeMs": status.RemainingMs,
	})
}

func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	remaining, questions, err := h.service.Questions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"remainingTimeMs": remaining,
		"questions":       questions,
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	token := firstNonEmpty(requestToken(r), req.Token)
	submission, err := h.service.Submit(r.Context(), token, normaliseAnswers(req.Answers))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"score":     submission.Score,
		"totalMCQs": submission.TotalMCQs,
	})
}

// normaliseAnswers turns raw JSON answer values into strings.
func normaliseAnswers(raw map[string]any) domain.Answers {
	if raw == nil {
		return nil
	}
	answers := make(domain.Answers, len(raw))
	for id, v := range raw {
		switch val := v.(type) {
		case nil:
			answers[id] = ""
		case string:
			answers[id] = val
		case float64:
			answers[id] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			answers[id] = strconv.FormatBool(val)
		default:
			b, _ := json.Marshal(val)
			answers[id] = string(b)
		}
	}
	return answers
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context(), requestToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *Handler) CheckSubmitted(w http.ResponseWriter, r *http.Request) {
	submitted, err := h.service.CheckSubmitted(r.Context(), requestToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"submitted": submitted})
}

func (h *Handler) TeacherResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.TeacherResults(r.Context(), requestToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) OpenQuestions(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.service.OpenAnswers(r.Context(), requestToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"openQuestions": sheets})
}

func (h *Handler) MarkOpenAnswer(w http.ResponseWriter, r *http.Request) {
	var req markOpenAnswerRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.service.MarkOpenAnswer(r.Context(), firstNonEmpty(requestToken(r), req.Token), app.MarkRequest{
		StudentName:  req.StudentName,
		QuestionID:   req.QuestionID,
		QuestionText: req.QuestionText,
		IsCorrect:    *req.IsCorrect,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.SessionHistory(r.Context(), requestToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}
