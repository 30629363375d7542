package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"untprep-backend/internal/middleware"
	"untprep-backend/internal/models"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func authedRequest(method, target string, body []byte, userID uuid.UUID, role string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
	return req.WithContext(ctx)
}

// ─── Study Session Handler Tests ───

func TestStartSession_InvalidActivityType(t *testing.T) {
	h := NewStudySessionHandler(nil)

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"activity_type":"GAMING"}`},
		{"empty type", `{"activity_type":""}`},
		{"missing field", `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := authedRequest(http.MethodPost, "/api/v1/study-sessions/start", []byte(tc.body), uuid.New(), models.RoleStudent)
			rr := httptest.NewRecorder()

			h.Start(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
			if resp := decodeError(t, rr); resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Expected VALIDATION_ERROR, got %q", resp.Error.Code)
			}
		})
	}
}

func TestEndSession_InvalidSessionID(t *testing.T) {
	h := NewStudySessionHandler(nil)

	req := authedRequest(http.MethodPost, "/api/v1/study-sessions/end", []byte(`{"session_id":"not-a-uuid"}`), uuid.New(), models.RoleStudent)
	rr := httptest.NewRecorder()

	h.End(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

// ─── Progress Handler Tests ───

func TestGetProgress_StudentCannotReadOthers(t *testing.T) {
	h := NewProgressHandler(nil)

	otherID := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/progress?user_id="+otherID.String(), nil, uuid.New(), models.RoleStudent)
	rr := httptest.NewRecorder()

	h.Get(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Error.Code != "FORBIDDEN" {
		t.Errorf("Expected FORBIDDEN, got %q", resp.Error.Code)
	}
}

// ─── Test Handler Tests ───

func TestSubmitAttempt_InvalidTestID(t *testing.T) {
	h := NewTestHandler(nil, nil)

	body := `{"test_id":"nope","answers":{},"time_spent":60}`
	req := authedRequest(http.MethodPost, "/api/v1/test-attempts", []byte(body), uuid.New(), models.RoleStudent)
	rr := httptest.NewRecorder()

	h.SubmitAttempt(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

func TestSubmitAttempt_NegativeTimeSpent(t *testing.T) {
	h := NewTestHandler(nil, nil)

	body := `{"test_id":"` + uuid.NewString() + `","answers":{},"time_spent":-5}`
	req := authedRequest(http.MethodPost, "/api/v1/test-attempts", []byte(body), uuid.New(), models.RoleStudent)
	rr := httptest.NewRecorder()

	h.SubmitAttempt(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
}

// ─── Tutor Handler Tests ───

func TestTutorAsk_EmptyMessage(t *testing.T) {
	h := NewTutorHandler(nil, nil)

	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message":""}`},
		{"whitespace only", `{"message":"   "}`},
		{"missing field", `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := authedRequest(http.MethodPost, "/api/v1/ai-tutor", []byte(tc.body), uuid.New(), models.RoleStudent)
			rr := httptest.NewRecorder()

			h.Ask(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestSnippetTitleKeepsRunesIntact(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"short stays whole", "Как решать квадратные уравнения?", "Как решать квадратные уравнения?"},
		{"trims whitespace", "  hello  ", "hello"},
		{"long ascii cut at 50", strings.Repeat("a", 60), strings.Repeat("a", 50)},
		{"long kazakh cut at 50 runes", "s" + strings.Repeat("ә", 60), "s" + strings.Repeat("ә", 49)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := snippetTitle(tc.content)
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Title is not valid UTF-8: %q", got)
			}
		})
	}
}

func TestTruncateRunesCyrillic(t *testing.T) {
	long := strings.Repeat("ү", 250)

	got := truncateRunes(long, 200)
	if !utf8.ValidString(got) {
		t.Fatalf("Expected valid UTF-8 after truncation, got %q", got)
	}
	if utf8.RuneCountInString(got) != 200 {
		t.Fatalf("Expected 200 runes, got %d", utf8.RuneCountInString(got))
	}
}

// ─── Lesson Handler Tests ───

func TestCreateLesson_Validation(t *testing.T) {
	h := NewLessonHandler(nil)

	body := `{"title":"","subject":"CHEMISTRY","content":""}`
	req := authedRequest(http.MethodPost, "/api/v1/lessons", []byte(body), uuid.New(), models.RoleTeacher)
	rr := httptest.NewRecorder()

	h.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}

	resp := decodeError(t, rr)
	for _, field := range []string{"title", "subject", "content"} {
		if _, ok := resp.Error.Fields[field]; !ok {
			t.Errorf("Expected field error for %q", field)
		}
	}
}
