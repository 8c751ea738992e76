package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"langtouch/internal/ai"
	"langtouch/internal/services"
	"langtouch/pkg/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type stubResponder struct {
	reply string
	err   error
}

func (s *stubResponder) Reply(ctx context.Context, message string, history []models.ChatTurn) (string, error) {
	return s.reply, s.err
}

func (s *stubResponder) Stream(ctx context.Context, message string, history []models.ChatTurn) <-chan ai.Fragment {
	out := make(chan ai.Fragment, 1)
	if s.err != nil {
		out <- ai.Fragment{Err: s.err}
	} else {
		out <- ai.Fragment{Text: s.reply}
	}
	close(out)
	return out
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func newAIChatContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAIChatSuccess(t *testing.T) {
	e := newTestEcho()
	chatService := services.NewChatService(nil, nil, nil, &stubResponder{reply: "Habari!"})
	h := NewMessagingHandler(chatService)

	c, rec := newAIChatContext(e, `{"message":"Hello"}`)
	if err := h.AIChat(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "Habari!") {
		t.Errorf("body %q does not contain the reply", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"status":"success"`) {
		t.Errorf("body %q does not report success", rec.Body.String())
	}
}

func TestAIChatEmptyMessage(t *testing.T) {
	e := newTestEcho()
	chatService := services.NewChatService(nil, nil, nil, &stubResponder{reply: "unused"})
	h := NewMessagingHandler(chatService)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty message", body: `{"message":""}`},
		{name: "missing field", body: `{}`},
		{name: "malformed json", body: `{bad`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAIChatContext(e, tt.body)
			if err := h.AIChat(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if !strings.Contains(rec.Body.String(), "error") {
				t.Errorf("body %q has no error field", rec.Body.String())
			}
		})
	}
}

func TestAIChatBackendFailure(t *testing.T) {
	e := newTestEcho()
	chatService := services.NewChatService(nil, nil, nil, &stubResponder{err: errors.New("upstream timeout")})
	h := NewMessagingHandler(chatService)

	c, rec := newAIChatContext(e, `{"message":"Hello"}`)
	if err := h.AIChat(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("body %q has no error field", rec.Body.String())
	}
}

func TestAIChatNotConfigured(t *testing.T) {
	e := newTestEcho()
	chatService := services.NewChatService(nil, nil, nil, nil)
	h := NewMessagingHandler(chatService)

	c, rec := newAIChatContext(e, `{"message":"Hello"}`)
	if err := h.AIChat(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
