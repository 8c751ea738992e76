package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"langtouch/pkg/models"

	"github.com/sashabaranov/go-openai"
)

func TestNewResponderRequiresKey(t *testing.T) {
	if _, err := NewResponder(""); err == nil {
		t.Error("expected error for empty API key")
	}
	if _, err := NewResponder("sk-test"); err != nil {
		t.Errorf("unexpected error for non-empty key: %v", err)
	}
}

func TestBuildMessages(t *testing.T) {
	history := []models.ChatTurn{
		{Role: "user", Content: "Hello"},
		{Role: "assistant", Content: "Hi, how can I help?"},
	}

	messages := buildMessages("Translate this", history)

	if len(messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(messages))
	}
	if messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q, want system", messages[0].Role)
	}
	if messages[1].Role != openai.ChatMessageRoleUser || messages[1].Content != "Hello" {
		t.Errorf("unexpected first history message: %+v", messages[1])
	}
	if messages[2].Role != openai.ChatMessageRoleAssistant {
		t.Errorf("second history message role = %q, want assistant", messages[2].Role)
	}
	last := messages[len(messages)-1]
	if last.Role != openai.ChatMessageRoleUser || last.Content != "Translate this" {
		t.Errorf("unexpected final message: %+v", last)
	}
}

func TestBuildMessagesNoHistory(t *testing.T) {
	messages := buildMessages("Hello", nil)

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q, want system", messages[0].Role)
	}
	if messages[1].Role != openai.ChatMessageRoleUser {
		t.Errorf("second message role = %q, want user", messages[1].Role)
	}
}

func TestBuildMessagesUnknownRoleDefaultsToAssistant(t *testing.T) {
	history := []models.ChatTurn{{Role: "bot", Content: "legacy"}}

	messages := buildMessages("next", history)
	if messages[1].Role != openai.ChatMessageRoleAssistant {
		t.Errorf("unknown role mapped to %q, want assistant", messages[1].Role)
	}
}

// chunkServer streams completion chunks slowly enough that an abandoning
// consumer leaves most of them unread.
func chunkServer(t *testing.T, chunks int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for i := 0; i < chunks; i++ {
			fmt.Fprintf(w, "data: %s\n\n",
				`{"id":"1","object":"chat.completion.chunk","choices":[{"index":0,"delta":{"content":"x"}}]}`)
			flusher.Flush()
			time.Sleep(time.Millisecond)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestResponder(baseURL string) *Responder {
	config := openai.DefaultConfig("test-key")
	config.BaseURL = baseURL + "/v1"
	return &Responder{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT4oMini,
	}
}

func TestStreamReleasesGoroutineWhenAbandoned(t *testing.T) {
	srv := chunkServer(t, 50)
	r := newTestResponder(srv.URL)

	before := runtime.NumGoroutine()

	ctx, cancel := context.WithCancel(context.Background())
	fragments := r.Stream(ctx, "hello", nil)

	if _, ok := <-fragments; !ok {
		cancel()
		t.Fatal("stream closed before delivering any fragment")
	}

	// Abandon the channel without draining; cancellation must unblock the
	// producer's pending send.
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runtime.NumGoroutine() <= before {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("stream goroutine still running: %d goroutines, started with %d",
		runtime.NumGoroutine(), before)
}

func TestStreamClosesAfterCancellation(t *testing.T) {
	srv := chunkServer(t, 50)
	r := newTestResponder(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	fragments := r.Stream(ctx, "hello", nil)

	<-fragments
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-fragments:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("fragment channel not closed after cancellation")
		}
	}
}
