package ai

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"

	"langtouch/pkg/models"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are LangTouch AI Assistant. You help with translation, language learning, " +
	"grammar explanations, and cultural context in a professional and friendly tone."

// Fragment is one piece of a streamed reply. A stream that fails mid-way
// delivers a single final fragment carrying Err and then ends.
type Fragment struct {
	Text string
	Err  error
}

// Responder wraps the chat-completion API behind a uniform request/response
// interface. Failures are returned as errors, never panics; the caller
// decides the degraded reply text.
type Responder struct {
	client *openai.Client
	model  string
}

// NewResponder creates a responder. A missing API key is a construction-time
// error so callers can degrade instead of failing requests later.
func NewResponder(apiKey string) (*Responder, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: false,
			},
		},
	}

	config := openai.DefaultConfig(apiKey)
	config.HTTPClient = httpClient

	return &Responder{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT4oMini,
	}, nil
}

// buildMessages synthesizes the prompt: fixed system instruction, the
// role-tagged prior turns, then the current user message.
func buildMessages(message string, history []models.ChatTurn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for _, turn := range history {
		role := openai.ChatMessageRoleAssistant
		if turn.Role == "user" {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
	return messages
}

// Reply issues one blocking completion call and returns the generated text
func (r *Responder) Reply(ctx context.Context, message string, history []models.ChatTurn) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:               r.model,
		Messages:            buildMessages(message, history),
		Temperature:         0.7,
		MaxCompletionTokens: 512,
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("AI completion call failed")
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// Stream produces a finite, non-restartable sequence of reply fragments. Any
// mid-stream failure yields one final error fragment instead of raising.
// Cancelling the context releases the producer even when the consumer stops
// draining the channel.
func (r *Responder) Stream(ctx context.Context, message string, history []models.ChatTurn) <-chan Fragment {
	out := make(chan Fragment)

	send := func(f Fragment) bool {
		select {
		case out <- f:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)

		req := openai.ChatCompletionRequest{
			Model:               r.model,
			Messages:            buildMessages(message, history),
			Temperature:         0.7,
			MaxCompletionTokens: 512,
			Stream:              true,
		}

		stream, err := r.client.CreateChatCompletionStream(ctx, req)
		if err != nil {
			log.Error().Err(err).Msg("AI stream open failed")
			send(Fragment{Err: err})
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				log.Error().Err(err).Msg("AI stream receive failed")
				send(Fragment{Err: err})
				return
			}
			if len(resp.Choices) > 0 && resp.Choices[0].Delta.Content != "" {
				if !send(Fragment{Text: resp.Choices[0].Delta.Content}) {
					return
				}
			}
		}
	}()

	return out
}
