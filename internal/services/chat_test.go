package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"langtouch/internal/ai"
	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestTagTurns(t *testing.T) {
	human := uuid.New()
	bot := uuid.New()

	makeMessages := func(senders ...uuid.UUID) []models.Message {
		out := make([]models.Message, len(senders))
		for i, s := range senders {
			out[i] = models.Message{SenderID: s, Body: "m" + string(rune('0'+i))}
		}
		return out
	}

	t.Run("roles follow sender", func(t *testing.T) {
		turns := TagTurns(makeMessages(human, bot, human), human, 5)
		want := []string{"user", "assistant", "user"}
		if len(turns) != len(want) {
			t.Fatalf("got %d turns, want %d", len(turns), len(want))
		}
		for i, role := range want {
			if turns[i].Role != role {
				t.Errorf("turn %d role = %q, want %q", i, turns[i].Role, role)
			}
		}
	})

	t.Run("window keeps trailing messages", func(t *testing.T) {
		messages := makeMessages(human, bot, human, bot, human, bot, human)
		turns := TagTurns(messages, human, 5)
		if len(turns) != 5 {
			t.Fatalf("got %d turns, want 5", len(turns))
		}
		// The oldest two messages fall outside the window
		if turns[0].Content != messages[2].Body {
			t.Errorf("first kept turn = %q, want %q", turns[0].Content, messages[2].Body)
		}
		if turns[4].Content != messages[6].Body {
			t.Errorf("last kept turn = %q, want %q", turns[4].Content, messages[6].Body)
		}
	})

	t.Run("short history kept whole", func(t *testing.T) {
		turns := TagTurns(makeMessages(human, bot), human, 5)
		if len(turns) != 2 {
			t.Fatalf("got %d turns, want 2", len(turns))
		}
	})

	t.Run("empty history", func(t *testing.T) {
		if turns := TagTurns(nil, human, 5); len(turns) != 0 {
			t.Errorf("got %d turns, want 0", len(turns))
		}
	})
}

func TestFallbackReply(t *testing.T) {
	reply := FallbackReply(errors.New("connection refused"))

	if !strings.HasPrefix(reply, "AI Assistant is currently unavailable.") {
		t.Errorf("unexpected fallback prefix: %q", reply)
	}
	if !strings.Contains(reply, "connection refused") {
		t.Errorf("fallback does not carry the reason: %q", reply)
	}
}

func TestFallbackReplyCapsReason(t *testing.T) {
	long := strings.Repeat("x", 500)
	reply := FallbackReply(errors.New(long))

	if strings.Contains(reply, strings.Repeat("x", 201)) {
		t.Error("reason was not capped at 200 characters")
	}
	if !strings.Contains(reply, strings.Repeat("x", 200)) {
		t.Error("capped reason should keep the first 200 characters")
	}
}

type fakeConversationStore struct {
	conversations map[uuid.UUID]*models.Conversation
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{conversations: make(map[uuid.UUID]*models.Conversation)}
}

func (f *fakeConversationStore) GetOrCreate(a, b uuid.UUID) (*models.Conversation, bool, error) {
	p1, p2 := models.CanonicalPair(a, b)
	for _, c := range f.conversations {
		if c.Participant1ID == p1 && c.Participant2ID == p2 {
			return c, false, nil
		}
	}
	c := &models.Conversation{Participant1ID: p1, Participant2ID: p2}
	c.ID = uuid.New()
	f.conversations[c.ID] = c
	return c, true, nil
}

func (f *fakeConversationStore) GetForUser(id, userID uuid.UUID) (*models.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok || !c.Includes(userID) {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeConversationStore) ListByUser(userID uuid.UUID) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.Includes(userID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeMessageStore struct {
	conversations *fakeConversationStore
	messages      []models.Message
}

// Append mirrors the repository contract: the insert and the parent
// conversation's last_message_at move together.
func (f *fakeMessageStore) Append(m *models.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	f.messages = append(f.messages, *m)
	if c, ok := f.conversations.conversations[m.ConversationID]; ok {
		sentAt := m.SentAt
		c.LastMessageAt = &sentAt
	}
	return nil
}

func (f *fakeMessageStore) ListByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) ListBySender(senderID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.messages {
		if m.SenderID == senderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) MarkRead(conversationID, readerID uuid.UUID) error {
	for i := range f.messages {
		if f.messages[i].ConversationID == conversationID && f.messages[i].SenderID != readerID {
			f.messages[i].IsRead = true
		}
	}
	return nil
}

type fakeUserDirectory struct {
	users      map[string]*models.User
	botCreates int
}

func (f *fakeUserDirectory) addUser(username string) *models.User {
	u := &models.User{Username: username, Email: username + "@test.local", IsActive: true}
	u.ID = uuid.New()
	f.users[username] = u
	return u
}

func (f *fakeUserDirectory) GetByUsername(username string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserDirectory) GetOrCreateBot(username, email, passwordHash string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	f.botCreates++
	u := &models.User{Username: username, Email: email, Password: passwordHash, IsActive: true, IsBot: true}
	u.ID = uuid.New()
	f.users[username] = u
	return u, nil
}

type scriptedResponder struct {
	reply string
	err   error
}

func (r *scriptedResponder) Reply(ctx context.Context, message string, history []models.ChatTurn) (string, error) {
	return r.reply, r.err
}

func (r *scriptedResponder) Stream(ctx context.Context, message string, history []models.ChatTurn) <-chan ai.Fragment {
	out := make(chan ai.Fragment, 1)
	if r.err != nil {
		out <- ai.Fragment{Err: r.err}
	} else {
		out <- ai.Fragment{Text: r.reply}
	}
	close(out)
	return out
}

func newChatFixture(reply string) (*ChatService, *fakeConversationStore, *fakeMessageStore, *fakeUserDirectory) {
	convs := newFakeConversationStore()
	msgs := &fakeMessageStore{conversations: convs}
	dir := &fakeUserDirectory{users: make(map[string]*models.User)}
	svc := NewChatService(convs, msgs, dir, &scriptedResponder{reply: reply})
	return svc, convs, msgs, dir
}

func TestAIConversationPostAppendsTwoMessages(t *testing.T) {
	svc, convs, msgs, dir := newChatFixture("Karibu!")
	human := dir.addUser("amina")

	conversation, err := svc.StartAIConversation(context.Background(), human.ID)
	if err != nil {
		t.Fatalf("StartAIConversation: %v", err)
	}
	welcomeCount := len(msgs.messages)

	out, err := svc.SendToConversation(context.Background(), human.ID, conversation.ID, "Hello")
	if err != nil {
		t.Fatalf("SendToConversation: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("send returned %d messages, want 2", len(out))
	}
	if len(msgs.messages) != welcomeCount+2 {
		t.Errorf("store grew by %d messages, want 2", len(msgs.messages)-welcomeCount)
	}

	bot := dir.users[BotUsername]
	if out[0].SenderID != human.ID || out[0].Body != "Hello" {
		t.Errorf("first appended message is not the sender's: %+v", out[0])
	}
	if out[1].SenderID != bot.ID || out[1].Body != "Karibu!" {
		t.Errorf("second appended message is not the bot reply: %+v", out[1])
	}

	// The conversation's activity marker tracks the newest message
	stored := convs.conversations[conversation.ID]
	last := msgs.messages[len(msgs.messages)-1]
	if stored.LastMessageAt == nil || !stored.LastMessageAt.Equal(last.SentAt) {
		t.Errorf("last_message_at = %v, want %v", stored.LastMessageAt, last.SentAt)
	}
}

func TestHumanMessageDoesNotCreateBot(t *testing.T) {
	svc, _, _, dir := newChatFixture("unused")
	alice := dir.addUser("alice")
	dir.addUser("bob")

	out, err := svc.SendToUsername(context.Background(), alice.ID, "bob", "hi")
	if err != nil {
		t.Fatalf("SendToUsername: %v", err)
	}

	if len(out) != 1 {
		t.Errorf("send returned %d messages, want 1", len(out))
	}
	if dir.botCreates != 0 {
		t.Errorf("bot account created %d times during a human exchange", dir.botCreates)
	}
	if _, ok := dir.users[BotUsername]; ok {
		t.Error("bot user present after a human exchange")
	}
}

func TestFallbackReplyKeepsRuneBoundary(t *testing.T) {
	reply := FallbackReply(errors.New(strings.Repeat("é", 300)))

	if !utf8.ValidString(reply) {
		t.Error("fallback contains an invalid UTF-8 sequence")
	}
	if !strings.Contains(reply, strings.Repeat("é", 200)) {
		t.Error("capped reason should keep the first 200 runes")
	}
	if strings.Contains(reply, strings.Repeat("é", 201)) {
		t.Error("reason was not capped at 200 runes")
	}
}
