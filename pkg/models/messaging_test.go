package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanonicalPair(t *testing.T) {
	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	mid := uuid.MustParse("80000000-0000-0000-0000-000000000000")

	tests := []struct {
		name  string
		a, b  uuid.UUID
		want1 uuid.UUID
		want2 uuid.UUID
	}{
		{name: "already ordered", a: low, b: high, want1: low, want2: high},
		{name: "reversed", a: high, b: low, want1: low, want2: high},
		{name: "mid and low", a: mid, b: low, want1: low, want2: mid},
		{name: "equal ids", a: mid, b: mid, want1: mid, want2: mid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got1, got2 := CanonicalPair(tt.a, tt.b)
			if got1 != tt.want1 || got2 != tt.want2 {
				t.Errorf("CanonicalPair(%s, %s) = (%s, %s), want (%s, %s)",
					tt.a, tt.b, got1, got2, tt.want1, tt.want2)
			}
		})
	}
}

func TestCanonicalPairCommutative(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	a1, a2 := CanonicalPair(a, b)
	b1, b2 := CanonicalPair(b, a)
	if a1 != b1 || a2 != b2 {
		t.Errorf("CanonicalPair is not order-independent: (%s, %s) vs (%s, %s)", a1, a2, b1, b2)
	}
}

func TestConversationIncludes(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	other := uuid.New()

	conv := Conversation{Participant1ID: a, Participant2ID: b}

	if !conv.Includes(a) || !conv.Includes(b) {
		t.Error("expected both participants to be included")
	}
	if conv.Includes(other) {
		t.Error("expected non-participant to be excluded")
	}
}

func TestConversationOtherParticipant(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	conv := Conversation{Participant1ID: a, Participant2ID: b}

	if got := conv.OtherParticipant(a); got != b {
		t.Errorf("OtherParticipant(%s) = %s, want %s", a, got, b)
	}
	if got := conv.OtherParticipant(b); got != a {
		t.Errorf("OtherParticipant(%s) = %s, want %s", b, got, a)
	}
}
