package domain_test

import (
	"testing"

	"sotto/internal/domain"
)

func TestConversationIDFor_Symmetric(t *testing.T) {
	pairs := [][2]domain.UserID{
		{"alice", "bob"},
		{"bob", "alice"},
		{"zed", "aardvark"},
		{"same", "same"},
		{"", "x"},
	}
	for _, p := range pairs {
		ab := domain.ConversationIDFor(p[0], p[1])
		ba := domain.ConversationIDFor(p[1], p[0])
		if ab != ba {
			t.Fatalf("ConversationIDFor(%q,%q)=%q but reversed=%q", p[0], p[1], ab, ba)
		}
	}
}

func TestConversationIDFor_DistinctPairsDiffer(t *testing.T) {
	a := domain.ConversationIDFor("alice", "bob")
	b := domain.ConversationIDFor("alice", "carol")
	if a == b {
		t.Fatalf("distinct pairs share id %q", a)
	}
}

func TestConversationIDFor_SeparatorInUserID(t *testing.T) {
	// ("a#b","c") and ("a","b#c") concatenate to the same bytes; the length
	// prefix must keep their conversations apart.
	a := domain.ConversationIDFor("a#b", "c")
	b := domain.ConversationIDFor("a", "b#c")
	if a == b {
		t.Fatalf("distinct pairs share id %q", a)
	}
}
