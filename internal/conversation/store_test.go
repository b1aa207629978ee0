package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore_AppendCreatesSession(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	s, err := store.Append(ctx, "s1",
		Message{Role: RoleUser, Content: "Find me a margarita"},
		Message{Role: RoleAssistant, Content: "Here is a classic margarita..."},
	)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	if s.ID != "s1" || len(s.Messages) != 2 {
		t.Errorf("unexpected session: %+v", s)
	}
	if s.CreatedAt.IsZero() || s.UpdatedAt.Before(s.CreatedAt) {
		t.Errorf("timestamps not set: created=%v updated=%v", s.CreatedAt, s.UpdatedAt)
	}

	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Messages[0].Content != "Find me a margarita" {
		t.Errorf("unexpected first message: %q", got.Messages[0].Content)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, _ = store.Append(ctx, "s1", Message{Role: RoleUser, Content: "hi"})

	got, _ := store.Get(ctx, "s1")
	got.Messages[0].Content = "mutated"

	again, _ := store.Get(ctx, "s1")
	if again.Messages[0].Content != "hi" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestMemoryStore_BoundsHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < maxStoredMessages+20; i++ {
		_, _ = store.Append(ctx, "s1", Message{Role: RoleUser, Content: fmt.Sprintf("msg %d", i)})
	}

	s, _ := store.Get(ctx, "s1")
	if len(s.Messages) != maxStoredMessages {
		t.Fatalf("expected %d messages, got %d", maxStoredMessages, len(s.Messages))
	}
	if s.Messages[0].Content != "msg 20" {
		t.Errorf("oldest kept message = %q, want msg 20", s.Messages[0].Content)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, _ = store.Append(ctx, "s1", Message{Role: RoleUser, Content: "hi"})

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if err := store.Delete(ctx, "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete() = %v, want ErrSessionNotFound", err)
	}
}

func TestMemoryStore_ConcurrentAppend(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = store.Append(ctx, "shared", Message{Role: RoleUser, Content: fmt.Sprintf("%d", i)})
		}(i)
	}
	wg.Wait()

	s, _ := store.Get(ctx, "shared")
	if len(s.Messages) != 50 {
		t.Errorf("expected 50 messages, got %d", len(s.Messages))
	}
}

func TestSession_Recent(t *testing.T) {
	s := &Session{Messages: []Message{{Content: "1"}, {Content: "2"}, {Content: "3"}}}

	tests := []struct {
		n     int
		first string
		count int
	}{
		{0, "1", 3},
		{2, "2", 2},
		{10, "1", 3},
	}

	for _, tt := range tests {
		got := s.Recent(tt.n)
		if len(got) != tt.count || got[0].Content != tt.first {
			t.Errorf("Recent(%d) = %v", tt.n, got)
		}
	}
}
