package forum

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func seedUser(t *testing.T, store *MemoryStore, username string) *User {
	t.Helper()
	u := NewUser(username)
	if err := u.SetPassword("secret1"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u
}

func TestMemoryStoreUsers(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alice := seedUser(t, store, "alice")

	got, err := store.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got.ID != alice.ID {
		t.Errorf("expected id %q, got %q", alice.ID, got.ID)
	}

	got, err = store.GetUserByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("expected username alice, got %q", got.Username)
	}

	if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUserByID(ctx, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDuplicateUsername(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seedUser(t, store, "alice")

	dup := NewUser("alice")
	err := store.CreateUser(ctx, dup)
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if len(store.users) != 1 {
		t.Errorf("expected 1 user after duplicate insert, got %d", len(store.users))
	}
}

func TestMemoryStoreTopics(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alice := seedUser(t, store, "alice")

	first := &Topic{ID: uuid.New().String(), Title: "First", Content: "one", OwnerID: alice.ID}
	second := &Topic{ID: uuid.New().String(), Title: "Second", Content: "two", OwnerID: alice.ID}
	if err := store.CreateTopic(ctx, first); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	if err := store.CreateTopic(ctx, second); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	topics, err := store.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	// insertion order
	if topics[0].Title != "First" || topics[1].Title != "Second" {
		t.Errorf("unexpected order: %q, %q", topics[0].Title, topics[1].Title)
	}
	if topics[0].Author != "alice" {
		t.Errorf("expected author alice, got %q", topics[0].Author)
	}

	got, err := store.GetTopic(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetTopic: %v", err)
	}
	if got.Author != "alice" || got.OwnerID != alice.ID {
		t.Errorf("unexpected topic %+v", got)
	}

	if _, err := store.GetTopic(ctx, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUpdateTopic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	topic := &Topic{ID: uuid.New().String(), Title: "Hello", Content: "World", OwnerID: alice.ID}
	if err := store.CreateTopic(ctx, topic); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	if err := store.UpdateTopic(ctx, topic.ID, "Hello2", "World2"); err != nil {
		t.Fatalf("UpdateTopic: %v", err)
	}
	got, err := store.GetTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("GetTopic: %v", err)
	}
	if got.Title != "Hello2" || got.Content != "World2" {
		t.Errorf("update not applied: %+v", got)
	}
	if got.OwnerID != alice.ID {
		t.Errorf("owner changed: %q", got.OwnerID)
	}

	if err := store.UpdateTopic(ctx, uuid.New().String(), "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreReplies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alice := seedUser(t, store, "alice")
	topic := &Topic{ID: uuid.New().String(), Title: "Hello", Content: "World", OwnerID: alice.ID}
	if err := store.CreateTopic(ctx, topic); err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	reply := &Reply{TopicID: topic.ID, OwnerID: alice.ID, Content: "me too"}
	if err := store.CreateReply(ctx, reply); err != nil {
		t.Fatalf("CreateReply: %v", err)
	}
	if reply.ID == 0 {
		t.Error("expected an assigned reply id")
	}

	replies, err := store.ListReplies(ctx, topic.ID)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies) != 1 || replies[0].Content != "me too" || replies[0].Author != "alice" {
		t.Errorf("unexpected replies: %+v", replies)
	}

	// replying to a topic that does not exist creates no row
	orphan := &Reply{TopicID: uuid.New().String(), OwnerID: alice.ID, Content: "lost"}
	if err := store.CreateReply(ctx, orphan); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(store.replies) != 1 {
		t.Errorf("expected 1 reply row, got %d", len(store.replies))
	}
}
