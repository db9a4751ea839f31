// forum/memory.go
package forum

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with mutex-guarded slices and maps. It
// honors the same contract as PostgresStore, including ErrNotFound and
// ErrDuplicateUsername.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]*User // keyed by id
	topics  []*Topic
	replies []*Reply
	replyID int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*User),
	}
}

// --- User Functions ---

func (s *MemoryStore) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// --- Topic Functions ---

func (s *MemoryStore) CreateTopic(ctx context.Context, topic *Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	topic.CreatedAt = now
	topic.UpdatedAt = now
	cp := *topic
	s.topics = append(s.topics, &cp)
	return nil
}

func (s *MemoryStore) GetTopic(ctx context.Context, id string) (*Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.topics {
		if t.ID == id {
			cp := *t
			cp.Author = s.usernameLocked(t.OwnerID)
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// ListTopics returns topics in insertion order.
func (s *MemoryStore) ListTopics(ctx context.Context) ([]Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	topics := make([]Topic, 0, len(s.topics))
	for _, t := range s.topics {
		cp := *t
		cp.Author = s.usernameLocked(t.OwnerID)
		topics = append(topics, cp)
	}
	return topics, nil
}

func (s *MemoryStore) UpdateTopic(ctx context.Context, id, title, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.topics {
		if t.ID == id {
			t.Title = title
			t.Content = content
			t.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

// --- Reply Functions ---

func (s *MemoryStore) CreateReply(ctx context.Context, reply *Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, t := range s.topics {
		if t.ID == reply.TopicID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	s.replyID++
	reply.ID = s.replyID
	reply.CreatedAt = time.Now().UTC()
	cp := *reply
	s.replies = append(s.replies, &cp)
	return nil
}

func (s *MemoryStore) ListReplies(ctx context.Context, topicID string) ([]Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var replies []Reply
	for _, r := range s.replies {
		if r.TopicID == topicID {
			cp := *r
			cp.Author = s.usernameLocked(r.OwnerID)
			replies = append(replies, cp)
		}
	}
	return replies, nil
}

// usernameLocked resolves an owner id to a username; callers hold s.mu.
func (s *MemoryStore) usernameLocked(ownerID string) string {
	if u, ok := s.users[ownerID]; ok {
		return u.Username
	}
	return ""
}
