package forum

import "context"

// Store is the persistence port for the forum. Two implementations exist:
// PostgresStore for real deployments and MemoryStore for development and
// tests.
//
// Lookups return ErrNotFound when the record does not exist. CreateUser
// returns ErrDuplicateUsername on a username collision; the uniqueness
// check lives in the store so two concurrent registrations cannot both
// succeed. CreateReply returns ErrNotFound when the target topic is gone.
type Store interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)

	CreateTopic(ctx context.Context, topic *Topic) error
	GetTopic(ctx context.Context, id string) (*Topic, error)
	ListTopics(ctx context.Context) ([]Topic, error)
	UpdateTopic(ctx context.Context, id, title, content string) error

	CreateReply(ctx context.Context, reply *Reply) error
	ListReplies(ctx context.Context, topicID string) ([]Reply, error)
}
