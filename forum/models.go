// forum/models.go
package forum

import (
	"time"
)

// Identifiable is implemented by anything that can act as a session
// identity. Handlers compare Identity() against Topic.OwnerID to decide
// whether a mutation is allowed.
type Identifiable interface {
	Identity() string
}

// Topic is a discussion thread. OwnerID is set at creation and never
// changes; only title and content are mutable, and only by the owner.
type Topic struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	// Author is the owner's username, filled in by list/get queries.
	Author string `json:"author" db:"author"`
}

// Reply is a response attached to a topic. Replies are immutable once
// created.
type Reply struct {
	ID        int64     `json:"id" db:"id"`
	TopicID   string    `json:"topic_id" db:"topic_id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Author    string    `json:"author" db:"author"`
}
