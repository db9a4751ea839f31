// forum/postgres.go
package forum

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS topics (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    owner_id UUID NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS replies (
    id BIGSERIAL PRIMARY KEY,
    topic_id UUID NOT NULL REFERENCES topics(id),
    owner_id UUID NOT NULL REFERENCES users(id),
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_replies_on_topic_id ON replies(topic_id);
`

// Postgres error codes we translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// CreateTables applies the schema. Safe to run on every boot.
func (s *PostgresStore) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func pgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// --- User Functions ---

func (s *PostgresStore) CreateUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	_, err := s.pool.Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if pgErrCode(err, pgUniqueViolation) {
		return ErrDuplicateUsername
	}
	return err
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	row := s.pool.QueryRow(ctx, query, username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	query := `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`
	row := s.pool.QueryRow(ctx, query, id)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Topic Functions ---

func (s *PostgresStore) CreateTopic(ctx context.Context, topic *Topic) error {
	query := `INSERT INTO topics (id, title, content, owner_id) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`
	return s.pool.QueryRow(ctx, query, topic.ID, topic.Title, topic.Content, topic.OwnerID).
		Scan(&topic.CreatedAt, &topic.UpdatedAt)
}

func (s *PostgresStore) GetTopic(ctx context.Context, id string) (*Topic, error) {
	var topic Topic
	query := `
        SELECT t.id, t.title, t.content, t.owner_id, t.created_at, t.updated_at, u.username
        FROM topics t JOIN users u ON u.id = t.owner_id
        WHERE t.id = $1`
	row := s.pool.QueryRow(ctx, query, id)
	err := row.Scan(&topic.ID, &topic.Title, &topic.Content, &topic.OwnerID,
		&topic.CreatedAt, &topic.UpdatedAt, &topic.Author)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

// ListTopics returns every topic in insertion order.
func (s *PostgresStore) ListTopics(ctx context.Context) ([]Topic, error) {
	query := `
        SELECT t.id, t.title, t.content, t.owner_id, t.created_at, t.updated_at, u.username
        FROM topics t JOIN users u ON u.id = t.owner_id
        ORDER BY t.created_at ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var topics []Topic
	for rows.Next() {
		var topic Topic
		if err := rows.Scan(&topic.ID, &topic.Title, &topic.Content, &topic.OwnerID,
			&topic.CreatedAt, &topic.UpdatedAt, &topic.Author); err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// UpdateTopic rewrites title and content in place. The owner column is
// deliberately not part of the statement.
func (s *PostgresStore) UpdateTopic(ctx context.Context, id, title, content string) error {
	query := `UPDATE topics SET title = $1, content = $2, updated_at = NOW() WHERE id = $3`
	tag, err := s.pool.Exec(ctx, query, title, content, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Reply Functions ---

func (s *PostgresStore) CreateReply(ctx context.Context, reply *Reply) error {
	query := `INSERT INTO replies (topic_id, owner_id, content) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := s.pool.QueryRow(ctx, query, reply.TopicID, reply.OwnerID, reply.Content).
		Scan(&reply.ID, &reply.CreatedAt)
	if pgErrCode(err, pgForeignKeyViolation) {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) ListReplies(ctx context.Context, topicID string) ([]Reply, error) {
	query := `
        SELECT r.id, r.topic_id, r.owner_id, r.content, r.created_at, u.username
        FROM replies r JOIN users u ON u.id = r.owner_id
        WHERE r.topic_id = $1
        ORDER BY r.id ASC`
	rows, err := s.pool.Query(ctx, query, topicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var replies []Reply
	for rows.Next() {
		var r Reply
		if err := rows.Scan(&r.ID, &r.TopicID, &r.OwnerID, &r.Content, &r.CreatedAt, &r.Author); err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}
