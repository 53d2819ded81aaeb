package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"sotto/internal/domain"
)

const messageSchema = `
CREATE TABLE IF NOT EXISTS messages (
    id              TEXT PRIMARY KEY,
    conversation_id TEXT NOT NULL,
    sender_id       TEXT NOT NULL,
    receiver_id     TEXT NOT NULL,
    body            TEXT NOT NULL,
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation
    ON messages(conversation_id, created_at);`

// MessageStore is the SQLite-backed local plaintext message store.
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore opens (or creates) the message database at path.
func NewMessageStore(path string) (*MessageStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrPersistence, path, err)
	}
	if _, err := db.Exec(messageSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", domain.ErrPersistence, err)
	}
	return &MessageStore{db: db}, nil
}

// Append upserts the message keyed by its ID. Re-storing the same ID
// overwrites the row rather than duplicating it, which makes at-least-once
// transport redelivery safe. The single statement runs in its own
// transaction, so a crash mid-append never leaves a partial row.
func (s *MessageStore) Append(m domain.StoredMessage) error {
	_, err := s.db.Exec(`
        INSERT INTO messages (id, conversation_id, sender_id, receiver_id, body, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            conversation_id = excluded.conversation_id,
            sender_id       = excluded.sender_id,
            receiver_id     = excluded.receiver_id,
            body            = excluded.body,
            created_at      = excluded.created_at`,
		m.ID, string(m.ConversationID), string(m.SenderID), string(m.ReceiverID), m.Body, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: append message %s: %v", domain.ErrPersistence, m.ID, err)
	}
	return nil
}

// ListByConversation returns all messages for id ascending by creation time,
// ties broken by first-insertion order.
func (s *MessageStore) ListByConversation(id domain.ConversationID) ([]domain.StoredMessage, error) {
	rows, err := s.db.Query(`
        SELECT id, conversation_id, sender_id, receiver_id, body, created_at
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at ASC, rowid ASC`,
		string(id),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list conversation %s: %v", domain.ErrPersistence, id, err)
	}
	defer rows.Close()

	var out []domain.StoredMessage
	for rows.Next() {
		var m domain.StoredMessage
		var conv, sender, receiver string
		if err := rows.Scan(&m.ID, &conv, &sender, &receiver, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan message: %v", domain.ErrPersistence, err)
		}
		m.ConversationID = domain.ConversationID(conv)
		m.SenderID = domain.UserID(sender)
		m.ReceiverID = domain.UserID(receiver)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list conversation %s: %v", domain.ErrPersistence, id, err)
	}
	return out, nil
}

// ClearAll deletes every locally stored message. Irreversible.
func (s *MessageStore) ClearAll() error {
	if _, err := s.db.Exec(`DELETE FROM messages`); err != nil {
		return fmt.Errorf("%w: clear messages: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *MessageStore) Close() error { return s.db.Close() }

var _ domain.MessageStore = (*MessageStore)(nil)
