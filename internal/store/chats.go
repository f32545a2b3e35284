package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrConflict is returned when a row is not in the state an update expects.
var ErrConflict = errors.New("state conflict")

// Message senders.
const (
	SenderSystem = "system"
	SenderMe     = "me"
	SenderFriend = "friend"
)

// Chat is a conversation opened by accepting a received request.
type Chat struct {
	ID             string `json:"id"`
	UserID         string `json:"-"`
	RequestID      int64  `json:"request_id"`
	FriendNickname string `json:"friend_nickname"`
	CreatedAt      int64  `json:"created_at"`
}

// Message is a single chat line.
type Message struct {
	ID        int64  `json:"id"`
	ChatID    string `json:"chat_id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// AcceptRequest marks a pending request accepted and opens its chat with a
// system greeting, all in one transaction. A request that is not pending
// returns ErrConflict.
func (db *DB) AcceptRequest(userID string, requestID int64, chatID, greeting string) (*Chat, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin accept: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UnixMilli()
	var nickname string
	err = tx.QueryRow(`
		UPDATE received_requests SET status = 'accepted', updated_at = ?
		WHERE id = ? AND user_id = ? AND status = 'pending'
		RETURNING nickname
	`, now, requestID, userID).Scan(&nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("accept request: %w", err)
	}

	chat := &Chat{
		ID:             chatID,
		UserID:         userID,
		RequestID:      requestID,
		FriendNickname: nickname,
		CreatedAt:      now,
	}
	if _, err := tx.Exec(`
		INSERT INTO chats (id, user_id, request_id, friend_nickname, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, chat.ID, chat.UserID, chat.RequestID, chat.FriendNickname, chat.CreatedAt); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO messages (chat_id, sender, text, created_at) VALUES (?, 'system', ?, ?)
	`, chat.ID, greeting, now); err != nil {
		return nil, fmt.Errorf("greeting message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit accept: %w", err)
	}
	return chat, nil
}

// GetChat returns a chat owned by userID or ErrNotFound.
func (db *DB) GetChat(userID, chatID string) (*Chat, error) {
	return db.getChat(`id = ? AND user_id = ?`, chatID, userID)
}

// GetChatByRequest returns the chat opened for a request or ErrNotFound.
func (db *DB) GetChatByRequest(userID string, requestID int64) (*Chat, error) {
	return db.getChat(`request_id = ? AND user_id = ?`, requestID, userID)
}

func (db *DB) getChat(where string, args ...any) (*Chat, error) {
	var c Chat
	err := db.QueryRow(`SELECT id, user_id, request_id, friend_nickname, created_at FROM chats WHERE `+where, args...).
		Scan(&c.ID, &c.UserID, &c.RequestID, &c.FriendNickname, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chat: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return &c, nil
}

// AddMessage appends a message to a chat.
func (db *DB) AddMessage(chatID, sender, text string) (*Message, error) {
	now := time.Now().UnixMilli()
	result, err := db.Exec(`
		INSERT INTO messages (chat_id, sender, text, created_at) VALUES (?, ?, ?, ?)
	`, chatID, sender, text, now)
	if err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}
	id, _ := result.LastInsertId()
	return &Message{ID: id, ChatID: chatID, Sender: sender, Text: text, CreatedAt: now}, nil
}

// GetMessages returns a chat's messages in the order they were written.
func (db *DB) GetMessages(chatID string) ([]Message, error) {
	rows, err := db.Query(`
		SELECT id, chat_id, sender, text, created_at FROM messages
		WHERE chat_id = ? ORDER BY id
	`, chatID)
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	defer rows.Close()

	msgs := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Sender, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
