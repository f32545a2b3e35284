package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lazypower/bangapda/internal/store"
)

// ErrEmptyMessage is returned for a message with no text.
var ErrEmptyMessage = errors.New("message is empty")

// Greeting is the system message that opens every chat.
func Greeting(nickname string) string {
	return fmt.Sprintf("🎉 %s님과 인연이 연결되었어요! 이제 대화를 나눠보세요.", nickname)
}

// Chat returns a chat owned by userID.
func (e *Engine) Chat(userID, chatID string) (*store.Chat, error) {
	return e.DB.GetChat(userID, chatID)
}

// Messages returns a chat's messages, oldest first.
func (e *Engine) Messages(userID, chatID string) ([]store.Message, error) {
	if _, err := e.DB.GetChat(userID, chatID); err != nil {
		return nil, err
	}
	return e.DB.GetMessages(chatID)
}

// SendMessage appends the user's message to a chat.
func (e *Engine) SendMessage(userID, chatID, text string) (*store.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := e.DB.GetChat(userID, chatID); err != nil {
		return nil, err
	}
	msg, err := e.DB.AddMessage(chatID, store.SenderMe, text)
	if err != nil {
		return nil, err
	}
	e.Metrics.ObserveMessage()
	return msg, nil
}
