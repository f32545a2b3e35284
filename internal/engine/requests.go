package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/lazypower/bangapda/internal/match"
	"github.com/lazypower/bangapda/internal/store"
)

// ErrInvalidTransition is returned when a request is no longer pending and
// the action would move it somewhere else.
var ErrInvalidTransition = errors.New("invalid request transition")

// SendRequest records a friend request to a directory candidate. Sending
// twice is harmless; created reports whether this call added it.
func (e *Engine) SendRequest(userID string, candidateID int64) (created bool, err error) {
	if _, err := e.DB.GetCandidate(candidateID); err != nil {
		return false, err
	}
	created, err = e.DB.AddSentRequest(userID, candidateID)
	if err != nil {
		return false, err
	}
	if created {
		e.Metrics.ObserveTransition("send")
		e.Log.Debug("request sent", zap.String("user", userID), zap.Int64("candidate", candidateID))
	}
	return created, nil
}

// SentRequests returns the candidates userID has sent requests to.
func (e *Engine) SentRequests(userID string) ([]match.Candidate, error) {
	ids, err := e.DB.SentRequests(userID)
	if err != nil {
		return nil, err
	}
	out := make([]match.Candidate, 0, len(ids))
	for _, id := range ids {
		c, err := e.DB.GetCandidate(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// VisibleRequests returns userID's inbox without blocked or skipped entries.
func (e *Engine) VisibleRequests(userID string) ([]store.ReceivedRequest, error) {
	return e.DB.ListReceivedRequests(userID, true)
}

// AcceptRequest accepts a pending request and opens its chat. Accepting an
// already accepted request returns the chat opened the first time.
func (e *Engine) AcceptRequest(userID string, requestID int64) (*store.Chat, error) {
	req, err := e.DB.GetReceivedRequest(userID, requestID)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case store.StatusAccepted:
		return e.DB.GetChatByRequest(userID, requestID)
	case store.StatusPending:
	default:
		return nil, fmt.Errorf("accept %s request %d: %w", req.Status, requestID, ErrInvalidTransition)
	}

	chat, err := e.DB.AcceptRequest(userID, requestID, e.newID(), Greeting(req.Nickname))
	if errors.Is(err, store.ErrConflict) {
		return nil, fmt.Errorf("accept request %d: %w", requestID, ErrInvalidTransition)
	}
	if err != nil {
		return nil, err
	}

	e.Metrics.ObserveTransition("accept")
	e.Log.Info("request accepted", zap.String("user", userID), zap.Int64("request", requestID), zap.String("chat", chat.ID))
	return chat, nil
}

// BlockRequest hides a pending request for good.
func (e *Engine) BlockRequest(userID string, requestID int64) (*store.ReceivedRequest, error) {
	return e.transition(userID, requestID, store.StatusBlocked, "block")
}

// SkipRequest dismisses a pending request.
func (e *Engine) SkipRequest(userID string, requestID int64) (*store.ReceivedRequest, error) {
	return e.transition(userID, requestID, store.StatusSkipped, "skip")
}

func (e *Engine) transition(userID string, requestID int64, to, action string) (*store.ReceivedRequest, error) {
	req, err := e.DB.GetReceivedRequest(userID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status == to {
		return req, nil
	}
	if req.Status != store.StatusPending {
		return nil, fmt.Errorf("%s %s request %d: %w", action, req.Status, requestID, ErrInvalidTransition)
	}

	ok, err := e.DB.SetRequestStatus(userID, requestID, store.StatusPending, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s request %d: %w", action, requestID, ErrInvalidTransition)
	}

	e.Metrics.ObserveTransition(action)
	return e.DB.GetReceivedRequest(userID, requestID)
}
