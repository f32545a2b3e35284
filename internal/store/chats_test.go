package store

import (
	"errors"
	"testing"
)

func TestAcceptRequestOpensChat(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "u1", "a@example.com")
	reqs := seedInbox(t, db, "u1")
	req := reqs[1]

	chat, err := db.AcceptRequest("u1", req.ID, "chat-1", "hello")
	if err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}
	if chat.FriendNickname != req.Nickname {
		t.Errorf("FriendNickname = %q, want %q", chat.FriendNickname, req.Nickname)
	}

	got, _ := db.GetReceivedRequest("u1", req.ID)
	if got.Status != StatusAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}

	byReq, err := db.GetChatByRequest("u1", req.ID)
	if err != nil || byReq.ID != "chat-1" {
		t.Errorf("GetChatByRequest = %+v, %v", byReq, err)
	}

	msgs, err := db.GetMessages("chat-1")
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Sender != SenderSystem || msgs[0].Text != "hello" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestAcceptRequestNotPending(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "u1", "a@example.com")
	reqs := seedInbox(t, db, "u1")

	if _, err := db.SetRequestStatus("u1", reqs[0].ID, StatusPending, StatusBlocked); err != nil {
		t.Fatalf("SetRequestStatus: %v", err)
	}

	_, err := db.AcceptRequest("u1", reqs[0].ID, "chat-1", "hello")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if _, err := db.GetChat("u1", "chat-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("chat created despite conflict: %v", err)
	}
}

func TestMessagesInOrder(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "u1", "a@example.com")
	reqs := seedInbox(t, db, "u1")
	if _, err := db.AcceptRequest("u1", reqs[0].ID, "chat-1", "hello"); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	for _, text := range []string{"안녕!", "오랜만이야"} {
		if _, err := db.AddMessage("chat-1", SenderMe, text); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	msgs, _ := db.GetMessages("chat-1")
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[1].Text != "안녕!" || msgs[2].Text != "오랜만이야" || msgs[2].Sender != SenderMe {
		t.Errorf("messages = %+v", msgs)
	}

	if _, err := db.AddMessage("chat-1", "stranger", "x"); err == nil {
		t.Error("expected check constraint error for unknown sender")
	}
}

func TestGetChatOwnership(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "u1", "a@example.com")
	createTestUser(t, db, "u2", "b@example.com")
	reqs := seedInbox(t, db, "u1")
	if _, err := db.AcceptRequest("u1", reqs[0].ID, "chat-1", "hello"); err != nil {
		t.Fatalf("AcceptRequest: %v", err)
	}

	if _, err := db.GetChat("u2", "chat-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
