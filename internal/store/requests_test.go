package store

import (
	"errors"
	"testing"
)

func seedInbox(t *testing.T, db *DB, userID string) []ReceivedRequest {
	t.Helper()
	entries, err := DefaultInbox()
	if err != nil {
		t.Fatalf("DefaultInbox: %v", err)
	}
	if err := db.AddReceivedRequests(userID, entries); err != nil {
		t.Fatalf("AddReceivedRequests: %v", err)
	}
	reqs, err := db.ListReceivedRequests(userID, false)
	if err != nil {
		t.Fatalf("ListReceivedRequests: %v", err)
	}
	return reqs
}

func TestSentRequests(t *testing.T) {
	db := testDB(t)
	if _, err := db.SeedCandidates(""); err != nil {
		t.Fatalf("SeedCandidates: %v", err)
	}
	createTestUser(t, db, "u1", "a@example.com")

	created, err := db.AddSentRequest("u1", 2)
	if err != nil || !created {
		t.Fatalf("AddSentRequest = %v, %v; want true, nil", created, err)
	}
	created, err = db.AddSentRequest("u1", 2)
	if err != nil || created {
		t.Fatalf("AddSentRequest again = %v, %v; want false, nil", created, err)
	}
	if _, err := db.AddSentRequest("u1", 5); err != nil {
		t.Fatalf("AddSentRequest: %v", err)
	}

	ids, err := db.SentRequests("u1")
	if err != nil {
		t.Fatalf("SentRequests: %v", err)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 5 {
		t.Errorf("SentRequests = %v, want [2 5]", ids)
	}

	if _, err := db.AddSentRequest("u1", 404); err == nil {
		t.Error("expected foreign key error for unknown candidate")
	}
}

func TestReceivedRequestsOrderAndOwnership(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "u1", "a@example.com")
	createTestUser(t, db, "u2", "b@example.com")

	reqs := seedInbox(t, db, "u1")
	if len(reqs) != 5 {
		t.Fatalf("len = %d, want 5", len(reqs))
	}
	if reqs[0].SentAt != "2024-01-15" || reqs[4].SentAt != "2024-01-11" {
		t.Errorf("not newest first: %s .. %s", reqs[0].SentAt, reqs[4].SentAt)
	}
	for _, r := range reqs {
		if r.Status != StatusPending {
			t.Errorf("request %d status = %q, want pending", r.ID, r.Status)
		}
	}

	if _, err := db.GetReceivedRequest("u2", reqs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("other user's request: err = %v, want ErrNotFound", err)
	}
}

func TestSetRequestStatusAndVisibility(t *testing.T) {
	db := testDB(t)
	createTestUser(t, db, "u1", "a@example.com")
	reqs := seedInbox(t, db, "u1")

	ok, err := db.SetRequestStatus("u1", reqs[0].ID, StatusPending, StatusBlocked)
	if err != nil || !ok {
		t.Fatalf("block = %v, %v", ok, err)
	}
	ok, err = db.SetRequestStatus("u1", reqs[1].ID, StatusPending, StatusSkipped)
	if err != nil || !ok {
		t.Fatalf("skip = %v, %v", ok, err)
	}

	// not pending anymore
	ok, err = db.SetRequestStatus("u1", reqs[0].ID, StatusPending, StatusSkipped)
	if err != nil || ok {
		t.Errorf("second transition = %v, %v; want false, nil", ok, err)
	}

	visible, err := db.ListReceivedRequests("u1", true)
	if err != nil {
		t.Fatalf("ListReceivedRequests: %v", err)
	}
	if len(visible) != 3 {
		t.Fatalf("visible = %d, want 3", len(visible))
	}
	for _, r := range visible {
		if r.ID == reqs[0].ID || r.ID == reqs[1].ID {
			t.Errorf("hidden request %d is visible", r.ID)
		}
	}

	got, _ := db.GetReceivedRequest("u1", reqs[0].ID)
	if got.Status != StatusBlocked {
		t.Errorf("status = %q, want blocked", got.Status)
	}
}
