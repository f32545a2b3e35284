package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/bangapda/internal/engine"
	"github.com/lazypower/bangapda/internal/match"
	"github.com/lazypower/bangapda/internal/store"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req engine.Registration
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.engine.Register(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	token, expires, err := s.engine.Tokens.Issue(u.ID, u.Nickname)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, engine.Session{Token: token, ExpiresAt: expires, User: u})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.engine.Login(req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p store.Profile
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.engine.UpdateProfile(userFrom(r.Context()).ID, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"periods": match.Periods})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.db.ListCandidates()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(candidates),
		"candidates": candidates,
	})
}

type searchRequest struct {
	match.Criteria
	MinScore   *int `json:"min_score,omitempty"`
	MaxResults *int `json:"max_results,omitempty"`
	Explain    bool `json:"explain,omitempty"`
}

type resultJSON struct {
	match.ScoredMatch
	Breakdown *match.Breakdown `json:"breakdown,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.engine.Opts
	if req.MinScore != nil {
		opts.MinScore = *req.MinScore
	}
	if req.MaxResults != nil {
		opts.MaxResults = *req.MaxResults
	}

	results, err := s.engine.SearchWith(req.Criteria, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := req.Criteria.Normalize()
	out := make([]resultJSON, len(results))
	for i, m := range results {
		out[i] = resultJSON{ScoredMatch: m}
		if req.Explain {
			b := match.Explain(m.Candidate, q)
			out[i].Breakdown = &b
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"mode":    "criteria",
		"count":   len(out),
		"results": out,
	})
}

// handleMatches lists the directory head, or with ?from=profile searches
// with the caller's saved profile.
func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("from") == "profile" {
		s.requireUser(http.HandlerFunc(s.handleProfileMatches)).ServeHTTP(w, r)
		return
	}

	results, err := s.engine.Browse()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":    "browse",
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleProfileMatches(w http.ResponseWriter, r *http.Request) {
	results, err := s.engine.SearchFromProfile(userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":    "profile",
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CandidateID int64 `json:"candidate_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.CandidateID <= 0 {
		s.writeError(w, r, errBadRequestf("candidate_id required"))
		return
	}

	created, err := s.engine.SendRequest(userFrom(r.Context()).ID, req.CandidateID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"candidate_id": req.CandidateID,
		"created":      created,
	})
}

func (s *Server) handleSentRequests(w http.ResponseWriter, r *http.Request) {
	sent, err := s.engine.SentRequests(userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(sent),
		"candidates": sent,
	})
}

func (s *Server) handleReceivedRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.engine.VisibleRequests(userFrom(r.Context()).ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(reqs),
		"requests": reqs,
	})
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	chat, err := s.engine.AcceptRequest(userFrom(r.Context()).ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat": chat})
}

func (s *Server) handleBlockRequest(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.engine.BlockRequest)
}

func (s *Server) handleSkipRequest(w http.ResponseWriter, r *http.Request) {
	s.handleTransition(w, r, s.engine.SkipRequest)
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request, action func(string, int64) (*store.ReceivedRequest, error)) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := action(userFrom(r.Context()).ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"request": req})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	chatID := chi.URLParam(r, "id")

	chat, err := s.engine.Chat(u.ID, chatID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	msgs, err := s.engine.Messages(u.ID, chatID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chat":     chat,
		"messages": msgs,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	msg, err := s.engine.SendMessage(userFrom(r.Context()).ID, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
