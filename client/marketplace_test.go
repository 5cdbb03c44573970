package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/originals/collab-client/client"
)

// marketplace is an in-memory backend speaking the success/data/error
// envelope.
type marketplace struct {
	mu        sync.Mutex
	postings  []client.Posting
	pings     []client.Ping
	matches   []client.Match
	onboarded map[string]bool
	nextID    int

	// statusGate, when set, blocks onboarding-status until closed.
	statusGate    chan struct{}
	statusEntered chan struct{}
	// feedGate, when set, blocks the feed until closed.
	feedGate    chan struct{}
	feedEntered chan struct{}
}

func newMarketplace(t *testing.T) (*marketplace, *httptest.Server) {
	t.Helper()
	m := &marketplace{onboarded: make(map[string]bool)}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collabs/feed", m.feed)
	mux.HandleFunc("POST /collabs/{id}/ping", m.ping)
	mux.HandleFunc("GET /wallets/{wallet}/pings/received", m.received)
	mux.HandleFunc("POST /pings/{id}/respond", m.respond)
	mux.HandleFunc("GET /wallets/{wallet}/matches", m.listMatches)
	mux.HandleFunc("GET /users/{wallet}/onboarding-status", m.status)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return m, srv
}

func (m *marketplace) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s%d", prefix, m.nextID)
}

func ok(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

func fail(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": msg},
	})
}

func (m *marketplace) feed(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	gate, entered := m.feedGate, m.feedEntered
	m.mu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ok(w, client.FeedPage{Collabs: append([]client.Posting(nil), m.postings...)})
}

func (m *marketplace) ping(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InterestedRole string `json:"interestedRole"`
		Bio            string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	postID := r.PathValue("id")
	for _, p := range m.postings {
		if p.ID != postID {
			continue
		}
		ping := client.Ping{
			ID:             m.id("ping-"),
			CollabPostID:   postID,
			PingedWallet:   r.Header.Get("X-Zora-Wallet"),
			InterestedRole: req.InterestedRole,
			Bio:            req.Bio,
			Status:         "pending",
			CreatedAt:      time.Now().UTC(),
		}
		m.pings = append(m.pings, ping)
		ok(w, map[string]string{"pingId": ping.ID, "message": "Ping sent"})
		return
	}
	fail(w, http.StatusNotFound, "NOT_FOUND", "Collaboration not found")
}

func (m *marketplace) owner(postID string) string {
	for _, p := range m.postings {
		if p.ID == postID {
			return p.CreatorWallet
		}
	}
	return ""
}

func (m *marketplace) received(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet := r.PathValue("wallet")
	var out []client.Ping
	for _, p := range m.pings {
		if p.Status == "pending" && m.owner(p.CollabPostID) == wallet {
			out = append(out, p)
		}
	}
	ok(w, client.PingsPage{Pings: out})
}

func (m *marketplace) respond(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.pings {
		if p.ID != r.PathValue("id") {
			continue
		}
		if m.owner(p.CollabPostID) != r.Header.Get("X-Zora-Wallet") {
			fail(w, http.StatusForbidden, "FORBIDDEN", "Not your collaboration")
			return
		}
		if req.Action == "decline" {
			m.pings[i].Status = "declined"
			ok(w, map[string]string{"action": "decline"})
			return
		}
		m.pings[i].Status = "accepted"
		match := client.Match{
			ID:                 m.id("match-"),
			CollabPostID:       p.CollabPostID,
			CreatorWallet:      m.owner(p.CollabPostID),
			CollaboratorWallet: p.PingedWallet,
			Role:               p.InterestedRole,
			Status:             "active",
			CreatedAt:          time.Now().UTC(),
		}
		m.matches = append(m.matches, match)
		ok(w, map[string]string{"matchId": match.ID, "action": "accept"})
		return
	}
	fail(w, http.StatusNotFound, "NOT_FOUND", "Ping not found")
}

func (m *marketplace) listMatches(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet := r.PathValue("wallet")
	var out []client.Match
	for _, mt := range m.matches {
		if mt.CreatorWallet == wallet || mt.CollaboratorWallet == wallet {
			out = append(out, mt)
		}
	}
	ok(w, client.MatchesPage{Matches: out})
}

func (m *marketplace) status(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	gate, entered := m.statusGate, m.statusEntered
	m.mu.Unlock()
	if gate != nil {
		close(entered)
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"isOnboarded": m.onboarded[r.PathValue("wallet")],
	})
}

// memStore is an identity store kept in memory.
type memStore struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[string]string)
	}
	s.m[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}
