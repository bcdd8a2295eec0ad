package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"questlog/auth"
	"questlog/campaign"
	"questlog/graph"
	httpserver "questlog/http"
	"questlog/store"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := auth.NewSessionManager()
	authService := auth.NewService(st, sessions)
	campaigns := campaign.NewService(st, log)

	srv := httpserver.NewServer(authService, campaigns, "http://localhost:3000", log)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	api, err := New(ts.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return NewSession(api, log)
}

func TestSessionEndToEnd(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if err := s.Signup(ctx, "gm1", "password1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !s.Graph().Authenticated() {
		t.Fatal("graph should be authenticated after signup")
	}

	game, err := s.CreateGame(ctx, campaign.GameParams{
		Title: "Curse of Strahd", System: "D&D5e", Status: "active",
	})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	created, err := s.CreatePlayer(ctx, game.ID, campaign.PlayerParams{
		Name: "Ava",
		Character: &campaign.CharacterParams{
			Name: "Ireena", CharacterClass: "Fighter", Level: 1,
		},
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if created.Character == nil {
		t.Fatal("expected starting character in response")
	}

	second, err := s.CreateCharacter(ctx, game.ID, created.Player.ID, campaign.CharacterParams{
		Name: "Ismark", CharacterClass: "Paladin", Level: 4,
	})
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}

	session, err := s.CreateSession(ctx, game.ID, campaign.SessionParams{
		Date: "2026-08-30", Summary: "Death House",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	u, ok := s.Graph().User()
	if !ok {
		t.Fatal("no user in graph")
	}
	if len(u.Games) != 1 {
		t.Fatalf("games in graph: %+v", u.Games)
	}
	g := u.Games[0]
	if len(g.Players) != 1 || len(g.Players[0].Characters) != 2 {
		t.Fatalf("player/character nesting: %+v", g.Players)
	}
	if len(g.Sessions) != 1 || g.Sessions[0].ID != session.ID {
		t.Fatalf("session nesting: %+v", g.Sessions)
	}

	// The local graph mirrors server mutations without refetching.
	status := "completed"
	if _, err := s.UpdateGame(ctx, game.ID, campaign.GamePatch{Status: &status}); err != nil {
		t.Fatalf("UpdateGame: %v", err)
	}
	u, _ = s.Graph().User()
	if u.Games[0].Status != "completed" {
		t.Errorf("status not reconciled: %+v", u.Games[0])
	}
	if len(u.Games[0].Players) != 1 {
		t.Errorf("scalar patch erased players: %+v", u.Games[0])
	}

	if err := s.DeleteCharacter(ctx, second.ID); err != nil {
		t.Fatalf("DeleteCharacter: %v", err)
	}
	if err := s.DeletePlayer(ctx, created.Player.ID); err != nil {
		t.Fatalf("DeletePlayer: %v", err)
	}
	u, _ = s.Graph().User()
	if len(u.Games[0].Players) != 0 {
		t.Errorf("player not removed: %+v", u.Games[0].Players)
	}

	// A fresh fetch from the server agrees with the reconciled graph.
	if err := s.CheckSession(ctx); err != nil {
		t.Fatalf("CheckSession: %v", err)
	}
	u, _ = s.Graph().User()
	if len(u.Games) != 1 || len(u.Games[0].Players) != 0 || len(u.Games[0].Sessions) != 1 {
		t.Errorf("server graph diverged: %+v", u.Games)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if s.Graph().Authenticated() {
		t.Error("graph should be empty after logout")
	}
}

func TestStaleResponseDiscardedAfterLogout(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	if err := s.Signup(ctx, "gm1", "password1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	stale := s.currentEpoch()

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// A response captured before logout must not resurrect data.
	s.apply(stale, func(g graph.Graph) graph.Graph {
		return g.AddGame(graph.Game{ID: 1, Title: "Ghost", System: "D&D5e", Status: "active"})
	})
	if s.Graph().Authenticated() {
		t.Error("stale apply mutated the post-logout graph")
	}
	if _, ok := s.Graph().User(); ok {
		t.Error("stale apply resurrected a user")
	}
}

func TestLoginErrorsSurfaceAPIError(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	err := s.Login(ctx, "nobody", "password1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want APIError", err)
	}
	if apiErr.Status != 401 {
		t.Errorf("status: got %d, want 401", apiErr.Status)
	}
	if apiErr.Message == "" {
		t.Error("server error message lost")
	}
	if s.Graph().Authenticated() {
		t.Error("failed login must not touch the graph")
	}
}
