package campaign

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"questlog/store"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(st, log), st
}

func seedUser(t *testing.T, st store.Store, username string) int64 {
	t.Helper()
	id, err := st.CreateUser(username, "hash")
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

func TestCreateGameValidation(t *testing.T) {
	svc, st := newTestService(t)
	userID := seedUser(t, st, "gm1")

	tests := []struct {
		name   string
		params GameParams
		valid  bool
	}{
		{"valid", GameParams{Title: "Strahd", System: "D&D5e", Status: "active"}, true},
		{"missing title", GameParams{System: "D&D5e", Status: "active"}, false},
		{"missing system", GameParams{Title: "Strahd", Status: "active"}, false},
		{"missing status", GameParams{Title: "Strahd", System: "D&D5e"}, false},
		{"bad start date", GameParams{Title: "Strahd", System: "D&D5e", Status: "active", StartDate: "soon"}, false},
		{"html-only title", GameParams{Title: "<script>x</script>", System: "D&D5e", Status: "active"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateGame(userID, tt.params)
			var vErr *ValidationError
			if tt.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.As(err, &vErr) {
				t.Fatalf("got %v, want validation error", err)
			}
		})
	}
}

func TestCreateGameReturnsEmptyCollections(t *testing.T) {
	svc, st := newTestService(t)
	userID := seedUser(t, st, "gm1")

	game, err := svc.CreateGame(userID, GameParams{Title: "Strahd", System: "D&D5e", Status: "active"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if game.ID == 0 {
		t.Error("expected server-assigned id")
	}
	if game.Players == nil || game.Sessions == nil {
		t.Error("creation payload must carry empty players/sessions, not null")
	}
}

func TestOwnershipEnforced(t *testing.T) {
	svc, st := newTestService(t)
	owner := seedUser(t, st, "gm1")
	intruder := seedUser(t, st, "gm2")

	game, err := svc.CreateGame(owner, GameParams{Title: "Strahd", System: "D&D5e", Status: "active"})
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	player, _, err := svc.CreatePlayer(owner, game.ID, PlayerParams{Name: "Ava"})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	character, err := svc.CreateCharacter(owner, game.ID, player.ID, CharacterParams{
		Name: "Ireena", CharacterClass: "Fighter", Level: 3,
	})
	if err != nil {
		t.Fatalf("CreateCharacter: %v", err)
	}
	session, err := svc.CreateSession(owner, game.ID, SessionParams{Date: "2026-08-30"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	status := "completed"
	if _, err := svc.UpdateGame(intruder, game.ID, GamePatch{Status: &status}); !errors.Is(err, ErrNotOwner) {
		t.Errorf("UpdateGame by intruder: got %v, want ErrNotOwner", err)
	}
	if err := svc.DeletePlayer(intruder, player.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeletePlayer by intruder: got %v, want ErrNotOwner", err)
	}
	if err := svc.DeleteCharacter(intruder, character.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteCharacter by intruder: got %v, want ErrNotOwner", err)
	}
	if err := svc.DeleteSession(intruder, session.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteSession by intruder: got %v, want ErrNotOwner", err)
	}
}

func TestMissingParentsReturnNotFound(t *testing.T) {
	svc, st := newTestService(t)
	userID := seedUser(t, st, "gm1")

	if _, err := svc.UpdateGame(userID, 999, GamePatch{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("got %v, want ErrGameNotFound", err)
	}
	if _, err := svc.UpdatePlayer(userID, 999, PlayerPatch{}); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("got %v, want ErrPlayerNotFound", err)
	}
	if _, err := svc.UpdateCharacter(userID, 999, CharacterPatch{}); !errors.Is(err, ErrCharacterNotFound) {
		t.Errorf("got %v, want ErrCharacterNotFound", err)
	}
	if _, err := svc.UpdateSession(userID, 999, SessionPatch{}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
}

func TestCreatePlayerWithStartingCharacter(t *testing.T) {
	svc, st := newTestService(t)
	userID := seedUser(t, st, "gm1")
	game, _ := svc.CreateGame(userID, GameParams{Title: "Strahd", System: "D&D5e", Status: "active"})

	player, character, err := svc.CreatePlayer(userID, game.ID, PlayerParams{
		Name: "Ava",
		Character: &CharacterParams{
			Name: "Ireena", CharacterClass: "Fighter", Level: 1,
		},
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if character == nil {
		t.Fatal("expected a starting character alongside the player")
	}
	if character.PlayerID != player.ID || character.GameID != game.ID {
		t.Errorf("character not linked: %+v", character)
	}
	if !character.IsActive {
		t.Error("starting character should default to active")
	}
}

func TestCharacterPlayerMustShareGame(t *testing.T) {
	svc, st := newTestService(t)
	userID := seedUser(t, st, "gm1")
	gameA, _ := svc.CreateGame(userID, GameParams{Title: "Strahd", System: "D&D5e", Status: "active"})
	gameB, _ := svc.CreateGame(userID, GameParams{Title: "Rime", System: "D&D5e", Status: "planning"})
	player, _, _ := svc.CreatePlayer(userID, gameA.ID, PlayerParams{Name: "Ava"})

	_, err := svc.CreateCharacter(userID, gameB.ID, player.ID, CharacterParams{
		Name: "Ireena", CharacterClass: "Fighter", Level: 1,
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("got %v, want validation error for cross-game character", err)
	}
}

func TestUserGraphMaterializesJoin(t *testing.T) {
	svc, st := newTestService(t)
	userID := seedUser(t, st, "gm1")

	game, _ := svc.CreateGame(userID, GameParams{Title: "Strahd", System: "D&D5e", Status: "active"})
	player, _, _ := svc.CreatePlayer(userID, game.ID, PlayerParams{Name: "Ava"})
	character, _ := svc.CreateCharacter(userID, game.ID, player.ID, CharacterParams{
		Name: "Ireena", CharacterClass: "Fighter", Level: 3,
	})
	session, _ := svc.CreateSession(userID, game.ID, SessionParams{Date: "2026-08-30", Summary: "Death House"})

	u, err := svc.UserGraph(userID)
	if err != nil {
		t.Fatalf("UserGraph: %v", err)
	}
	if u.Username != "gm1" || len(u.Games) != 1 {
		t.Fatalf("unexpected user graph: %+v", u)
	}
	g := u.Games[0]
	if len(g.Players) != 1 || g.Players[0].ID != player.ID {
		t.Fatalf("players not nested: %+v", g.Players)
	}
	if len(g.Players[0].Characters) != 1 || g.Players[0].Characters[0].ID != character.ID {
		t.Errorf("characters not nested under player: %+v", g.Players[0].Characters)
	}
	if len(g.Sessions) != 1 || g.Sessions[0].ID != session.ID {
		t.Errorf("sessions not nested: %+v", g.Sessions)
	}
}

func TestUpdateGamePartialPatch(t *testing.T) {
	svc, st := newTestService(t)
	userID := seedUser(t, st, "gm1")
	game, _ := svc.CreateGame(userID, GameParams{
		Title: "Strahd", System: "D&D5e", Status: "active", Setting: "Barovia",
	})

	status := "completed"
	updated, err := svc.UpdateGame(userID, game.ID, GamePatch{Status: &status})
	if err != nil {
		t.Fatalf("UpdateGame: %v", err)
	}
	if updated.Status != "completed" {
		t.Errorf("status not patched: %+v", updated)
	}
	if updated.Title != "Strahd" || updated.Setting != "Barovia" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.Players != nil || updated.Sessions != nil {
		t.Error("patch response must omit nested collections")
	}
}
