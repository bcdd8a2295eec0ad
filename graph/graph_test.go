package graph

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strahdGraph() Graph {
	g := Initialize(User{ID: 1, Username: "gm1"}).WithLogger(quiet())
	g = g.AddGame(Game{ID: 10, Title: "Curse of Strahd", System: "D&D5e", Status: "active"})
	g = g.AddPlayer(10, Player{ID: 20, Name: "Ava"})
	g = g.AddCharacter(Character{
		ID: 30, Name: "Ireena", CharacterClass: "Fighter", Level: 3,
		IsActive: true, GameID: 10, PlayerID: 20,
	})
	return g
}

func TestInitializeReplacesWholeGraph(t *testing.T) {
	g := strahdGraph()
	g = Initialize(User{ID: 2, Username: "gm2"})

	u, ok := g.User()
	if !ok {
		t.Fatal("expected authenticated graph")
	}
	if u.ID != 2 || u.Username != "gm2" {
		t.Errorf("got user %+v, want id=2 username=gm2", u)
	}
	if len(u.Games) != 0 {
		t.Errorf("got %d games, want 0", len(u.Games))
	}
}

func TestEmptyIsUnauthenticated(t *testing.T) {
	g := Empty()
	if g.Authenticated() {
		t.Error("empty graph reports authenticated")
	}
	if _, ok := g.User(); ok {
		t.Error("empty graph returned a user")
	}
}

func TestScenarioNestedJoin(t *testing.T) {
	g := strahdGraph()

	chars := g.AllCharacters()
	if len(chars) != 1 {
		t.Fatalf("got %d characters, want 1", len(chars))
	}
	got := chars[0]
	if got.ID != 30 || got.Name != "Ireena" || got.CharacterClass != "Fighter" || got.Level != 3 {
		t.Errorf("unexpected character: %+v", got.Character)
	}
	if got.Game.ID != 10 || got.Game.Title != "Curse of Strahd" {
		t.Errorf("unexpected denormalized game: %+v", got.Game)
	}
	if got.Player.ID != 20 || got.Player.Name != "Ava" {
		t.Errorf("unexpected denormalized player: %+v", got.Player)
	}
}

func TestScenarioRemoveGame(t *testing.T) {
	g := strahdGraph().RemoveGame(10)

	if chars := g.AllCharacters(); len(chars) != 0 {
		t.Errorf("got %d characters after RemoveGame, want 0", len(chars))
	}
	u, _ := g.User()
	if len(u.Games) != 0 {
		t.Errorf("got %d games after RemoveGame, want 0", len(u.Games))
	}
	if players := g.AllPlayers(); len(players) != 0 {
		t.Errorf("got %d players after RemoveGame, want 0", len(players))
	}
}

func TestScenarioUpdatePlayerPreservesCharacters(t *testing.T) {
	g := strahdGraph().UpdatePlayer(Player{ID: 20, Name: "Ava K."})

	p, ok := g.Player(20)
	if !ok {
		t.Fatal("player 20 missing after update")
	}
	if p.Name != "Ava K." {
		t.Errorf("got name %q, want %q", p.Name, "Ava K.")
	}
	if len(p.Characters) != 1 || p.Characters[0].ID != 30 {
		t.Errorf("characters not preserved: %+v", p.Characters)
	}
}

func TestIdempotentJoinAnyOrder(t *testing.T) {
	// Character response applied before its player's: a stub must hold the
	// character until AddPlayer fills it in.
	g := Initialize(User{ID: 1, Username: "gm1"}).WithLogger(quiet())
	g = g.AddGame(Game{ID: 10, Title: "Rime", System: "D&D5e", Status: "active"})
	g = g.AddCharacter(Character{ID: 30, Name: "Ireena", GameID: 10, PlayerID: 20})
	g = g.AddPlayer(10, Player{ID: 20, Name: "Ava"})

	chars := g.AllCharacters()
	if len(chars) != 1 || chars[0].ID != 30 {
		t.Fatalf("got characters %+v, want exactly character 30", chars)
	}
	if chars[0].Player.Name != "Ava" {
		t.Errorf("stub player not filled in: %+v", chars[0].Player)
	}

	// Replays never duplicate.
	g = g.AddCharacter(Character{ID: 30, Name: "Ireena", GameID: 10, PlayerID: 20})
	g = g.AddPlayer(10, Player{ID: 20, Name: "Ava"})
	g = g.AddGame(Game{ID: 10, Title: "Rime", System: "D&D5e", Status: "active"})
	if chars := g.AllCharacters(); len(chars) != 1 {
		t.Errorf("got %d characters after replay, want 1", len(chars))
	}
	u, _ := g.User()
	if len(u.Games) != 1 {
		t.Errorf("got %d games after replay, want 1", len(u.Games))
	}
}

func TestRemoveAddCharacterRoundTrip(t *testing.T) {
	g := strahdGraph()
	before, _ := g.User()

	ch := Character{
		ID: 30, Name: "Ireena", CharacterClass: "Fighter", Level: 3,
		IsActive: true, GameID: 10, PlayerID: 20,
	}
	g = g.RemoveCharacter(30)
	if len(g.AllCharacters()) != 0 {
		t.Fatal("character still present after remove")
	}
	g = g.AddCharacter(ch)

	after, _ := g.User()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("round trip diverged:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestUpdateGamePartialPayloadKeepsCollections(t *testing.T) {
	g := strahdGraph()
	g = g.AddSession(10, Session{ID: 40, Date: "2026-08-30", Summary: "Death House"})

	// Scalar-only PATCH response: Players and Sessions nil.
	g = g.UpdateGame(Game{ID: 10, Title: "Curse of Strahd", System: "D&D5e", Status: "completed"})

	game, ok := g.Game(10)
	if !ok {
		t.Fatal("game 10 missing after update")
	}
	if game.Status != "completed" {
		t.Errorf("got status %q, want completed", game.Status)
	}
	if len(game.Players) != 1 || len(game.Players[0].Characters) != 1 {
		t.Errorf("players erased by partial update: %+v", game.Players)
	}
	if len(game.Sessions) != 1 || game.Sessions[0].ID != 40 {
		t.Errorf("sessions erased by partial update: %+v", game.Sessions)
	}
}

func TestUpdateGameExplicitCollectionsReplace(t *testing.T) {
	g := strahdGraph()
	g = g.UpdateGame(Game{
		ID: 10, Title: "Curse of Strahd", System: "D&D5e", Status: "active",
		Players:  []Player{{ID: 21, Name: "Brynn"}},
		Sessions: []Session{},
	})

	game, _ := g.Game(10)
	if len(game.Players) != 1 || game.Players[0].ID != 21 {
		t.Errorf("players not replaced: %+v", game.Players)
	}
	if len(g.AllCharacters()) != 0 {
		t.Error("characters of replaced players survived")
	}
}

func TestAllPlayersDeduplicatesTraversalPaths(t *testing.T) {
	// Player 20 reachable both as a top-level unattached player and inside
	// game 10's player list.
	g := Initialize(User{
		ID: 1, Username: "gm1",
		Games: []Game{{
			ID: 10, Title: "Strahd", System: "D&D5e", Status: "active",
			Players: []Player{{ID: 20, Name: "Ava"}},
		}},
		Players: []Player{{ID: 20, Name: "Ava"}},
	})

	players := g.AllPlayers()
	if len(players) != 1 {
		t.Fatalf("got %d players, want 1: %+v", len(players), players)
	}
	if players[0].ID != 20 {
		t.Errorf("got player %+v, want id 20", players[0])
	}
	if opts := g.PlayerOptions(); len(opts) != 1 || opts[0] != (Option{Value: 20, Label: "Ava"}) {
		t.Errorf("unexpected player options: %+v", opts)
	}
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	g := strahdGraph()
	snapshot, _ := g.User()

	g.AddGame(Game{ID: 11, Title: "Rime", System: "D&D5e", Status: "planning"})
	g.AddPlayer(10, Player{ID: 21, Name: "Brynn"})
	g.AddCharacter(Character{ID: 31, Name: "Vex", GameID: 10, PlayerID: 20})
	g.AddSession(10, Session{ID: 41, Date: "2026-09-01"})
	g.UpdateGame(Game{ID: 10, Title: "Other", System: "x", Status: "done"})
	g.RemoveGame(10)
	g.RemovePlayer(20)
	g.RemoveCharacter(30)

	after, _ := g.User()
	if !reflect.DeepEqual(snapshot, after) {
		t.Errorf("receiver mutated:\nbefore %+v\nafter  %+v", snapshot, after)
	}
}

func TestDivergentSnapshotsDoNotAlias(t *testing.T) {
	base := strahdGraph()
	a := base.AddPlayer(10, Player{ID: 21, Name: "Brynn"})
	b := base.AddPlayer(10, Player{ID: 22, Name: "Cal"})

	ga, _ := a.Game(10)
	gb, _ := b.Game(10)
	if len(ga.Players) != 2 || ga.Players[1].ID != 21 {
		t.Errorf("snapshot a corrupted: %+v", ga.Players)
	}
	if len(gb.Players) != 2 || gb.Players[1].ID != 22 {
		t.Errorf("snapshot b corrupted: %+v", gb.Players)
	}
}

func TestRemovePlayerCascadesCharacters(t *testing.T) {
	g := strahdGraph().RemovePlayer(20)

	game, _ := g.Game(10)
	if len(game.Players) != 0 {
		t.Errorf("player still listed: %+v", game.Players)
	}
	if chars := g.AllCharacters(); len(chars) != 0 {
		t.Errorf("characters survived their player: %+v", chars)
	}
}

func TestReferentialMissesAreNoOps(t *testing.T) {
	g := strahdGraph()
	before, _ := g.User()

	g2 := g.AddPlayer(99, Player{ID: 50, Name: "Ghost"})
	g2 = g2.AddCharacter(Character{ID: 60, Name: "Nobody", GameID: 99, PlayerID: 50})
	g2 = g2.AddSession(99, Session{ID: 70, Date: "2026-01-01"})
	g2 = g2.UpdateCharacter(Character{ID: 61, Name: "Gone", GameID: 10, PlayerID: 20})
	g2 = g2.UpdateGame(Game{ID: 99, Title: "x", System: "y", Status: "z"})
	g2 = g2.RemovePlayer(50)
	g2 = g2.RemoveSession(70)

	after, _ := g2.User()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("integrity miss changed the graph:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestSessionLifecycle(t *testing.T) {
	g := strahdGraph()
	g = g.AddSession(10, Session{ID: 40, Date: "2026-08-30", Summary: "Death House"})
	g = g.AddSession(10, Session{ID: 41, Date: "2026-09-01", Summary: "Vallaki"})
	g = g.UpdateSession(Session{ID: 40, Date: "2026-08-30", Summary: "Death House, barely"})
	g = g.RemoveSession(41)

	game, _ := g.Game(10)
	if len(game.Sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(game.Sessions))
	}
	s := game.Sessions[0]
	if s.ID != 40 || s.Summary != "Death House, barely" || s.GameID != 10 {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestUpdateCharacterRehomesOnPlayerChange(t *testing.T) {
	g := strahdGraph()
	g = g.AddPlayer(10, Player{ID: 21, Name: "Brynn"})
	g = g.UpdateCharacter(Character{
		ID: 30, Name: "Ireena", CharacterClass: "Fighter", Level: 4,
		IsActive: true, GameID: 10, PlayerID: 21,
	})

	p20, _ := g.Player(20)
	p21, _ := g.Player(21)
	if len(p20.Characters) != 0 {
		t.Errorf("character still under old player: %+v", p20.Characters)
	}
	if len(p21.Characters) != 1 || p21.Characters[0].Level != 4 {
		t.Errorf("character not re-homed: %+v", p21.Characters)
	}
}

func TestGameOptions(t *testing.T) {
	g := strahdGraph()
	g = g.AddGame(Game{ID: 11, Title: "Rime of the Frostmaiden", System: "D&D5e", Status: "planning"})

	want := []Option{
		{Value: 10, Label: "Curse of Strahd"},
		{Value: 11, Label: "Rime of the Frostmaiden"},
	}
	if got := g.GameOptions(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if opts := g.CharacterOptions(); len(opts) != 1 || opts[0] != (Option{Value: 30, Label: "Ireena"}) {
		t.Errorf("unexpected character options: %+v", opts)
	}
}
