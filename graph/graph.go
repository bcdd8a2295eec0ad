package graph

import (
	"log/slog"
	"maps"
	"slices"
)

// Graph is one immutable snapshot of the authenticated user's object graph.
// Entities live in flat tables keyed by id; the nested games→players→
// characters tree is materialized only at the read boundary, so it can never
// diverge from the flat identities. Every operation returns a new Graph and
// leaves the receiver untouched, so a holder of an old snapshot always sees
// either the full pre-update or full post-update state.
//
// Referential-integrity misses (parent not found) degrade to a no-op with a
// warning diagnostic; they never panic.
type Graph struct {
	authed   bool
	userID   int64
	username string

	games      map[int64]Game      // scalar fields only, Players/Sessions nil
	players    map[int64]Player    // scalar fields only, Characters nil
	characters map[int64]Character
	sessions   map[int64]Session

	gameOrder    []int64
	playerOrder  map[int64][]int64 // game id -> player ids, insertion order
	charOrder    map[int64][]int64 // player id -> character ids
	sessionOrder map[int64][]int64 // game id -> session ids
	unattached   []int64           // players owned by the user, outside any game

	playerGame map[int64]int64 // player id -> owning game id

	log *slog.Logger
}

// Empty returns the unauthenticated graph. Used at startup and on logout.
func Empty() Graph {
	return Graph{
		games:        make(map[int64]Game),
		players:      make(map[int64]Player),
		characters:   make(map[int64]Character),
		sessions:     make(map[int64]Session),
		playerOrder:  make(map[int64][]int64),
		charOrder:    make(map[int64][]int64),
		sessionOrder: make(map[int64][]int64),
		playerGame:   make(map[int64]int64),
	}
}

// Initialize replaces the whole graph with the server's canonical user
// payload. No partial merge: prior state is discarded.
func Initialize(u User) Graph {
	g := Empty()
	g.authed = true
	g.userID = u.ID
	g.username = u.Username
	for _, game := range u.Games {
		g.ingestGame(game)
	}
	for _, p := range u.Players {
		g.ingestUnattachedPlayer(p)
	}
	return g
}

// WithLogger returns a copy of the graph emitting diagnostics to l instead
// of slog.Default(). The logger survives subsequent operations.
func (g Graph) WithLogger(l *slog.Logger) Graph {
	g.log = l
	return g
}

// Authenticated reports whether the graph holds a logged-in user.
func (g Graph) Authenticated() bool {
	return g.authed
}

func (g Graph) logger() *slog.Logger {
	if g.log != nil {
		return g.log
	}
	return slog.Default()
}

// clone deep-copies the index structures. Entity values are shared with the
// receiver; they are replaced wholesale, never mutated in place.
func (g Graph) clone() Graph {
	c := g
	c.games = maps.Clone(g.games)
	c.players = maps.Clone(g.players)
	c.characters = maps.Clone(g.characters)
	c.sessions = maps.Clone(g.sessions)
	c.gameOrder = slices.Clone(g.gameOrder)
	c.unattached = slices.Clone(g.unattached)
	c.playerGame = maps.Clone(g.playerGame)
	c.playerOrder = cloneOrder(g.playerOrder)
	c.charOrder = cloneOrder(g.charOrder)
	c.sessionOrder = cloneOrder(g.sessionOrder)
	return c
}

func cloneOrder(m map[int64][]int64) map[int64][]int64 {
	c := make(map[int64][]int64, len(m))
	for k, v := range m {
		c[k] = slices.Clone(v)
	}
	return c
}

// ingestGame normalizes one nested game into the flat tables. Mutates the
// receiver, so callers must already hold a private copy.
func (g *Graph) ingestGame(game Game) {
	if _, ok := g.games[game.ID]; !ok {
		g.gameOrder = append(g.gameOrder, game.ID)
	}
	scalar := game
	scalar.Players = nil
	scalar.Sessions = nil
	g.games[game.ID] = scalar
	for _, p := range game.Players {
		g.ingestPlayer(game.ID, p)
	}
	for _, s := range game.Sessions {
		s.GameID = game.ID
		g.ingestSession(game.ID, s)
	}
}

func (g *Graph) ingestPlayer(gameID int64, p Player) {
	if _, ok := g.players[p.ID]; !ok {
		scalar := p
		scalar.Characters = nil
		g.players[p.ID] = scalar
	}
	if _, ok := g.playerGame[p.ID]; !ok {
		g.playerGame[p.ID] = gameID
		g.playerOrder[gameID] = append(g.playerOrder[gameID], p.ID)
	}
	for _, c := range p.Characters {
		if c.PlayerID == 0 {
			c.PlayerID = p.ID
		}
		if c.GameID == 0 {
			c.GameID = gameID
		}
		g.ingestCharacter(c)
	}
}

func (g *Graph) ingestUnattachedPlayer(p Player) {
	if _, ok := g.players[p.ID]; !ok {
		scalar := p
		scalar.Characters = nil
		g.players[p.ID] = scalar
	}
	if !slices.Contains(g.unattached, p.ID) {
		g.unattached = append(g.unattached, p.ID)
	}
	for _, c := range p.Characters {
		if c.PlayerID == 0 {
			c.PlayerID = p.ID
		}
		g.ingestCharacter(c)
	}
}

func (g *Graph) ingestCharacter(c Character) {
	if _, ok := g.characters[c.ID]; ok {
		return
	}
	g.characters[c.ID] = c
	g.charOrder[c.PlayerID] = append(g.charOrder[c.PlayerID], c.ID)
}

func (g *Graph) ingestSession(gameID int64, s Session) {
	if _, ok := g.sessions[s.ID]; ok {
		return
	}
	s.GameID = gameID
	g.sessions[s.ID] = s
	g.sessionOrder[gameID] = append(g.sessionOrder[gameID], s.ID)
}

// AddGame appends a game to the user's games. Re-adding an existing id is a
// no-op, so replayed creation responses cannot duplicate a game.
func (g Graph) AddGame(game Game) Graph {
	if _, ok := g.games[game.ID]; ok {
		g.logger().Warn("graph: add game: id already present", "game_id", game.ID)
		return g
	}
	c := g.clone()
	c.ingestGame(game)
	return c
}

// UpdateGame replaces the matching game's scalar fields. Nested collections
// are preserved when the payload omits them (nil), so a PATCH response that
// carries only scalars never erases players or sessions. A non-nil Players
// or Sessions slice replaces that collection wholesale.
func (g Graph) UpdateGame(game Game) Graph {
	if _, ok := g.games[game.ID]; !ok {
		g.logger().Warn("graph: update game: not found", "game_id", game.ID)
		return g
	}
	c := g.clone()
	scalar := game
	scalar.Players = nil
	scalar.Sessions = nil
	c.games[game.ID] = scalar
	if game.Players != nil {
		c.dropGamePlayers(game.ID)
		for _, p := range game.Players {
			c.ingestPlayer(game.ID, p)
		}
	}
	if game.Sessions != nil {
		c.dropGameSessions(game.ID)
		for _, s := range game.Sessions {
			c.ingestSession(game.ID, s)
		}
	}
	return c
}

// RemoveGame removes the game and everything reachable only through it:
// its player memberships, their characters, and its sessions. A player that
// is also attached directly to the user survives, its characters in this
// game do not.
func (g Graph) RemoveGame(gameID int64) Graph {
	if _, ok := g.games[gameID]; !ok {
		g.logger().Warn("graph: remove game: not found", "game_id", gameID)
		return g
	}
	c := g.clone()
	c.dropGamePlayers(gameID)
	c.dropGameSessions(gameID)
	delete(c.games, gameID)
	c.gameOrder = slices.DeleteFunc(c.gameOrder, func(id int64) bool { return id == gameID })
	return c
}

func (g *Graph) dropGamePlayers(gameID int64) {
	for _, pid := range g.playerOrder[gameID] {
		g.dropCharactersOf(pid)
		delete(g.playerGame, pid)
		if !slices.Contains(g.unattached, pid) {
			delete(g.players, pid)
		}
	}
	delete(g.playerOrder, gameID)
}

func (g *Graph) dropGameSessions(gameID int64) {
	for _, sid := range g.sessionOrder[gameID] {
		delete(g.sessions, sid)
	}
	delete(g.sessionOrder, gameID)
}

func (g *Graph) dropCharactersOf(playerID int64) {
	for _, cid := range g.charOrder[playerID] {
		delete(g.characters, cid)
	}
	delete(g.charOrder, playerID)
}

// AddPlayer appends a player to the given game. An unknown game degrades to
// a no-op with a data-integrity warning. When the id already exists in that
// game — typically a stub synthesized by AddCharacter — the scalar fields
// are merged in and existing characters kept.
func (g Graph) AddPlayer(gameID int64, p Player) Graph {
	if _, ok := g.games[gameID]; !ok {
		g.logger().Warn("graph: add player: game not found", "game_id", gameID, "player_id", p.ID)
		return g
	}
	if owner, ok := g.playerGame[p.ID]; ok {
		if owner != gameID {
			g.logger().Warn("graph: add player: already in another game",
				"player_id", p.ID, "game_id", gameID, "owner_game_id", owner)
			return g
		}
		c := g.clone()
		scalar := p
		scalar.Characters = nil
		c.players[p.ID] = scalar
		for _, ch := range p.Characters {
			if ch.PlayerID == 0 {
				ch.PlayerID = p.ID
			}
			if ch.GameID == 0 {
				ch.GameID = gameID
			}
			c.ingestCharacter(ch)
		}
		return c
	}
	c := g.clone()
	c.ingestPlayer(gameID, p)
	return c
}

// UpdatePlayer replaces the player with the matching id wherever it lives.
// Characters are preserved when the payload omits them, replaced when a
// non-nil slice is present.
func (g Graph) UpdatePlayer(p Player) Graph {
	if _, ok := g.players[p.ID]; !ok {
		g.logger().Warn("graph: update player: not found", "player_id", p.ID)
		return g
	}
	c := g.clone()
	scalar := p
	scalar.Characters = nil
	c.players[p.ID] = scalar
	if p.Characters != nil {
		c.dropCharactersOf(p.ID)
		gameID := c.playerGame[p.ID]
		for _, ch := range p.Characters {
			if ch.PlayerID == 0 {
				ch.PlayerID = p.ID
			}
			if ch.GameID == 0 {
				ch.GameID = gameID
			}
			c.ingestCharacter(ch)
		}
	}
	return c
}

// RemovePlayer removes the player from whichever game contains it and
// cascades to its characters, so no character can outlive its player.
func (g Graph) RemovePlayer(playerID int64) Graph {
	if _, ok := g.players[playerID]; !ok {
		g.logger().Warn("graph: remove player: not found", "player_id", playerID)
		return g
	}
	c := g.clone()
	c.dropCharactersOf(playerID)
	if gameID, ok := c.playerGame[playerID]; ok {
		c.playerOrder[gameID] = slices.DeleteFunc(c.playerOrder[gameID], func(id int64) bool { return id == playerID })
		delete(c.playerGame, playerID)
	}
	c.unattached = slices.DeleteFunc(c.unattached, func(id int64) bool { return id == playerID })
	delete(c.players, playerID)
	return c
}

// AddCharacter files the character under its game and player, both taken
// from the payload. When the player is missing from that game — a creation
// response applied before its player's — a minimal player stub is
// synthesized so the character is never dropped; a later AddPlayer fills the
// stub in. An unknown game is a no-op, as is a character id already present.
func (g Graph) AddCharacter(ch Character) Graph {
	if _, ok := g.games[ch.GameID]; !ok {
		g.logger().Warn("graph: add character: game not found", "game_id", ch.GameID, "character_id", ch.ID)
		return g
	}
	if _, ok := g.characters[ch.ID]; ok {
		g.logger().Warn("graph: add character: id already present", "character_id", ch.ID)
		return g
	}
	c := g.clone()
	if _, ok := c.players[ch.PlayerID]; !ok {
		c.ingestPlayer(ch.GameID, Player{ID: ch.PlayerID})
	} else if owner, ok := c.playerGame[ch.PlayerID]; !ok {
		// player known only as unattached, attach it here
		c.playerGame[ch.PlayerID] = ch.GameID
		c.playerOrder[ch.GameID] = append(c.playerOrder[ch.GameID], ch.PlayerID)
	} else if owner != ch.GameID {
		g.logger().Warn("graph: add character: player belongs to another game",
			"character_id", ch.ID, "player_id", ch.PlayerID, "game_id", ch.GameID, "owner_game_id", owner)
	}
	c.ingestCharacter(ch)
	return c
}

// UpdateCharacter replaces the character with the matching id. Zero matches
// is tolerated silently apart from a diagnostic, since the character may
// have been deleted concurrently. A changed player_id re-homes the
// character under its new player.
func (g Graph) UpdateCharacter(ch Character) Graph {
	prev, ok := g.characters[ch.ID]
	if !ok {
		g.logger().Warn("graph: update character: not found", "character_id", ch.ID)
		return g
	}
	c := g.clone()
	if ch.PlayerID != prev.PlayerID {
		c.charOrder[prev.PlayerID] = slices.DeleteFunc(c.charOrder[prev.PlayerID], func(id int64) bool { return id == ch.ID })
		c.charOrder[ch.PlayerID] = append(c.charOrder[ch.PlayerID], ch.ID)
	}
	c.characters[ch.ID] = ch
	return c
}

// RemoveCharacter removes the character wherever it is found.
func (g Graph) RemoveCharacter(characterID int64) Graph {
	ch, ok := g.characters[characterID]
	if !ok {
		g.logger().Warn("graph: remove character: not found", "character_id", characterID)
		return g
	}
	c := g.clone()
	c.charOrder[ch.PlayerID] = slices.DeleteFunc(c.charOrder[ch.PlayerID], func(id int64) bool { return id == characterID })
	delete(c.characters, characterID)
	return c
}

// AddSession appends a play-log entry to the given game's sessions.
func (g Graph) AddSession(gameID int64, s Session) Graph {
	if _, ok := g.games[gameID]; !ok {
		g.logger().Warn("graph: add session: game not found", "game_id", gameID, "session_id", s.ID)
		return g
	}
	if _, ok := g.sessions[s.ID]; ok {
		g.logger().Warn("graph: add session: id already present", "session_id", s.ID)
		return g
	}
	c := g.clone()
	c.ingestSession(gameID, s)
	return c
}

// UpdateSession replaces the session with the matching id, keeping it under
// its current game when the payload has no game_id.
func (g Graph) UpdateSession(s Session) Graph {
	prev, ok := g.sessions[s.ID]
	if !ok {
		g.logger().Warn("graph: update session: not found", "session_id", s.ID)
		return g
	}
	c := g.clone()
	if s.GameID == 0 {
		s.GameID = prev.GameID
	}
	if s.GameID != prev.GameID {
		c.sessionOrder[prev.GameID] = slices.DeleteFunc(c.sessionOrder[prev.GameID], func(id int64) bool { return id == s.ID })
		c.sessionOrder[s.GameID] = append(c.sessionOrder[s.GameID], s.ID)
	}
	c.sessions[s.ID] = s
	return c
}

// RemoveSession removes the session from its game's play log.
func (g Graph) RemoveSession(sessionID int64) Graph {
	s, ok := g.sessions[sessionID]
	if !ok {
		g.logger().Warn("graph: remove session: not found", "session_id", sessionID)
		return g
	}
	c := g.clone()
	c.sessionOrder[s.GameID] = slices.DeleteFunc(c.sessionOrder[s.GameID], func(id int64) bool { return id == sessionID })
	delete(c.sessions, sessionID)
	return c
}
