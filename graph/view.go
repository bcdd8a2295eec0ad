package graph

// Derived read helpers. All views are computed from the flat tables on each
// call and never stored, so they cannot diverge from the entity identities.

// User materializes the nested user → games → players → characters tree.
// The second return is false when no user is logged in.
func (g Graph) User() (User, bool) {
	if !g.authed {
		return User{}, false
	}
	u := User{
		ID:       g.userID,
		Username: g.username,
		Games:    make([]Game, 0, len(g.gameOrder)),
	}
	for _, gid := range g.gameOrder {
		u.Games = append(u.Games, g.nestedGame(gid))
	}
	for _, pid := range g.unattached {
		u.Players = append(u.Players, g.nestedPlayer(pid))
	}
	return u, true
}

// Game returns the nested view of a single game.
func (g Graph) Game(gameID int64) (Game, bool) {
	if _, ok := g.games[gameID]; !ok {
		return Game{}, false
	}
	return g.nestedGame(gameID), true
}

// Player returns the nested view of a single player.
func (g Graph) Player(playerID int64) (Player, bool) {
	if _, ok := g.players[playerID]; !ok {
		return Player{}, false
	}
	return g.nestedPlayer(playerID), true
}

func (g Graph) nestedGame(gameID int64) Game {
	game := g.games[gameID]
	game.Players = make([]Player, 0, len(g.playerOrder[gameID]))
	for _, pid := range g.playerOrder[gameID] {
		game.Players = append(game.Players, g.nestedPlayer(pid))
	}
	game.Sessions = make([]Session, 0, len(g.sessionOrder[gameID]))
	for _, sid := range g.sessionOrder[gameID] {
		game.Sessions = append(game.Sessions, g.sessions[sid])
	}
	return game
}

func (g Graph) nestedPlayer(playerID int64) Player {
	p := g.players[playerID]
	p.Characters = make([]Character, 0, len(g.charOrder[playerID]))
	for _, cid := range g.charOrder[playerID] {
		p.Characters = append(p.Characters, g.characters[cid])
	}
	return p
}

// AllCharacters returns every character exactly once, in traversal order,
// with its game and player denormalized in. A character reachable through
// more than one path still appears once.
func (g Graph) AllCharacters() []CharacterDetail {
	seen := make(map[int64]bool, len(g.characters))
	out := make([]CharacterDetail, 0, len(g.characters))
	appendChars := func(pid int64) {
		for _, cid := range g.charOrder[pid] {
			if seen[cid] {
				continue
			}
			seen[cid] = true
			ch := g.characters[cid]
			out = append(out, CharacterDetail{
				Character: ch,
				Game:      g.games[ch.GameID],
				Player:    g.players[pid],
			})
		}
	}
	for _, gid := range g.gameOrder {
		for _, pid := range g.playerOrder[gid] {
			appendChars(pid)
		}
	}
	for _, pid := range g.unattached {
		appendChars(pid)
	}
	return out
}

// AllPlayers returns every player exactly once: per-game players in game
// order, then user-level players not already seen.
func (g Graph) AllPlayers() []Player {
	seen := make(map[int64]bool, len(g.players))
	out := make([]Player, 0, len(g.players))
	for _, gid := range g.gameOrder {
		for _, pid := range g.playerOrder[gid] {
			if seen[pid] {
				continue
			}
			seen[pid] = true
			out = append(out, g.nestedPlayer(pid))
		}
	}
	for _, pid := range g.unattached {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		out = append(out, g.nestedPlayer(pid))
	}
	return out
}

// GameOptions returns {id, title} pairs for selection UI.
func (g Graph) GameOptions() []Option {
	out := make([]Option, 0, len(g.gameOrder))
	for _, gid := range g.gameOrder {
		out = append(out, Option{Value: gid, Label: g.games[gid].Title})
	}
	return out
}

// PlayerOptions returns {id, name} pairs, deduplicated by id.
func (g Graph) PlayerOptions() []Option {
	players := g.AllPlayers()
	out := make([]Option, 0, len(players))
	for _, p := range players {
		out = append(out, Option{Value: p.ID, Label: p.Name})
	}
	return out
}

// CharacterOptions returns {id, name} pairs, deduplicated by id.
func (g Graph) CharacterOptions() []Option {
	chars := g.AllCharacters()
	out := make([]Option, 0, len(chars))
	for _, c := range chars {
		out = append(out, Option{Value: c.ID, Label: c.Name})
	}
	return out
}
