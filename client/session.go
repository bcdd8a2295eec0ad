package client

import (
	"context"
	"log/slog"
	"sync"

	"questlog/campaign"
	"questlog/graph"
)

// Session pairs the API client with a local graph and keeps them
// consistent: every successful mutation applies the server's canonical
// response to the graph, never optimistic local data.
//
// Each call captures the session epoch before going to the network; the
// epoch advances on login, signup, and logout, so a slow response that
// lands after the session changed is discarded instead of resurrecting
// stale entities into the new graph.
type Session struct {
	api *Client
	log *slog.Logger

	mu    sync.Mutex
	graph graph.Graph
	epoch uint64
}

func NewSession(api *Client, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		api:   api,
		log:   log,
		graph: graph.Empty().WithLogger(log),
	}
}

// Graph returns the current immutable snapshot.
func (s *Session) Graph() graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

func (s *Session) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// apply runs fn against the graph unless the epoch moved since the call
// started.
func (s *Session) apply(epoch uint64, fn func(graph.Graph) graph.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		s.log.Warn("discarding stale response", "call_epoch", epoch, "session_epoch", s.epoch)
		return
	}
	s.graph = fn(s.graph)
}

func (s *Session) reset(u graph.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.graph = graph.Initialize(u).WithLogger(s.log)
}

func (s *Session) Signup(ctx context.Context, username, password string) error {
	u, err := s.api.Signup(ctx, username, password)
	if err != nil {
		return err
	}
	s.reset(u)
	return nil
}

func (s *Session) Login(ctx context.Context, username, password string) error {
	u, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.reset(u)
	return nil
}

func (s *Session) CheckSession(ctx context.Context) error {
	u, err := s.api.CheckSession(ctx)
	if err != nil {
		return err
	}
	s.reset(u)
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.graph = graph.Empty().WithLogger(s.log)
	return nil
}

func (s *Session) CreateGame(ctx context.Context, params campaign.GameParams) (graph.Game, error) {
	epoch := s.currentEpoch()
	game, err := s.api.CreateGame(ctx, params)
	if err != nil {
		return graph.Game{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.AddGame(game) })
	return game, nil
}

func (s *Session) UpdateGame(ctx context.Context, gameID int64, patch campaign.GamePatch) (graph.Game, error) {
	epoch := s.currentEpoch()
	game, err := s.api.UpdateGame(ctx, gameID, patch)
	if err != nil {
		return graph.Game{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.UpdateGame(game) })
	return game, nil
}

func (s *Session) DeleteGame(ctx context.Context, gameID int64) error {
	epoch := s.currentEpoch()
	if err := s.api.DeleteGame(ctx, gameID); err != nil {
		return err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.RemoveGame(gameID) })
	return nil
}

func (s *Session) CreatePlayer(ctx context.Context, gameID int64, params campaign.PlayerParams) (CreatedPlayer, error) {
	epoch := s.currentEpoch()
	created, err := s.api.CreatePlayer(ctx, gameID, params)
	if err != nil {
		return CreatedPlayer{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph {
		g = g.AddPlayer(gameID, created.Player)
		if created.Character != nil {
			g = g.AddCharacter(*created.Character)
		}
		return g
	})
	return created, nil
}

func (s *Session) UpdatePlayer(ctx context.Context, playerID int64, patch campaign.PlayerPatch) (graph.Player, error) {
	epoch := s.currentEpoch()
	player, err := s.api.UpdatePlayer(ctx, playerID, patch)
	if err != nil {
		return graph.Player{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.UpdatePlayer(player) })
	return player, nil
}

func (s *Session) DeletePlayer(ctx context.Context, playerID int64) error {
	epoch := s.currentEpoch()
	if err := s.api.DeletePlayer(ctx, playerID); err != nil {
		return err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.RemovePlayer(playerID) })
	return nil
}

func (s *Session) CreateCharacter(ctx context.Context, gameID, playerID int64, params campaign.CharacterParams) (graph.Character, error) {
	epoch := s.currentEpoch()
	character, err := s.api.CreateCharacter(ctx, gameID, playerID, params)
	if err != nil {
		return graph.Character{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.AddCharacter(character) })
	return character, nil
}

func (s *Session) UpdateCharacter(ctx context.Context, characterID int64, patch campaign.CharacterPatch) (graph.Character, error) {
	epoch := s.currentEpoch()
	character, err := s.api.UpdateCharacter(ctx, characterID, patch)
	if err != nil {
		return graph.Character{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.UpdateCharacter(character) })
	return character, nil
}

func (s *Session) DeleteCharacter(ctx context.Context, characterID int64) error {
	epoch := s.currentEpoch()
	if err := s.api.DeleteCharacter(ctx, characterID); err != nil {
		return err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.RemoveCharacter(characterID) })
	return nil
}

func (s *Session) CreateSession(ctx context.Context, gameID int64, params campaign.SessionParams) (graph.Session, error) {
	epoch := s.currentEpoch()
	session, err := s.api.CreateSession(ctx, gameID, params)
	if err != nil {
		return graph.Session{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.AddSession(gameID, session) })
	return session, nil
}

func (s *Session) UpdateSession(ctx context.Context, sessionID int64, patch campaign.SessionPatch) (graph.Session, error) {
	epoch := s.currentEpoch()
	session, err := s.api.UpdateSession(ctx, sessionID, patch)
	if err != nil {
		return graph.Session{}, err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.UpdateSession(session) })
	return session, nil
}

func (s *Session) DeleteSession(ctx context.Context, sessionID int64) error {
	epoch := s.currentEpoch()
	if err := s.api.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	s.apply(epoch, func(g graph.Graph) graph.Graph { return g.RemoveSession(sessionID) })
	return nil
}
