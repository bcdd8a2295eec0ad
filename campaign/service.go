package campaign

import (
	"errors"
	"log/slog"

	"questlog/graph"
	"questlog/store"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrNotOwner          = errors.New("401 unauthorized")
)

// ValidationError is a boundary-validation failure the caller surfaces to
// the user as a 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// Service owns every read and write of campaign data. Each operation walks
// from the authenticated user down to the touched entity, so nothing is
// reachable across user boundaries.
type Service struct {
	store store.Store
	log   *slog.Logger
}

func NewService(st store.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: st, log: log}
}

// UserGraph assembles the user's full nested object graph by replaying the
// flat store rows through graph operations. The nested tree is therefore a
// materialized (game_id, player_id) join of the flat tables by
// construction, never an independently maintained copy.
func (s *Service) UserGraph(userID int64) (graph.User, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return graph.User{}, err
	}
	if user == nil {
		return graph.User{}, ErrNotOwner
	}

	g := graph.Initialize(graph.User{ID: user.ID, Username: user.Username}).WithLogger(s.log)

	games, err := s.store.ListGamesByUser(userID)
	if err != nil {
		return graph.User{}, err
	}
	for _, gm := range games {
		g = g.AddGame(gameView(gm))

		players, err := s.store.ListPlayersByGame(gm.ID)
		if err != nil {
			return graph.User{}, err
		}
		for _, p := range players {
			g = g.AddPlayer(gm.ID, playerView(p))
		}

		characters, err := s.store.ListCharactersByGame(gm.ID)
		if err != nil {
			return graph.User{}, err
		}
		for _, c := range characters {
			g = g.AddCharacter(characterView(c))
		}

		sessions, err := s.store.ListSessionsByGame(gm.ID)
		if err != nil {
			return graph.User{}, err
		}
		for _, sess := range sessions {
			g = g.AddSession(gm.ID, sessionView(sess))
		}
	}

	u, _ := g.User()
	return u, nil
}

// ownedGame resolves the game and enforces ownership.
func (s *Service) ownedGame(userID, gameID int64) (*store.Game, error) {
	game, err := s.store.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.UserID != userID {
		return nil, ErrNotOwner
	}
	return game, nil
}

func (s *Service) ownedPlayer(userID, playerID int64) (*store.Player, error) {
	player, err := s.store.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}
	if player.UserID != userID {
		return nil, ErrNotOwner
	}
	return player, nil
}

func gameView(g *store.Game) graph.Game {
	return graph.Game{
		ID:          g.ID,
		Title:       g.Title,
		System:      g.System,
		Status:      g.Status,
		Description: g.Description,
		StartDate:   g.StartDate,
		Setting:     g.Setting,
	}
}

func playerView(p *store.Player) graph.Player {
	return graph.Player{
		ID:      p.ID,
		Name:    p.Name,
		Summary: p.Summary,
	}
}

func characterView(c *store.Character) graph.Character {
	return graph.Character{
		ID:             c.ID,
		Name:           c.Name,
		CharacterClass: c.CharacterClass,
		Level:          c.Level,
		Icon:           c.Icon,
		IsActive:       c.IsActive,
		GameID:         c.GameID,
		PlayerID:       c.PlayerID,
	}
}

func sessionView(s *store.Session) graph.Session {
	return graph.Session{
		ID:      s.ID,
		Date:    s.Date,
		Summary: s.Summary,
		GameID:  s.GameID,
	}
}
