package campaign

import (
	"time"

	"questlog/auth"
	"questlog/graph"
	"questlog/store"
)

// CreateGame persists a new game for the user. The returned view carries
// empty (not nil) player and session lists, matching the creation payload
// the reconciling client appends verbatim.
func (s *Service) CreateGame(userID int64, params GameParams) (graph.Game, error) {
	if err := params.validate(); err != nil {
		return graph.Game{}, err
	}

	row := &store.Game{
		UserID:      userID,
		Title:       params.Title,
		System:      params.System,
		Status:      params.Status,
		Description: params.Description,
		StartDate:   params.StartDate,
		Setting:     params.Setting,
	}
	id, err := s.store.CreateGame(row)
	if err != nil {
		return graph.Game{}, err
	}
	row.ID = id

	view := gameView(row)
	view.Players = []graph.Player{}
	view.Sessions = []graph.Session{}
	s.log.Info("game created", "game_id", id, "user_id", userID)
	return view, nil
}

// UpdateGame applies a partial patch and returns the updated game, scalars
// only: nested collections stay untouched and omitted from the response.
func (s *Service) UpdateGame(userID, gameID int64, patch GamePatch) (graph.Game, error) {
	game, err := s.ownedGame(userID, gameID)
	if err != nil {
		return graph.Game{}, err
	}

	if patch.Title != nil {
		game.Title = auth.SanitizeText(*patch.Title)
	}
	if patch.System != nil {
		game.System = auth.SanitizeText(*patch.System)
	}
	if patch.Status != nil {
		game.Status = auth.SanitizeText(*patch.Status)
	}
	if patch.Description != nil {
		game.Description = auth.SanitizeText(*patch.Description)
	}
	if patch.StartDate != nil {
		game.StartDate = *patch.StartDate
	}
	if patch.Setting != nil {
		game.Setting = auth.SanitizeText(*patch.Setting)
	}

	if game.Title == "" {
		return graph.Game{}, invalid("title is required")
	}
	if game.System == "" {
		return graph.Game{}, invalid("system is required")
	}
	if game.Status == "" {
		return graph.Game{}, invalid("status is required")
	}
	if game.StartDate != "" {
		if _, err := time.Parse(dateLayout, game.StartDate); err != nil {
			return graph.Game{}, invalid("start_date must be YYYY-MM-DD")
		}
	}

	if err := s.store.UpdateGame(game); err != nil {
		return graph.Game{}, err
	}
	return gameView(game), nil
}

// DeleteGame removes the game and everything owned by it.
func (s *Service) DeleteGame(userID, gameID int64) error {
	if _, err := s.ownedGame(userID, gameID); err != nil {
		return err
	}
	if err := s.store.DeleteGame(gameID); err != nil {
		return err
	}
	s.log.Info("game deleted", "game_id", gameID, "user_id", userID)
	return nil
}
