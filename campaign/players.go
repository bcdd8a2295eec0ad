package campaign

import (
	"questlog/auth"
	"questlog/graph"
	"questlog/store"
)

// CreatePlayer adds a player to the user's game. When params carry a
// starting character it is created in the same call and returned alongside,
// so the client can reconcile both entities from one response.
func (s *Service) CreatePlayer(userID, gameID int64, params PlayerParams) (graph.Player, *graph.Character, error) {
	if _, err := s.ownedGame(userID, gameID); err != nil {
		return graph.Player{}, nil, err
	}
	if err := params.validate(); err != nil {
		return graph.Player{}, nil, err
	}

	row := &store.Player{
		UserID:  userID,
		GameID:  gameID,
		Name:    params.Name,
		Summary: params.Summary,
	}
	id, err := s.store.CreatePlayer(row)
	if err != nil {
		return graph.Player{}, nil, err
	}
	row.ID = id

	view := playerView(row)
	view.Characters = []graph.Character{}
	s.log.Info("player created", "player_id", id, "game_id", gameID, "user_id", userID)

	if params.Character == nil {
		return view, nil, nil
	}

	character, err := s.createCharacterRow(gameID, id, *params.Character)
	if err != nil {
		return graph.Player{}, nil, err
	}
	return view, &character, nil
}

// UpdatePlayer applies a partial patch to the player, scalars only.
func (s *Service) UpdatePlayer(userID, playerID int64, patch PlayerPatch) (graph.Player, error) {
	player, err := s.ownedPlayer(userID, playerID)
	if err != nil {
		return graph.Player{}, err
	}

	if patch.Name != nil {
		player.Name = auth.SanitizeText(*patch.Name)
	}
	if patch.Summary != nil {
		player.Summary = auth.SanitizeText(*patch.Summary)
	}
	if player.Name == "" {
		return graph.Player{}, invalid("name is required")
	}

	if err := s.store.UpdatePlayer(player); err != nil {
		return graph.Player{}, err
	}
	return playerView(player), nil
}

// DeletePlayer removes the player and cascades to its characters.
func (s *Service) DeletePlayer(userID, playerID int64) error {
	if _, err := s.ownedPlayer(userID, playerID); err != nil {
		return err
	}
	if err := s.store.DeletePlayer(playerID); err != nil {
		return err
	}
	s.log.Info("player deleted", "player_id", playerID, "user_id", userID)
	return nil
}
