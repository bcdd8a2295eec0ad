package campaign

import (
	"time"

	"questlog/auth"
	"questlog/graph"
	"questlog/store"
)

// CreateSession appends a play-log entry to the user's game.
func (s *Service) CreateSession(userID, gameID int64, params SessionParams) (graph.Session, error) {
	if _, err := s.ownedGame(userID, gameID); err != nil {
		return graph.Session{}, err
	}
	if err := params.validate(); err != nil {
		return graph.Session{}, err
	}

	row := &store.Session{
		GameID:  gameID,
		Date:    params.Date,
		Summary: params.Summary,
	}
	id, err := s.store.CreateSession(row)
	if err != nil {
		return graph.Session{}, err
	}
	row.ID = id
	s.log.Info("session created", "session_id", id, "game_id", gameID, "user_id", userID)
	return sessionView(row), nil
}

// UpdateSession applies a partial patch to the play-log entry.
func (s *Service) UpdateSession(userID, sessionID int64, patch SessionPatch) (graph.Session, error) {
	session, err := s.ownedSession(userID, sessionID)
	if err != nil {
		return graph.Session{}, err
	}

	if patch.Date != nil {
		session.Date = *patch.Date
	}
	if patch.Summary != nil {
		session.Summary = auth.SanitizeText(*patch.Summary)
	}
	if session.Date == "" {
		return graph.Session{}, invalid("date is required")
	}
	if _, err := time.Parse(dateLayout, session.Date); err != nil {
		return graph.Session{}, invalid("date must be YYYY-MM-DD")
	}

	if err := s.store.UpdateSession(session); err != nil {
		return graph.Session{}, err
	}
	return sessionView(session), nil
}

func (s *Service) DeleteSession(userID, sessionID int64) error {
	if _, err := s.ownedSession(userID, sessionID); err != nil {
		return err
	}
	return s.store.DeleteSession(sessionID)
}

// ownedSession resolves the session through its game to the owning user.
func (s *Service) ownedSession(userID, sessionID int64) (*store.Session, error) {
	session, err := s.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if _, err := s.ownedGame(userID, session.GameID); err != nil {
		return nil, err
	}
	return session, nil
}
