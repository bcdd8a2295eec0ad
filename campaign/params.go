package campaign

import (
	"time"

	"questlog/auth"
)

const dateLayout = "2006-01-02"

// Request parameter types, parsed and validated at the boundary before any
// entity is constructed.

type GameParams struct {
	Title       string `json:"title"`
	System      string `json:"system"`
	Status      string `json:"status"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	Setting     string `json:"setting"`
}

func (p *GameParams) validate() error {
	p.Title = auth.SanitizeText(p.Title)
	p.System = auth.SanitizeText(p.System)
	p.Status = auth.SanitizeText(p.Status)
	p.Description = auth.SanitizeText(p.Description)
	p.Setting = auth.SanitizeText(p.Setting)
	if p.Title == "" {
		return invalid("title is required")
	}
	if p.System == "" {
		return invalid("system is required")
	}
	if p.Status == "" {
		return invalid("status is required")
	}
	if p.StartDate != "" {
		if _, err := time.Parse(dateLayout, p.StartDate); err != nil {
			return invalid("start_date must be YYYY-MM-DD")
		}
	}
	return nil
}

type GamePatch struct {
	Title       *string `json:"title"`
	System      *string `json:"system"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	Setting     *string `json:"setting"`
}

type PlayerParams struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	// Character, when present, is a starting character created together
	// with the player (the ?include=character creation variant).
	Character *CharacterParams `json:"character"`
}

func (p *PlayerParams) validate() error {
	p.Name = auth.SanitizeText(p.Name)
	p.Summary = auth.SanitizeText(p.Summary)
	if p.Name == "" {
		return invalid("name is required")
	}
	if p.Character != nil {
		if err := p.Character.validate(); err != nil {
			return err
		}
	}
	return nil
}

type PlayerPatch struct {
	Name    *string `json:"name"`
	Summary *string `json:"summary"`
}

type CharacterParams struct {
	Name           string `json:"name"`
	CharacterClass string `json:"character_class"`
	Level          int    `json:"level"`
	Icon           string `json:"icon"`
	IsActive       *bool  `json:"is_active"`
}

func (p *CharacterParams) validate() error {
	p.Name = auth.SanitizeText(p.Name)
	p.CharacterClass = auth.SanitizeText(p.CharacterClass)
	if p.Name == "" {
		return invalid("name is required")
	}
	if p.CharacterClass == "" {
		return invalid("character_class is required")
	}
	if p.Level < 1 {
		return invalid("level must be at least 1")
	}
	return nil
}

type CharacterPatch struct {
	Name           *string `json:"name"`
	CharacterClass *string `json:"character_class"`
	Level          *int    `json:"level"`
	Icon           *string `json:"icon"`
	IsActive       *bool   `json:"is_active"`
	PlayerID       *int64  `json:"player_id"`
}

type SessionParams struct {
	Date    string `json:"date"`
	Summary string `json:"summary"`
}

func (p *SessionParams) validate() error {
	p.Summary = auth.SanitizeText(p.Summary)
	if p.Date == "" {
		return invalid("date is required")
	}
	if _, err := time.Parse(dateLayout, p.Date); err != nil {
		return invalid("date must be YYYY-MM-DD")
	}
	return nil
}

type SessionPatch struct {
	Date    *string `json:"date"`
	Summary *string `json:"summary"`
}
