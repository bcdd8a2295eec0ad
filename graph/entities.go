package graph

// Wire-shaped entities. JSON tags match the REST API payloads; nested
// collections are nil when an endpoint omits them, which the merge rules
// in the update operations rely on.

type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Games    []Game   `json:"games"`
	Players  []Player `json:"players,omitempty"`
}

type Game struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	System      string    `json:"system"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	Setting     string    `json:"setting,omitempty"`
	Players     []Player  `json:"players"`
	Sessions    []Session `json:"sessions"`
}

type Player struct {
	ID         int64       `json:"id"`
	Name       string      `json:"name"`
	Summary    string      `json:"summary,omitempty"`
	Characters []Character `json:"characters"`
}

type Character struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CharacterClass string `json:"character_class"`
	Level          int    `json:"level"`
	Icon           string `json:"icon,omitempty"`
	IsActive       bool   `json:"is_active"`
	GameID         int64  `json:"game_id"`
	PlayerID       int64  `json:"player_id"`
}

type Session struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Summary string `json:"summary,omitempty"`
	GameID  int64  `json:"game_id"`
}

// CharacterDetail is a character with its game and player denormalized in,
// as returned by AllCharacters. Game and Player carry scalar fields only.
type CharacterDetail struct {
	Character
	Game   Game   `json:"game"`
	Player Player `json:"player"`
}

// Option is a {value, label} pair for selection UI.
type Option struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}
