// Package client is the consumer side of the campaign API: a thin HTTP
// client plus a reconciling Session that keeps a local graph in sync with
// the server after every successful mutation.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"questlog/campaign"
	"questlog/graph"
)

// APIError is a non-2xx response, carrying the server's error message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	base string
	http *http.Client
}

func New(base string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Signup(ctx context.Context, username, password string) (graph.User, error) {
	var u graph.User
	err := c.do(ctx, http.MethodPost, "/signup", credentials{username, password}, &u)
	return u, err
}

func (c *Client) Login(ctx context.Context, username, password string) (graph.User, error) {
	var u graph.User
	err := c.do(ctx, http.MethodPost, "/login", credentials{username, password}, &u)
	return u, err
}

func (c *Client) CheckSession(ctx context.Context) (graph.User, error) {
	var u graph.User
	err := c.do(ctx, http.MethodGet, "/check_session", nil, &u)
	return u, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/logout", nil, nil)
}

func (c *Client) CreateGame(ctx context.Context, params campaign.GameParams) (graph.Game, error) {
	var g graph.Game
	err := c.do(ctx, http.MethodPost, "/games", params, &g)
	return g, err
}

func (c *Client) UpdateGame(ctx context.Context, gameID int64, patch campaign.GamePatch) (graph.Game, error) {
	var g graph.Game
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/games/%d", gameID), patch, &g)
	return g, err
}

func (c *Client) DeleteGame(ctx context.Context, gameID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/games/%d", gameID), nil, nil)
}

// CreatedPlayer is the player-creation response; Character is set when a
// starting character was submitted alongside (?include=character).
type CreatedPlayer struct {
	graph.Player
	Character *graph.Character `json:"character"`
}

func (c *Client) CreatePlayer(ctx context.Context, gameID int64, params campaign.PlayerParams) (CreatedPlayer, error) {
	path := fmt.Sprintf("/games/%d/players", gameID)
	if params.Character != nil {
		path += "?include=character"
	}
	var p CreatedPlayer
	err := c.do(ctx, http.MethodPost, path, params, &p)
	return p, err
}

func (c *Client) UpdatePlayer(ctx context.Context, playerID int64, patch campaign.PlayerPatch) (graph.Player, error) {
	var p graph.Player
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/players/%d", playerID), patch, &p)
	return p, err
}

func (c *Client) DeletePlayer(ctx context.Context, playerID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/players/%d", playerID), nil, nil)
}

func (c *Client) CreateCharacter(ctx context.Context, gameID, playerID int64, params campaign.CharacterParams) (graph.Character, error) {
	var ch graph.Character
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/games/%d/players/%d/characters", gameID, playerID), params, &ch)
	return ch, err
}

// CreateCharacterForPlayer uses the flat route form, carrying game_id in
// the body instead of the path.
func (c *Client) CreateCharacterForPlayer(ctx context.Context, playerID, gameID int64, params campaign.CharacterParams) (graph.Character, error) {
	body := struct {
		campaign.CharacterParams
		GameID int64 `json:"game_id"`
	}{params, gameID}
	var ch graph.Character
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/players/%d/characters", playerID), body, &ch)
	return ch, err
}

func (c *Client) UpdateCharacter(ctx context.Context, characterID int64, patch campaign.CharacterPatch) (graph.Character, error) {
	var ch graph.Character
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/characters/%d", characterID), patch, &ch)
	return ch, err
}

func (c *Client) DeleteCharacter(ctx context.Context, characterID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/characters/%d", characterID), nil, nil)
}

func (c *Client) CreateSession(ctx context.Context, gameID int64, params campaign.SessionParams) (graph.Session, error) {
	var s graph.Session
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/games/%d/sessions", gameID), params, &s)
	return s, err
}

func (c *Client) UpdateSession(ctx context.Context, sessionID int64, patch campaign.SessionPatch) (graph.Session, error) {
	var s graph.Session
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/sessions/%d", sessionID), patch, &s)
	return s, err
}

func (c *Client) DeleteSession(ctx context.Context, sessionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sessions/%d", sessionID), nil, nil)
}
