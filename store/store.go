package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type Store interface {
	CreateUser(username, passwordHash string) (int64, error)
	GetUserByUsername(username string) (*User, error)
	GetUserByID(userID int64) (*User, error)

	CreateGame(g *Game) (int64, error)
	GetGame(gameID int64) (*Game, error)
	ListGamesByUser(userID int64) ([]*Game, error)
	UpdateGame(g *Game) error
	DeleteGame(gameID int64) error

	CreatePlayer(p *Player) (int64, error)
	GetPlayer(playerID int64) (*Player, error)
	ListPlayersByGame(gameID int64) ([]*Player, error)
	UpdatePlayer(p *Player) error
	DeletePlayer(playerID int64) error

	CreateCharacter(c *Character) (int64, error)
	GetCharacter(characterID int64) (*Character, error)
	ListCharactersByPlayer(playerID int64) ([]*Character, error)
	ListCharactersByGame(gameID int64) ([]*Character, error)
	UpdateCharacter(c *Character) error
	DeleteCharacter(characterID int64) error

	CreateSession(s *Session) (int64, error)
	GetSession(sessionID int64) (*Session, error)
	ListSessionsByGame(gameID int64) ([]*Session, error)
	UpdateSession(s *Session) error
	DeleteSession(sessionID int64) error

	Close() error
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    string
}

type Game struct {
	ID          int64
	UserID      int64
	Title       string
	System      string
	Status      string
	Description string
	StartDate   string
	Setting     string
	CreatedAt   string
}

type Player struct {
	ID        int64
	UserID    int64
	GameID    int64
	Name      string
	Summary   string
	CreatedAt string
}

type Character struct {
	ID             int64
	PlayerID       int64
	GameID         int64
	Name           string
	CharacterClass string
	Level          int
	Icon           string
	IsActive       bool
	CreatedAt      string
}

type Session struct {
	ID        int64
	GameID    int64
	Date      string
	Summary   string
	CreatedAt string
}

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) CreateUser(username, passwordHash string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)",
		username, passwordHash,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) GetUserByUsername(username string) (*User, error) {
	user := &User{}
	err := s.db.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) GetUserByID(userID int64) (*User, error) {
	user := &User{}
	err := s.db.QueryRow(
		"SELECT id, username, password_hash, created_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
