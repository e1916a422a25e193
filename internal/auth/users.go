// internal/auth/users.go
//
// Player accounts backed by SQLite.
// Responsibilities:
//   - Validate and create users with bcrypt-hashed passwords.
//   - Look users up by id or (case-insensitive) username.
//   - Accumulate per-user herding stats when a game finishes.

package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSignup      = errors.New("invalid signup")
)

// User matches the users table shape.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	GamesFinished int       `json:"gamesFinished"`
	CowsScored    int       `json:"cowsScored"`
	CowsLost      int       `json:"cowsLost"`
}

// Users is the SQLite-backed account store.
type Users struct{ db *sql.DB }

func NewUsers(db *sql.DB) *Users { return &Users{db: db} }

// Create validates input, checks uniqueness, hashes the password and inserts.
func (u *Users) Create(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateSignup(username, password); err != nil {
		return nil, err
	}
	var exists int
	err := u.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("auth: lookup username: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user := &User{
		ID:           NewID(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if _, err := u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt.Format(time.RFC3339),
	); err != nil {
		// A concurrent signup can win the race between lookup and insert.
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Authenticate returns the user when the password matches.
func (u *Users) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := u.scan(u.db.QueryRowContext(ctx, selectUser+` WHERE lower(username)=lower(?)`, strings.TrimSpace(username)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindByID loads a user or returns ErrUserNotFound.
func (u *Users) FindByID(ctx context.Context, id string) (*User, error) {
	return u.scan(u.db.QueryRowContext(ctx, selectUser+` WHERE id=?`, id))
}

// RecordGame adds a finished game's totals to the user's stats.
func (u *Users) RecordGame(ctx context.Context, userID string, scored, lost int) error {
	_, err := u.db.ExecContext(ctx,
		`UPDATE users SET games_finished = games_finished + 1,
		                  cows_scored = cows_scored + ?,
		                  cows_lost = cows_lost + ?
		 WHERE id=?`, scored, lost, userID)
	if err != nil {
		return fmt.Errorf("auth: record game: %w", err)
	}
	return nil
}

const selectUser = `SELECT id, username, password_hash, created_at, games_finished, cows_scored, cows_lost FROM users`

func (u *Users) scan(row *sql.Row) (*User, error) {
	var user User
	var created string
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &created,
		&user.GamesFinished, &user.CowsScored, &user.CowsLost)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: scan user: %w", err)
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &user, nil
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(username, password string) error {
	if len(username) < 3 || len(username) > 24 {
		return fmt.Errorf("%w: username must be 3-24 chars", ErrInvalidSignup)
	}
	for _, r := range username {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return fmt.Errorf("%w: username takes letters, numbers, underscore only", ErrInvalidSignup)
		}
	}
	if len(password) < 8 || len(password) > 72 {
		return fmt.Errorf("%w: password must be 8-72 chars", ErrInvalidSignup)
	}
	return nil
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewID creates a 22-char URL-safe, crypto-random identifier.
func NewID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
