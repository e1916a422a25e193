package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	ss, exp, err := tokens.Sign("u1", "shep")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry %v is not in the future", exp)
	}
	claims, err := tokens.Parse(ss)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.ID != "u1" || claims.Username != "shep" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokensRejectWrongSecretAndExpiry(t *testing.T) {
	ss, _, err := NewTokens("secret", time.Hour).Sign("u1", "shep")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokens("other", time.Hour).Parse(ss); err == nil {
		t.Error("token accepted with the wrong secret")
	}

	expired := NewTokens("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Sign("u1", "shep")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokens("secret", time.Hour).Parse(old); err == nil {
		t.Error("expired token accepted")
	}
	if _, err := NewTokens("secret", time.Hour).Parse("not.a.token"); err == nil {
		t.Error("garbage accepted")
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		user, pw string
		ok       bool
	}{
		{"valid", "shep_dog", "password1", true},
		{"short name", "ab", "password1", false},
		{"long name", strings.Repeat("a", 25), "password1", false},
		{"bad rune", "shep dog", "password1", false},
		{"short password", "shep", "short", false},
		{"long password", "shep", strings.Repeat("p", 73), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.user, tt.pw)
			if (err == nil) != tt.ok {
				t.Errorf("ValidateSignup(%q, %q) = %v", tt.user, tt.pw, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidSignup) {
				t.Errorf("error %v does not wrap ErrInvalidSignup", err)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(string(hash), "password1") {
		t.Error("correct password rejected")
	}
	if CheckPassword(string(hash), "password2") {
		t.Error("wrong password accepted")
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if len(a) != 22 || a == b {
		t.Errorf("ids %q %q", a, b)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	notNull := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique", unique, true},
		{"wrapped unique", fmt.Errorf("exec: %w", unique), true},
		{"other constraint", notNull, false},
		{"plain error", errors.New("disk I/O error"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
