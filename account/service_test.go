package account

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, "test-secret", time.Hour)

	if err := svc.Register(ctx, "ada", "lovelace1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, err := store.FindByUsername(ctx, "ada")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if u.PasswordHash == "lovelace1" {
		t.Fatal("password stored in plain text")
	}
	if cost, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil || cost != BcryptCost {
		t.Errorf("bcrypt cost = %d, %v", cost, err)
	}
	if u.ID == "" {
		t.Error("user ID not assigned")
	}

	token, err := svc.Login(ctx, "ada", "lovelace1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Username != "ada" || claims.ID != u.ID {
		t.Errorf("claims = %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("token lifetime = %v, want 1h", got)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), "s", 0)
	if err := svc.Register(ctx, "bob", "password"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Register(ctx, "bob", "another1"); !errors.Is(err, ErrUserExists) {
		t.Errorf("err = %v, want ErrUserExists", err)
	}
}

func TestRegisterRejectsPaddedShortUsername(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, "s", 0)

	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"padded short", "  a ", ErrInvalidUsername},
		{"whitespace only", "      ", ErrInvalidUsername},
		{"too long", strings.Repeat("x", MaxUsernameLen+1), ErrInvalidUsername},
		{"padded valid", "  eve  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(ctx, tt.username, "password1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := store.FindByUsername(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("short username was stored: %v", err)
	}
	if _, err := store.FindByUsername(ctx, "eve"); err != nil {
		t.Errorf("trimmed username not stored: %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore(), "s", time.Hour)
	if err := svc.Register(ctx, "carol", "correct-horse"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name, user, pass string
	}{
		{"wrong password", "carol", "battery-staple"},
		{"unknown user", "dave", "correct-horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tt.user, tt.pass); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestParseTokenRejects(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(NewMemoryStore(), "secret-a", time.Hour)
	svc.now = func() time.Time { return now }

	if err := svc.Register(ctx, "erin", "password"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := svc.Login(ctx, "erin", "password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	t.Run("expired", func(t *testing.T) {
		later := NewService(nil, "secret-a", time.Hour)
		later.now = func() time.Time { return now.Add(2 * time.Hour) }
		if _, err := later.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewService(nil, "secret-b", time.Hour)
		other.now = svc.now
		if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("no expiry", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Username: "erin"}).SignedString([]byte("secret-a"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := svc.ParseToken(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("none algorithm", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Username:         "erin",
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		if _, err := svc.ParseToken(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})
}

// TestMongoStore runs against a real server when STUDYHUB_TEST_MONGO_URI is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("STUDYHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("STUDYHUB_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	store, err := NewMongoStore(ctx, uri, "studyhub_test", "users_"+strings.ReplaceAll(t.Name(), "/", "_"))
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer store.Close(ctx)
	defer store.col.Drop(ctx)

	u := &User{ID: "u1", Username: "frank", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, &User{ID: "u2", Username: "frank", PasswordHash: "h"}); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate Create err = %v, want ErrUserExists", err)
	}
	got, err := store.FindByUsername(ctx, "frank")
	if err != nil || got.ID != "u1" {
		t.Errorf("FindByUsername = %+v, %v", got, err)
	}
	if _, err := store.FindByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
