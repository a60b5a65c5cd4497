package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

func TestSessionTokens_IssueParse(t *testing.T) {
	svc := NewSessionTokens("secret", time.Hour)

	token, err := svc.Issue("s1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != "s1" || claims.Subject != "s1" || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestSessionTokens_Errors(t *testing.T) {
	t.Run("sin secreto", func(t *testing.T) {
		svc := NewSessionTokens("", time.Hour)
		if _, err := svc.Issue("s1"); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("secreto distinto", func(t *testing.T) {
		token, _ := NewSessionTokens("secret", time.Hour).Issue("s1")
		if _, err := NewSessionTokens("other", time.Hour).Parse(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("expirado", func(t *testing.T) {
		svc := NewSessionTokens("secret", time.Minute)
		base := time.Now().UTC()
		svc.now = func() time.Time { return base }
		token, _ := svc.Issue("s1")
		svc.now = func() time.Time { return base.Add(2 * time.Minute) }
		if _, err := svc.Parse(token); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("tipo incorrecto", func(t *testing.T) {
		svc := NewSessionTokens("secret", time.Hour)
		now := time.Now().UTC()
		claims := SessionClaims{
			SessionID: "s1",
			TokenType: "access",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "relo-assistant",
				Subject:   "s1",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		if _, err := svc.Parse(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("token vacio", func(t *testing.T) {
		if _, err := NewSessionTokens("secret", time.Hour).Parse("  "); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid, got %v", err)
		}
	})
}

func TestSessionTokens_Revoke(t *testing.T) {
	svc := NewSessionTokensWithStore("secret", time.Hour, NewMemoryRevocationStore())
	token, _ := svc.Issue("s1")
	other, _ := svc.Issue("s1")

	if err := svc.Revoke(token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected revoked token to be invalid, got %v", err)
	}
	if _, err := svc.Parse(other); err != nil {
		t.Fatalf("other tokens of the session stay valid, got %v", err)
	}
}

func TestMemoryRevocationStore(t *testing.T) {
	store := NewMemoryRevocationStore()
	if ok, err := store.IsRevoked("missing"); err != nil || ok {
		t.Fatalf("expected false,nil; got %v,%v", ok, err)
	}
	if err := store.Revoke("j1", 50*time.Millisecond); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, _ := store.IsRevoked("j1"); !ok {
		t.Fatalf("expected revoked")
	}
	time.Sleep(70 * time.Millisecond)
	if ok, _ := store.IsRevoked("j1"); ok {
		t.Fatalf("expected entry to expire with the token")
	}
}

type mockRedisKVClient struct {
	lastSetKey string
	lastSetTTL time.Duration
	lastExists []string

	setErr    error
	existsErr error
	existsN   int64
}

func (m *mockRedisKVClient) Set(ctx context.Context, key string, _ interface{}, expiration time.Duration) *redis.StatusCmd {
	m.lastSetKey = key
	m.lastSetTTL = expiration
	cmd := redis.NewStatusCmd(ctx)
	if m.setErr != nil {
		cmd.SetErr(m.setErr)
		return cmd
	}
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKVClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.lastExists = keys
	cmd := redis.NewIntCmd(ctx)
	if m.existsErr != nil {
		cmd.SetErr(m.existsErr)
		return cmd
	}
	cmd.SetVal(m.existsN)
	return cmd
}

func TestRedisRevocationStore(t *testing.T) {
	t.Run("claves con prefijo", func(t *testing.T) {
		mock := &mockRedisKVClient{existsN: 1}
		store := &redisRevocationStore{client: mock, prefix: "relo:revoked:"}
		if err := store.Revoke(" j1 ", time.Minute); err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if mock.lastSetKey != "relo:revoked:j1" || mock.lastSetTTL != time.Minute {
			t.Fatalf("unexpected set: %q %v", mock.lastSetKey, mock.lastSetTTL)
		}
		ok, err := store.IsRevoked(" j1 ")
		if err != nil || !ok {
			t.Fatalf("expected true,nil; got %v,%v", ok, err)
		}
		if len(mock.lastExists) != 1 || mock.lastExists[0] != "relo:revoked:j1" {
			t.Fatalf("unexpected exists key: %+v", mock.lastExists)
		}
	})

	t.Run("errores y vacios", func(t *testing.T) {
		mock := &mockRedisKVClient{setErr: errors.New("set failed"), existsErr: errors.New("exists failed")}
		store := &redisRevocationStore{client: mock, prefix: "relo:revoked:"}
		if err := store.Revoke("", time.Minute); err != nil {
			t.Fatalf("empty jti should be a no-op, got %v", err)
		}
		if err := store.Revoke("j2", 0); err != nil {
			t.Fatalf("expired token should be a no-op, got %v", err)
		}
		if err := store.Revoke("j2", time.Minute); err == nil {
			t.Fatalf("expected set error")
		}
		if _, err := store.IsRevoked("j2"); err == nil {
			t.Fatalf("expected exists error")
		}
	})
}
