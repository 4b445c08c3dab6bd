package auth

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/go-energy/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedUser(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: "session@test", Password: "x", IsActive: true}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return user
}

func TestSessionLifecycle(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	store := NewStore(conn, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	uid, ok := store.Lookup(ctx, token)
	if !ok || uid != user.ID {
		t.Fatalf("lookup: got (%d,%v), want (%d,true)", uid, ok, user.ID)
	}

	if _, ok := store.Lookup(ctx, "no-such-token"); ok {
		t.Fatal("unknown token must not resolve")
	}
	if _, ok := store.Lookup(ctx, ""); ok {
		t.Fatal("empty token must not resolve")
	}

	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, ok := store.Lookup(ctx, token); ok {
		t.Fatal("destroyed token must not resolve")
	}
	// Destroying again is a no-op.
	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
}

func TestExpiredSessionDoesNotResolve(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	store := NewStore(conn, -time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := store.Lookup(ctx, token); ok {
		t.Fatal("expired token must not resolve")
	}
}

func TestSessionOfDeletedUserDoesNotResolve(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	store := NewStore(conn, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := conn.Delete(&user).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, ok := store.Lookup(ctx, token); ok {
		t.Fatal("session of a deleted user must not resolve")
	}
}

func TestDestroyAllForUser(t *testing.T) {
	conn := setupTestDB(t)
	user := seedUser(t, conn)
	store := NewStore(conn, time.Hour)
	ctx := context.Background()

	t1, _ := store.Create(ctx, user.ID)
	t2, _ := store.Create(ctx, user.ID)
	if err := store.DestroyAllForUser(ctx, user.ID); err != nil {
		t.Fatalf("destroy all: %v", err)
	}
	if _, ok := store.Lookup(ctx, t1); ok {
		t.Fatal("token 1 still resolves")
	}
	if _, ok := store.Lookup(ctx, t2); ok {
		t.Fatal("token 2 still resolves")
	}
}

func TestNewTokenIsOpaqueAndUnique(t *testing.T) {
	a, err := NewToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	b, err := NewToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if a == b {
		t.Fatal("two tokens must differ")
	}
	if len(a) < 40 {
		t.Fatalf("token too short: %d chars", len(a))
	}
}
