package auth

import (
	"context"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/egorvolkov/storefront-backend/pkg/config"
	pkgerrors "github.com/egorvolkov/storefront-backend/pkg/errors"
	"github.com/egorvolkov/storefront-backend/pkg/security"
)

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.WithContext(ctx).Transaction(fn)
}

func setupRegisterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:authregister?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  patronymic TEXT,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := conn.Exec(ddl).Error; err != nil {
		t.Fatalf("create users table: %v", err)
	}
	t.Cleanup(func() {
		conn.Exec("DELETE FROM users")
	})
	return conn
}

func newRegisterService(t *testing.T, conn *gorm.DB) RegisterService {
	t.Helper()
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             gormTxRunner{conn: conn},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("build register service: %v", err)
	}
	return svc
}

func TestRegisterCreatesUserWithHashedPassword(t *testing.T) {
	conn := setupRegisterTestDB(t)
	svc := newRegisterService(t, conn)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FirstName: "Anna",
		LastName:  "Ivanova",
		Username:  "aivanova",
		Email:     "Anna@Example.com",
		Password:  "plain-secret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if dto.Email != "anna@example.com" {
		t.Fatalf("expected lowercased email, got %q", dto.Email)
	}
	if dto.Role != "user" {
		t.Fatalf("expected default role user, got %q", dto.Role)
	}
	if dto.DisplayName != "Anna Ivanova" {
		t.Fatalf("unexpected display name %q", dto.DisplayName)
	}

	var stored struct {
		PasswordHash string
	}
	if err := conn.Table("users").Select("password_hash").Where("username = ?", "aivanova").Scan(&stored).Error; err != nil {
		t.Fatalf("load stored user: %v", err)
	}
	if stored.PasswordHash == "plain-secret" || !strings.HasPrefix(stored.PasswordHash, "$argon2id$") {
		t.Fatalf("password stored without hashing: %q", stored.PasswordHash)
	}

	ok, err := security.VerifyPassword("plain-secret", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	conn := setupRegisterTestDB(t)
	svc := newRegisterService(t, conn)

	req := RegisterRequest{
		FirstName: "Anna",
		LastName:  "Ivanova",
		Username:  "dup-email-1",
		Email:     "dup@example.com",
		Password:  "plain-secret",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	req.Username = "dup-email-2"
	_, err := svc.Register(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	conn := setupRegisterTestDB(t)
	svc := newRegisterService(t, conn)

	req := RegisterRequest{
		FirstName: "Anna",
		LastName:  "Ivanova",
		Username:  "same-handle",
		Email:     "first@example.com",
		Password:  "plain-secret",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	req.Email = "second@example.com"
	_, err := svc.Register(context.Background(), req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
