package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/example/storefront/domain/user"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	jwt := NewJWTManager(JWTConfig{SecretKey: "test-secret", TokenDuration: time.Hour, Issuer: "storefront"})
	return NewService(NewUserRepository(db), NewPasswordHasher(), jwt)
}

var birthday = time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

func TestRegisterAndLogin(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice", "alice@example.com", birthday, "correct horse")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == 0 {
		t.Error("registered user has no id")
	}
	if token == "" {
		t.Error("registration returned no token")
	}
	if !user.IsActive {
		t.Error("new user should be active")
	}

	logged, _, err := svc.Login(ctx, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned user %d, want %d", logged.ID, user.ID)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty username", "", "a@example.com", "long enough", ErrEmptyUsername},
		{"bad email", "bob", "not-an-email", "long enough", ErrInvalidEmail},
		{"short password", "bob", "bob@example.com", "short", ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.username, tt.email, birthday, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", birthday, "long enough"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Register(ctx, "alice", "other@example.com", birthday, "long enough"); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username error = %v, want ErrUsernameTaken", err)
	}
	if _, _, err := svc.Register(ctx, "bob", "alice@example.com", birthday, "long enough"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "ghost", "whatever"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}

	if _, _, err := svc.Register(ctx, "alice", "alice@example.com", birthday, "long enough"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice", "alice@example.com", birthday, "long enough")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := svc.ValidateToken(ctx, token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token user id = %d, want %d", claims.UserID, user.ID)
	}

	if _, err := svc.ValidateToken(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token error = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredToken(t *testing.T) {
	jwt := NewJWTManager(JWTConfig{SecretKey: "test-secret", TokenDuration: -time.Minute, Issuer: "storefront"})
	token, err := jwt.Generate(7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := jwt.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired token error = %v, want ErrExpiredToken", err)
	}
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()
	hash, err := hasher.Hash("long enough")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "long enough" {
		t.Error("hash must not equal the plain password")
	}
	if !hasher.Verify("long enough", hash) {
		t.Error("Verify rejected the right password")
	}
	if hasher.Verify("wrong", hash) {
		t.Error("Verify accepted the wrong password")
	}
}

func TestRepairFlow(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice", "alice@example.com", birthday, "long enough")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.BeginRepair(ctx, "alice", "wrong@example.com"); !errors.Is(err, ErrRepairMismatch) {
		t.Errorf("mismatched email error = %v, want ErrRepairMismatch", err)
	}

	found, err := svc.BeginRepair(ctx, "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("BeginRepair: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("BeginRepair user = %d, want %d", found.ID, user.ID)
	}

	token, err := svc.SetPassword(ctx, user.ID, "brand new secret")
	if err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if token == "" {
		t.Error("SetPassword returned no token")
	}
	if _, _, err := svc.Login(ctx, "alice", "brand new secret"); err != nil {
		t.Errorf("login with the new password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "alice", "long enough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("login with the old password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestDeactivateAndDelete(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "alice", "alice@example.com", birthday, "long enough")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Deactivate(ctx, user.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	got, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.IsActive {
		t.Error("user still active after deactivation")
	}

	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := svc.GetUser(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUser after delete error = %v, want ErrUserNotFound", err)
	}
	if err := svc.DeleteUser(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second DeleteUser error = %v, want ErrUserNotFound", err)
	}
}
