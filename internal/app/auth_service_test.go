package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"carbontrack/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type mockUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	createFn        func(ctx context.Context, username, passwordHash string) (*domain.User, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, username, passwordHash)
	}
	return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
}

type mockSessionRepo struct {
	createFn        func(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	getByTokenFn    func(ctx context.Context, token string) (*domain.Session, error)
	deleteFn        func(ctx context.Context, token string) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if m.createFn != nil {
		return m.createFn(ctx, userID, token, expiresAt)
	}
	return nil
}

func (m *mockSessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

func TestAuthService_Signup_HashesPassword(t *testing.T) {
	ctx := context.Background()

	var storedHash string
	users := &mockUserRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			storedHash = passwordHash
			return &domain.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, 0)
	if err := svc.Signup(ctx, "alice", "hunter22"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if storedHash == "hunter22" || storedHash == "" {
		t.Fatal("password should be stored as a hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	ctx := context.Background()

	users := &mockUserRepo{
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			return nil, domain.ErrDuplicateUser
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, 0)
	err := svc.Signup(ctx, "alice", "hunter22")
	if !errors.Is(err, domain.ErrDuplicateUser) {
		t.Errorf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestAuthService_Signup_EmptyFields(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, &mockSessionRepo{}, 0)

	var verr *ValidationError
	if err := svc.Signup(context.Background(), "", "pw"); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for empty username, got %v", err)
	}
	if err := svc.Signup(context.Background(), "alice", ""); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for empty password, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	password := "testpass123"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}

	sessions := &mockSessionRepo{
		createFn: func(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
			if userID != 1 {
				t.Errorf("expected userID 1, got %d", userID)
			}
			if token == "" {
				t.Error("token should not be empty")
			}
			if time.Until(expiresAt) <= 0 {
				t.Error("session should expire in the future")
			}
			return nil
		},
	}

	svc := NewAuthService(users, sessions, 0)
	token, err := svc.Login(ctx, "alice", password)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token, got empty string")
	}
}

func TestAuthService_Login_IndistinguishableFailures(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.DefaultCost)

	knownUser := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return &domain.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}
	unknownUser := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, nil
		},
	}

	svcKnown := NewAuthService(knownUser, &mockSessionRepo{}, 0)
	svcUnknown := NewAuthService(unknownUser, &mockSessionRepo{}, 0)

	_, errWrongPass := svcKnown.Login(ctx, "alice", "wrongpass")
	_, errNoUser := svcUnknown.Login(ctx, "nobody", "whatever")

	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPass)
	}
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", errNoUser)
	}
	if errWrongPass.Error() != errNoUser.Error() {
		t.Error("failure modes must be indistinguishable")
	}
}

func TestAuthService_ValidateSession(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 7, Username: "alice"}

	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			if id != 7 {
				return nil, nil
			}
			return user, nil
		},
	}
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, token string) (*domain.Session, error) {
			if token != "tok" {
				return nil, nil
			}
			return &domain.Session{Token: "tok", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}

	svc := NewAuthService(users, sessions, 0)
	got, err := svc.ValidateSession(ctx, "tok")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("expected alice, got %q", got.Username)
	}

	if _, err := svc.ValidateSession(ctx, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_ValidateSession_Expired(t *testing.T) {
	ctx := context.Background()

	deleted := ""
	sessions := &mockSessionRepo{
		getByTokenFn: func(ctx context.Context, token string) (*domain.Session, error) {
			return &domain.Session{Token: token, UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)}, nil
		},
		deleteFn: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, 0)
	if _, err := svc.ValidateSession(ctx, "stale"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if deleted != "stale" {
		t.Error("expired session should be deleted")
	}
}

func TestAuthService_LoginWithUser_AutoProvisions(t *testing.T) {
	ctx := context.Background()

	created := false
	users := &mockUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (*domain.User, error) {
			if created {
				return &domain.User{ID: 2, Username: username}, nil
			}
			return nil, nil
		},
		createFn: func(ctx context.Context, username, passwordHash string) (*domain.User, error) {
			created = true
			if passwordHash != "" {
				t.Errorf("SSO user should have empty password hash, got %q", passwordHash)
			}
			return &domain.User{ID: 2, Username: username}, nil
		},
	}

	svc := NewAuthService(users, &mockSessionRepo{}, 0)
	token, err := svc.LoginWithUser(ctx, "sso-user@example.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Error("expected token")
	}
	if !created {
		t.Error("expected user to be auto-provisioned")
	}
}
