package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestService_RegisterApprovalGating(t *testing.T) {
	cases := []struct {
		role string
		want ApprovalStatus
	}{
		{"DRIVER", ApprovalPending},
		{"ADMIN", ApprovalApproved},
		{"FLEET_MANAGER", ApprovalApproved},
		{"CUSTOMER", ApprovalApproved},
	}

	for _, tc := range cases {
		repo := newFakeRepository()
		svc := NewService(repo, "test-secret", time.Hour)

		user, err := svc.Register(context.Background(), RegisterRequest{
			Email:    "person@example.com",
			Password: "supersafe",
			Name:     "A Person",
			Role:     tc.role,
		})
		if err != nil {
			t.Fatalf("register %s: unexpected error: %v", tc.role, err)
		}
		if user.ApprovalStatus != tc.want {
			t.Fatalf("register %s: expected approval %s got %s", tc.role, tc.want, user.ApprovalStatus)
		}
	}
}

func TestService_RegisterRoleNormalization(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "morgan@example.com",
		Password: "supersafe",
		Name:     "Morgan Fleet",
		Role:     "fleet manager",
	})
	if err != nil {
		t.Fatalf("register: unexpected error: %v", err)
	}
	if user.Role != RoleFleetManager {
		t.Fatalf("expected role %s got %s", RoleFleetManager, user.Role)
	}

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "other@example.com",
		Password: "supersafe",
		Name:     "Other Person",
		Role:     "chauffeur",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestService_RegisterValidation(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "short",
		Name:     "Alice Admin",
		Role:     "ADMIN",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "",
		Password: "strongpassword",
		Name:     "",
		Role:     "ADMIN",
	}); err == nil {
		t.Fatal("expected validation error for missing fields")
	}
}

func TestService_DuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	req := RegisterRequest{
		Email:    "alice@example.com",
		Password: "strongpassword",
		Name:     "Alice Admin",
		Role:     "ADMIN",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if len(repo.usersByID) != 1 {
		t.Fatalf("expected a single stored account, got %d", len(repo.usersByID))
	}
}

func TestService_PasswordNeverStoredPlaintext(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "derek@example.com",
		Password: "driverpass",
		Name:     "Derek Driver",
		Role:     "DRIVER",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "driverpass" || user.PasswordHash == "" {
		t.Fatalf("expected bcrypt hash, got %q", user.PasswordHash)
	}
}

func TestService_LoginAndVerifyToken(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	req := RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersafe",
		Name:     "Alice Admin",
		Role:     "ADMIN",
	}
	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		t.Fatalf("login: unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("login: expected token, got empty string")
	}
	if result.User.ID != user.ID {
		t.Fatalf("login: expected user id %q got %q", user.ID, result.User.ID)
	}

	identity, err := svc.VerifyToken(result.Token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if identity.UserID != user.ID {
		t.Fatalf("verify token: expected user id %q got %q", user.ID, identity.UserID)
	}
	if identity.Role != RoleAdmin {
		t.Fatalf("verify token: expected role %s got %s", RoleAdmin, identity.Role)
	}
	if identity.ApprovalStatus != ApprovalApproved {
		t.Fatalf("verify token: expected approval %s got %s", ApprovalApproved, identity.ApprovalStatus)
	}
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersafe",
		Name:     "Alice Admin",
		Role:     "ADMIN",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Unknown email and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "irrelevant",
	})
	_, wrongErr := svc.Login(context.Background(), LoginRequest{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	})
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
}

func TestService_ExpiredTokenRejected(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	req := RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersafe",
		Name:     "Alice Admin",
		Role:     "ADMIN",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Issue with a clock far in the past so the token is already expired.
	svc.WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	result, err := svc.Login(context.Background(), LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := svc.VerifyToken(result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestService_TokenSignedWithDifferentKeyRejected(t *testing.T) {
	repo := newFakeRepository()
	issuer := NewService(repo, "issuer-secret", time.Hour)
	verifier := NewService(repo, "other-secret", time.Hour)

	req := RegisterRequest{
		Email:    "alice@example.com",
		Password: "supersafe",
		Name:     "Alice Admin",
		Role:     "ADMIN",
	}
	if _, err := issuer.Register(context.Background(), req); err != nil {
		t.Fatalf("register: %v", err)
	}
	result, err := issuer.Login(context.Background(), LoginRequest{Email: req.Email, Password: req.Password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := verifier.VerifyToken(result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
	if _, err := issuer.VerifyToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

func TestService_DecideIdempotent(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	driver, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "derek@example.com",
		Password: "driverpass",
		Name:     "Derek Driver",
		Role:     "DRIVER",
	})
	if err != nil {
		t.Fatalf("register driver: %v", err)
	}

	admin := Identity{UserID: "admin-1", Role: RoleAdmin}
	sequence := []struct {
		decision Decision
		want     ApprovalStatus
	}{
		{DecisionApprove, ApprovalApproved},
		{DecisionReject, ApprovalRejected},
		{DecisionApprove, ApprovalApproved},
		{DecisionApprove, ApprovalApproved}, // re-approve succeeds silently
	}
	for i, step := range sequence {
		updated, err := svc.Decide(context.Background(), admin, driver.ID, step.decision)
		if err != nil {
			t.Fatalf("step %d (%s): %v", i, step.decision, err)
		}
		if updated.ApprovalStatus != step.want {
			t.Fatalf("step %d (%s): expected %s got %s", i, step.decision, step.want, updated.ApprovalStatus)
		}
	}
}

func TestService_DecideRequiresAdmin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	for _, role := range []Role{RoleFleetManager, RoleDriver, RoleCustomer} {
		actor := Identity{UserID: "u1", Role: role}
		if _, err := svc.Decide(context.Background(), actor, "whoever", DecisionApprove); !errors.Is(err, ErrForbidden) {
			t.Fatalf("role %s: expected ErrForbidden, got %v", role, err)
		}
	}

	admin := Identity{UserID: "admin-1", Role: RoleAdmin}
	if _, err := svc.Decide(context.Background(), admin, "missing-id", DecisionApprove); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestService_ListUsersRequiresAdmin(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, "test-secret", time.Hour)

	if _, err := svc.ListUsers(context.Background(), Identity{Role: RoleCustomer}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListUsers(context.Background(), Identity{Role: RoleAdmin}); err != nil {
		t.Fatalf("admin list: %v", err)
	}
}

type fakeRepository struct {
	usersByEmail map[string]User
	usersByID    map[string]User
	nextID       int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		usersByEmail: make(map[string]User),
		usersByID:    make(map[string]User),
		nextID:       1,
	}
}

func (f *fakeRepository) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if _, exists := f.usersByEmail[strings.ToLower(params.Email)]; exists {
		return User{}, ErrDuplicateEmail
	}

	id := fmt.Sprintf("user-%d", f.nextID)
	f.nextID++

	user := User{
		ID:             id,
		Email:          params.Email,
		Name:           params.Name,
		Phone:          params.Phone,
		LicenseNumber:  params.LicenseNumber,
		PasswordHash:   params.PasswordHash,
		Role:           params.Role,
		ApprovalStatus: params.ApprovalStatus,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	f.usersByEmail[strings.ToLower(user.Email)] = user
	f.usersByID[user.ID] = user

	return user, nil
}

func (f *fakeRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	user, ok := f.usersByEmail[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetUserByID(ctx context.Context, userID string) (User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.usersByEmail[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeRepository) ListUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0, len(f.usersByID))
	for _, u := range f.usersByID {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeRepository) UpdateApprovalStatus(ctx context.Context, userID string, status ApprovalStatus) (User, error) {
	user, ok := f.usersByID[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	user.ApprovalStatus = status
	user.UpdatedAt = time.Now().UTC()
	f.usersByID[userID] = user
	f.usersByEmail[strings.ToLower(user.Email)] = user
	return user, nil
}

func (f *fakeRepository) CountByRole(ctx context.Context, role Role) (int64, error) {
	var count int64
	for _, u := range f.usersByID {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) CountByRoleAndApproval(ctx context.Context, role Role, status ApprovalStatus) (int64, error) {
	var count int64
	for _, u := range f.usersByID {
		if u.Role == role && u.ApprovalStatus == status {
			count++
		}
	}
	return count, nil
}
