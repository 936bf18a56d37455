package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials signals wrong email or password. The two cases
	// are never distinguished so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals the password doesn't meet requirements.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrInvalidRole signals an unrecognized role string at signup.
	ErrInvalidRole = errors.New("auth: invalid role")
	// ErrInvalidToken signals a malformed, expired, or wrongly signed token.
	ErrInvalidToken = errors.New("auth: invalid token")
)

// DefaultTokenTTL bounds issued tokens when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// Service handles registration, session issuance, and driver approval.
type Service struct {
	repo      Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// LoginResult bundles the token and domain user returned after a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// NewService creates a new authentication service.
func NewService(repo Repository, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		repo:      repo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates a new account. Drivers start PENDING and must be approved
// by an admin before they count as active; every other role starts APPROVED.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("auth: email and name are required")
	}

	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	approval := ApprovalApproved
	if role == RoleDriver {
		approval = ApprovalPending
	}

	var license *string
	if trimmed := strings.TrimSpace(req.LicenseNumber); trimmed != "" {
		license = &trimmed
	}

	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Email:          email,
		Name:           req.Name,
		Phone:          req.Phone,
		LicenseNumber:  license,
		PasswordHash:   string(passwordHash),
		Role:           role,
		ApprovalStatus: approval,
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Login authenticates a user and returns a signed, time-bounded token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: generate token: %w", err)
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// VerifyToken validates a token and returns the identity it binds.
// Malformed, expired, and wrongly signed tokens all map to ErrInvalidToken.
func (s *Service) VerifyToken(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	approvalStr, _ := claims["approval_status"].(string)
	if userID == "" {
		return Identity{}, ErrInvalidToken
	}
	role, err := ParseRole(roleStr)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	return Identity{
		UserID:         userID,
		Email:          email,
		Name:           name,
		Role:           role,
		ApprovalStatus: ApprovalStatus(approvalStr),
	}, nil
}

// GetUserByID retrieves user information by ID.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account. Admin only.
func (s *Service) ListUsers(ctx context.Context, actor Identity) ([]User, error) {
	if err := Authorize(actor.Role, OpListUsers); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

// Decide applies an admin's approve/reject verdict to the target user.
// The write is idempotent: re-approving an already approved user succeeds
// and yields the same result.
func (s *Service) Decide(ctx context.Context, actor Identity, userID string, decision Decision) (User, error) {
	var op Operation
	var status ApprovalStatus
	switch decision {
	case DecisionApprove:
		op, status = OpApproveDriver, ApprovalApproved
	case DecisionReject:
		op, status = OpRejectDriver, ApprovalRejected
	default:
		return User{}, fmt.Errorf("auth: unknown decision %q", decision)
	}

	if err := Authorize(actor.Role, op); err != nil {
		return User{}, err
	}

	return s.repo.UpdateApprovalStatus(ctx, userID, status)
}

// generateToken creates an HS256 JWT binding the user's identity summary.
func (s *Service) generateToken(user User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"user_id":         user.ID,
		"email":           user.Email,
		"name":            user.Name,
		"role":            string(user.Role),
		"approval_status": string(user.ApprovalStatus),
		"exp":             expiresAt.Unix(),
		"iat":             now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
