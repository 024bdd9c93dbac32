package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"agri-assist-api/internal/model"
	"agri-assist-api/pkg/apierror"
)

// AccountStore is the persistence surface AuthService needs.
type AccountStore interface {
	Create(ctx context.Context, a model.Account) error
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateRole(ctx context.Context, email string, role string) error
}

// AuthService issues and verifies stateless identity tokens and guards the
// administrative shared-secret gate. The server holds no session state:
// a token is valid iff its signature verifies and it has not expired.
type AuthService struct {
	accounts    AccountStore
	jwtSecret   []byte
	tokenTTL    time.Duration
	adminSecret string
	now         func() time.Time
}

func NewAuthService(accounts AccountStore, jwtSecret string, tokenTTL time.Duration, adminSecret string) (*AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if tokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &AuthService{
		accounts:    accounts,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		adminSecret: adminSecret,
		now:         time.Now,
	}, nil
}

// SetClock overrides the time source. Intended for tests.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResult, error) {
	req.Normalize()
	if reasons := req.Validate(); len(reasons) > 0 {
		return model.AuthResult{}, apierror.Validation(reasons)
	}

	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return model.AuthResult{}, apierror.Conflict("Email already registered", req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	account := model.Account{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return model.AuthResult{}, fmt.Errorf("create account: %w", err)
	}

	token, err := s.IssueToken(account)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{Token: token, User: account.Public()}, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return model.AuthResult{}, apierror.BadRequest("email and password are required")
	}

	// One generic error for both unknown email and wrong password, so the
	// endpoint cannot be used to enumerate accounts.
	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.AuthResult{}, apierror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("find account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		return model.AuthResult{}, apierror.Unauthorized("Invalid credentials")
	}

	// The token embeds the account's role as of now; later role changes
	// take effect on the next login.
	token, err := s.IssueToken(account)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{Token: token, User: account.Public()}, nil
}

// IssueToken signs an HS256 assertion carrying the account's identity and
// role, expiring tokenTTL from now.
func (s *AuthService) IssueToken(account model.Account) (string, error) {
	now := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"name":  account.Name,
		"role":  account.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry and returns the embedded
// claims. No database round-trip happens here.
func (s *AuthService) ValidateToken(tokenString string) (*model.Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrInvalidToken
	}

	claims := &model.Claims{}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Name, _ = claimsMap["name"].(string)
	claims.Role, _ = claimsMap["role"].(string)

	if claims.UserID == "" {
		return nil, model.ErrInvalidToken
	}

	return claims, nil
}

// SetRole is the administrative role change. It is gated by the bootstrap
// shared secret, not by a token, and only moves accounts within the closed
// {user, superuser} enum.
func (s *AuthService) SetRole(ctx context.Context, providedSecret string, req model.SetRoleRequest) error {
	if err := s.checkAdminSecret(providedSecret); err != nil {
		return err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		return apierror.BadRequest("invalid role")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return apierror.BadRequest("email required")
	}

	if err := s.accounts.UpdateRole(ctx, email, role); err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return apierror.NotFound("user")
		}
		return fmt.Errorf("update role: %w", err)
	}

	return nil
}

// SuLogin issues an ephemeral superuser token against the admin secret,
// without any account record behind it.
func (s *AuthService) SuLogin(providedSecret string) (model.AuthResult, error) {
	if err := s.checkAdminSecret(providedSecret); err != nil {
		return model.AuthResult{}, err
	}

	admin := model.Account{
		ID:    "su-admin",
		Name:  "Superuser",
		Email: "superuser@local",
		Role:  model.RoleSuperuser,
	}

	token, err := s.IssueToken(admin)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{Token: token, User: admin.Public()}, nil
}

// checkAdminSecret fails closed: when no secret is configured every
// request is denied.
func (s *AuthService) checkAdminSecret(provided string) error {
	if s.adminSecret == "" {
		return apierror.Forbidden()
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminSecret)) != 1 {
		return apierror.Forbidden()
	}
	return nil
}
