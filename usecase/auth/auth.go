package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskpro/backend/domain"
	"github.com/taskpro/backend/repository"
)

const minPasswordLength = 8

// Credentials is the login payload after transport decoding.
type Credentials struct {
	Username string
	Password string
}

// Registration is the signup payload after transport decoding.
type Registration struct {
	Username string
	Email    string
	Password string
}

// LoginResult carries the signed access token and the session behind it.
type LoginResult struct {
	Token     string       `json:"access_token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	ttl      time.Duration
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret, issuer string, ttl time.Duration, logger *zap.Logger) *UseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		logger:   logger,
	}
}

// Register creates a new account with a bcrypt password hash.
func (uc *UseCase) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	fields := map[string]string{}
	username := strings.TrimSpace(reg.Username)
	if username == "" {
		fields["username"] = "username is required"
	}
	if len(reg.Password) < minPasswordLength {
		fields["password"] = "password must be at least 8 characters"
	}
	if reg.Email != "" {
		if _, err := mail.ParseAddress(reg.Email); err != nil {
			fields["email"] = "email is not a valid address"
		}
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(reg.Email),
		PasswordHash: string(hash),
	}
	return uc.users.Create(ctx, user)
}

// Login verifies the credentials, opens a Redis-backed session and signs a
// JWT access token bound to it.
func (uc *UseCase) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	user, err := uc.users.GetByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		return nil, domain.ErrInvalidCredential
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
	}, nil
}

// Logout revokes the session; tokens referencing it stop verifying.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Profile returns the caller's account.
func (uc *UseCase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// Verify parses the access token and confirms the session behind it is still
// live. It returns the authenticated user id and the session id.
func (uc *UseCase) Verify(ctx context.Context, tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return uc.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", domain.ErrUnauthorized
	}
	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["session_id"].(string)
	if userID == "" || sessionID == "" {
		return "", "", domain.ErrUnauthorized
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", "", domain.ErrUnauthorized
	}
	if session.UserID != userID || session.IsExpired(time.Now()) {
		return "", "", domain.ErrUnauthorized
	}
	return userID, sessionID, nil
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    session.UserID,
		"session_id": session.ID,
		"iss":        uc.issuer,
		"iat":        session.CreatedAt.Unix(),
		"exp":        session.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
}
