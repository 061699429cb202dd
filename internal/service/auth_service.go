package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/splitbook/splitbook/internal/config"
	"github.com/splitbook/splitbook/internal/domain"
	"github.com/splitbook/splitbook/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already in use")
	ErrUserDisabled        = errors.New("user account is disabled")
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionInvalid      = errors.New("session is invalid")
	ErrSessionNotFound     = errors.New("session not found")
	ErrRefreshTokenInvalid = errors.New("refresh token is invalid")
)

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	cfg         *config.Config
}

func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type LoginInput struct {
	Email    string
	Password string
}

// ClientInfo is the device metadata recorded on the session.
type ClientInfo struct {
	UserAgent string
	IP        string
}

type AuthResult struct {
	User         *domain.User
	Session      *domain.Session
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput, client ClientInfo) (*AuthResult, error) {
	email := domain.NormalizeEmail(input.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  input.DisplayName,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		Role:         "user",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user, client)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput, client ClientInfo) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	return s.startSession(ctx, user, client)
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User, client ClientInfo) (*AuthResult, error) {
	session, rawRefresh, err := s.CreateSession(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.generateAccessToken(user.ID, session.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		Session:      session,
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
	}, nil
}

// CreateSession issues a new session with an opaque refresh token. Only the
// bcrypt hash of the token is stored. Before inserting, sessions beyond the
// per-user cap are revoked, oldest-by-last-use first, so the new session
// fits within the cap.
func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID, client ClientInfo) (*domain.Session, string, error) {
	rawToken, err := generateOpaqueToken()
	if err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(rawToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now()
	if err := s.evictOverCap(ctx, userID, now); err != nil {
		return nil, "", err
	}

	session := &domain.Session{
		ID:               uuid.New(),
		UserID:           userID,
		RefreshTokenHash: string(hashed),
		UserAgent:        client.UserAgent,
		IP:               client.IP,
		LastUsedAt:       now,
		ExpiresAt:        now.Add(s.cfg.SessionTTL),
		CreatedAt:        now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", err
	}

	return session, rawToken, nil
}

// evictOverCap revokes valid sessions so that at most max-1 remain, keeping
// the most recently used ones. Read-then-write without isolation: two
// concurrent logins can transiently exceed the cap; the sweeper re-applies
// it later.
func (s *AuthService) evictOverCap(ctx context.Context, userID uuid.UUID, now time.Time) error {
	sessions, err := s.sessionRepo.ListValidByUserID(ctx, userID, now)
	if err != nil {
		return err
	}

	max := s.cfg.MaxSessionsPerUser
	if len(sessions) < max {
		return nil
	}

	for _, victim := range sessions[max-1:] {
		if err := s.sessionRepo.Revoke(ctx, victim.ID, now); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSession returns the session iff it exists and is still valid.
func (s *AuthService) ValidateSession(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if !session.IsValid(time.Now()) {
		return nil, ErrSessionInvalid
	}
	return session, nil
}

// TouchSession bumps the session's last-used timestamp.
func (s *AuthService) TouchSession(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessionRepo.Touch(ctx, sessionID, time.Now())
}

// Refresh exchanges a raw refresh token for a new access token bound to the
// same session. Matching is a linear scan over all non-revoked sessions with
// a constant-time hash comparison per candidate; no token material is ever
// queryable directly.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (string, *domain.Session, error) {
	if rawRefreshToken == "" {
		return "", nil, ErrRefreshTokenInvalid
	}

	sessions, err := s.sessionRepo.ListActive(ctx)
	if err != nil {
		return "", nil, err
	}

	var matched *domain.Session
	for _, session := range sessions {
		if bcrypt.CompareHashAndPassword([]byte(session.RefreshTokenHash), []byte(rawRefreshToken)) == nil {
			matched = session
			break
		}
	}
	if matched == nil || !matched.IsValid(time.Now()) {
		return "", nil, ErrRefreshTokenInvalid
	}

	if err := s.sessionRepo.Touch(ctx, matched.ID, time.Now()); err != nil {
		return "", nil, err
	}

	accessToken, err := s.generateAccessToken(matched.UserID, matched.ID)
	if err != nil {
		return "", nil, err
	}
	return accessToken, matched, nil
}

// Logout revokes a single session. Revoking an already-revoked session is a
// no-op success.
func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.sessionRepo.Revoke(ctx, sessionID, time.Now())
}

// LogoutAll revokes every session the user has.
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.RevokeAllByUserID(ctx, userID, time.Now())
}

// RevokeSession revokes one of the caller's own sessions.
func (s *AuthService) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	if session.UserID != userID {
		return ErrSessionNotFound
	}
	return s.sessionRepo.Revoke(ctx, sessionID, time.Now())
}

// SessionInfo is the client-facing view of a session. No hash material.
type SessionInfo struct {
	ID         uuid.UUID `json:"id"`
	UserAgent  string    `json:"userAgent"`
	IP         string    `json:"ip"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
	IsCurrent  bool      `json:"isCurrent"`
}

func (s *AuthService) ListSessions(ctx context.Context, userID, currentSessionID uuid.UUID) ([]SessionInfo, error) {
	sessions, err := s.sessionRepo.ListValidByUserID(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, SessionInfo{
			ID:         session.ID,
			UserAgent:  session.UserAgent,
			IP:         session.IP,
			LastUsedAt: session.LastUsedAt,
			ExpiresAt:  session.ExpiresAt,
			IsCurrent:  session.ID == currentSessionID,
		})
	}
	return infos, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) generateAccessToken(userID, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"sid": sessionID.String(),
		"exp": now.Add(s.cfg.AccessTokenTTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// TokenClaims is the decoded identity carried by an access token.
type TokenClaims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("invalid token claims")
	}
	sessionID, err := uuid.Parse(sid)
	if err != nil {
		return nil, errors.New("invalid token claims")
	}

	return &TokenClaims{UserID: userID, SessionID: sessionID}, nil
}

func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
