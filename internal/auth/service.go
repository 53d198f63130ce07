package auth

import (
	"context"
	"errors"
	"time"

	"backend-courseview/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRefreshInvalid     = errors.New("refresh token invalid")
	ErrOfficialNotFound   = errors.New("official not found")
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	OfficialID string `json:"official_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Official, TokenResponse, error) {
	if req.Email == "" || req.Name == "" || req.Password == "" {
		return Official{}, TokenResponse{}, errors.New("email, name, password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Official{}, TokenResponse{}, err
	}

	official := Official{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		Club:         req.Club,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO officials (id, email, name, club, password_hash)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, official.ID, official.Email, official.Name, official.Club, official.PasswordHash)
	if err := row.Scan(&official.CreatedAt, &official.UpdatedAt); err != nil {
		return Official{}, TokenResponse{}, err
	}

	tokens, err := s.GenerateTokens(ctx, official.ID)
	if err != nil {
		return Official{}, TokenResponse{}, err
	}
	return official, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Official, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, COALESCE(club, ''), password_hash, created_at, updated_at
		FROM officials WHERE email = $1
	`, req.Email)

	var official Official
	err := row.Scan(&official.ID, &official.Email, &official.Name, &official.Club, &official.PasswordHash, &official.CreatedAt, &official.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Official{}, TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return Official{}, TokenResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(official.PasswordHash), []byte(req.Password)); err != nil {
		return Official{}, TokenResponse{}, ErrInvalidCredentials
	}

	tokens, err := s.GenerateTokens(ctx, official.ID)
	if err != nil {
		return Official{}, TokenResponse{}, err
	}
	return official, tokens, nil
}

// GetOfficial loads an official's profile without the password hash.
func (s *Service) GetOfficial(ctx context.Context, id string) (Official, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, COALESCE(club, ''), created_at, updated_at
		FROM officials WHERE id = $1
	`, id)

	var official Official
	err := row.Scan(&official.ID, &official.Email, &official.Name, &official.Club, &official.CreatedAt, &official.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Official{}, ErrOfficialNotFound
	}
	if err != nil {
		return Official{}, err
	}
	return official, nil
}

// RevokeRefreshToken ends a session. Only the official the token was issued
// to may revoke it.
func (s *Service) RevokeRefreshToken(ctx context.Context, officialID, token string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = now()
		WHERE token = $1 AND official_id = $2 AND revoked_at IS NULL
	`, token, officialID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRefreshInvalid
	}
	return nil
}

func (s *Service) GenerateTokens(ctx context.Context, officialID string) (TokenResponse, error) {
	access, err := s.signToken(officialID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(officialID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, officialID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	officialID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || officialID != claims.OfficialID || time.Now().After(expiresAt) {
		return "", ErrRefreshInvalid
	}
	return claims.OfficialID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.OfficialID, nil
}

func (s *Service) signToken(officialID string, ttl time.Duration) (string, error) {
	claims := Claims{
		OfficialID: officialID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, officialID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, official_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), officialID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT official_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var officialID string
	var expiresAt time.Time
	if err := row.Scan(&officialID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return officialID, expiresAt, nil
}
