package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-movie-catalog/internal/models"
	"github.com/pribylovaa/go-movie-catalog/internal/pkg/log"
)

// tokenClaims — полезная нагрузка обоих классов токенов.
// Для refresh-токена дополнительно заполняется RegisteredClaims.ID (jti) —
// свежий UUID на каждый выпуск, поэтому ротация всегда даёт новый токен.
type tokenClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// generateAccessToken выпускает access-токен, подписанный access-секретом.
func (s *Service) generateAccessToken(ctx context.Context, user *models.User, now time.Time) (string, error) {
	const op = "service.auth.generateAccessToken"

	signed, err := s.signToken(user, now, s.cfg.AccessTokenTTL, s.cfg.AccessSecret, "")
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// generateRefreshToken выпускает refresh-токен, подписанный refresh-секретом,
// с уникальным jti.
func (s *Service) generateRefreshToken(ctx context.Context, user *models.User, now time.Time) (string, error) {
	const op = "service.auth.generateRefreshToken"

	signed, err := s.signToken(user, now, s.cfg.RefreshTokenTTL, s.cfg.RefreshSecret, uuid.NewString())
	if err != nil {
		log.From(ctx).Error("refresh_token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

func (s *Service) signToken(user *models.User, now time.Time, ttl time.Duration, secret, jti string) (string, error) {
	claims := tokenClaims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// validateAccessToken валидирует access-токен.
// Истёкший токен отличим от битого: ErrTokenExpired против ErrInvalidToken —
// на этом различии строится ветка прозрачной ротации в middleware.
func (s *Service) validateAccessToken(tokenStr string) (*models.Claims, error) {
	return s.parseToken(tokenStr, s.cfg.AccessSecret)
}

// validateRefreshToken валидирует refresh-токен.
func (s *Service) validateRefreshToken(tokenStr string) (*models.Claims, error) {
	return s.parseToken(tokenStr, s.cfg.RefreshSecret)
}

func (s *Service) parseToken(tokenStr, secret string) (*models.Claims, error) {
	const op = "service.auth.parseToken"

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &models.Claims{
		UserID:   uid,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     role,
		TokenID:  claims.ID,
	}, nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Вызывается на login и на каждой ротации: пара всегда полная,
// переиспользования refresh-токена для выпуска одного лишь access нет.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.generateAccessToken(ctx, user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.cfg.AccessTokenTTL),
		RefreshExpiresAt: now.Add(s.cfg.RefreshTokenTTL),
	}, nil
}
