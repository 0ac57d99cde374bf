package services

import (
	"fmt"
	"time"

	"rentdesk/config"
	"rentdesk/internal/logger"
	"rentdesk/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is what a verified bearer token carries: the user id and
// role. The token itself is opaque to callers.
type TokenClaims struct {
	UserID uuid.UUID
	Role   models.UserRole
}

type tokenPayload struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	expiry time.Duration
	log    logger.Logger
}

func NewTokenService(config config.Config) *TokenService {
	expiry := time.Duration(config.AuthTokenExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &TokenService{
		secret: []byte(config.AuthTokenSecret),
		expiry: expiry,
		log:    logger.New("tokenService"),
	}
}

func (s *TokenService) Issue(userID uuid.UUID, role models.UserRole) (string, error) {
	log := s.log.Function("Issue")

	now := time.Now()
	claims := tokenPayload{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", log.Err("failed to sign token", err, "userID", userID)
	}

	return signed, nil
}

func (s *TokenService) Verify(tokenString string) (*TokenClaims, error) {
	log := s.log.Function("Verify")

	var payload tokenPayload
	token, err := jwt.ParseWithClaims(
		tokenString,
		&payload,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
	)
	if err != nil {
		return nil, log.Err("failed to parse token", err)
	}
	if !token.Valid {
		return nil, log.ErrMsg("token is invalid")
	}

	userID, err := uuid.Parse(payload.Subject)
	if err != nil {
		return nil, log.Err("token subject is not a valid user id", err)
	}

	role := models.UserRole(payload.Role)
	if !role.Valid() {
		return nil, log.Error("token carries an unknown role", "role", payload.Role)
	}

	return &TokenClaims{UserID: userID, Role: role}, nil
}
