package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"methodquiz/internal/model"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const learnerTokenTTL = 30 * 24 * time.Hour

// AuthService issues and checks anonymous learner tokens
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(secret string) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
	}
}

// IssueLearnerToken creates a new learner identity and its token
func (s *AuthService) IssueLearnerToken() (*model.TokenResponse, error) {
	learnerID := "learner_" + uuid.New().String()[:8]
	now := time.Now()

	claims := &model.LearnerClaims{
		LearnerID: learnerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   learnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(learnerTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		Token:     tokenString,
		LearnerID: learnerID,
	}, nil
}

// ValidateLearnerToken validates a learner JWT and returns claims
func (s *AuthService) ValidateLearnerToken(tokenString string) (*model.LearnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.LearnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.LearnerClaims)
	if !ok || !token.Valid || claims.LearnerID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
