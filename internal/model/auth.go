package model

import "github.com/golang-jwt/jwt/v5"

// LearnerClaims are JWT claims for an anonymous learner
type LearnerClaims struct {
	LearnerID string `json:"learnerId"`
	jwt.RegisteredClaims
}

// TokenResponse is returned by POST /v1/auth/token
type TokenResponse struct {
	Token     string `json:"token"`
	LearnerID string `json:"learnerId"`
}
