// Package session stores operator refresh sessions. Redis is used when
// configured so sessions survive restarts and are shared across console
// instances; otherwise an in-memory store serves a single instance.
package session

import (
	"context"
	"errors"
	"time"
)

// Operator is the identity and stack context a refresh session restores.
type Operator struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Organization string    `json:"organization"`
	Stack        string    `json:"stack"`
	Region       string    `json:"region,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ErrNotFound is returned when a refresh token is unknown, expired, or
// revoked.
var ErrNotFound = errors.New("refresh session not found")

// Store is the refresh session backend.
type Store interface {
	SaveRefreshSession(ctx context.Context, tokenHash string, op Operator, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (Operator, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
}
