// Package idjwt implements the ID Contact auth result token: a signed JWS
// nested inside a JWE, carrying the attribute values released to the core.
package idjwt

import (
	"errors"
	"fmt"
)

// Common token errors.
var (
	ErrUnsupportedKeyType = errors.New("unsupported key type")
	ErrInvalidKey         = errors.New("invalid key material")
	ErrInvalidToken       = errors.New("invalid auth result token")
)

// AuthStatus is the outcome of an authentication session.
type AuthStatus string

const (
	// StatusSuccess indicates the session completed and attributes were released.
	StatusSuccess AuthStatus = "success"
	// StatusFailed indicates the authentication attempt failed.
	StatusFailed AuthStatus = "failed"
	// StatusAborted indicates the user broke off the session.
	StatusAborted AuthStatus = "aborted"
)

// AuthResult is the payload delivered to the core when a session finishes.
type AuthResult struct {
	Status     AuthStatus        `json:"status"`
	Attributes map[string]string `json:"attributes,omitempty"`
	SessionURL string            `json:"session_url,omitempty"`
}

// StartAuthRequest is the core's request to begin an authentication session.
type StartAuthRequest struct {
	Attributes   []string `json:"attributes"`
	Continuation string   `json:"continuation"`
	AttrURL      *string  `json:"attr_url,omitempty"`
}

// StartAuthResponse points the core at the URL the user should visit.
type StartAuthResponse struct {
	ClientURL string `json:"client_url"`
}

// SessionActivity is a session update notification type.
type SessionActivity string

const (
	// ActivityActive signals recent user activity in the session.
	ActivityActive SessionActivity = "activity"
	// ActivityLogout signals the user ended the session.
	ActivityLogout SessionActivity = "logout"
)

// ParseSessionActivity validates a session activity value from the wire.
func ParseSessionActivity(s string) (SessionActivity, error) {
	switch SessionActivity(s) {
	case ActivityActive, ActivityLogout:
		return SessionActivity(s), nil
	default:
		return "", fmt.Errorf("unknown session activity: %s", s)
	}
}
