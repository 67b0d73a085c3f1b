package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/noah-isme/campus-console/pkg/errors"
)

type contextKey struct{}

// User is the logged in operator. Attributes is the user object returned by the
// backend login call, kept as is.
type User struct {
	ID         string                 `json:"id"`
	Role       string                 `json:"role"`
	Attributes map[string]interface{} `json:"attributes"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewUser builds a session user from the raw login payload.
func NewUser(role string, raw json.RawMessage) (*User, error) {
	attrs := map[string]interface{}{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrRemote.Code, appErrors.ErrRemote.Status, "unexpected user object from server")
		}
	}
	return &User{
		ID:         uuid.NewString(),
		Role:       role,
		Attributes: attrs,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Attribute returns a string attribute. Numbers are formatted without a fraction.
func (u *User) Attribute(key string) (string, bool) {
	if u == nil {
		return "", false
	}
	v, ok := u.Attributes[key]
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case float64:
		s = fmt.Sprintf("%.0f", val)
	case json.Number:
		s = val.String()
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// RequireStudentID returns the student id or SESSION_INVALID when the user object has none.
func (u *User) RequireStudentID() (string, error) {
	id, ok := u.Attribute("student_id")
	if !ok {
		return "", appErrors.ErrSessionInvalid
	}
	return id, nil
}

// DisplayName prefers first/last name and falls back to the user id attributes.
func (u *User) DisplayName() string {
	first, _ := u.Attribute("first_name")
	last, _ := u.Attribute("last_name")
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	for _, key := range []string{"name", "student_id", "admin_id", "userId", "id"} {
		if v, ok := u.Attribute(key); ok {
			return v
		}
	}
	return u.Role
}

// IsAdmin reports whether the session belongs to an administrator.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == "admin"
}

// WithContext attaches the user to ctx.
func WithContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext returns the session user or SESSION_MISSING.
func FromContext(ctx context.Context) (*User, error) {
	if ctx == nil {
		return nil, appErrors.ErrSessionMissing
	}
	u, ok := ctx.Value(contextKey{}).(*User)
	if !ok || u == nil {
		return nil, appErrors.ErrSessionMissing
	}
	return u, nil
}
