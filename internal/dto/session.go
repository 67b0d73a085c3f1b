package dto

// SessionResponse describes the operator session after login or on the landing route.
type SessionResponse struct {
	Authenticated bool                   `json:"authenticated"`
	Role          string                 `json:"role,omitempty"`
	DisplayName   string                 `json:"displayName,omitempty"`
	Home          string                 `json:"home"`
	User          map[string]interface{} `json:"user,omitempty"`
}
