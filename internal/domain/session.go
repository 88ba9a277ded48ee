package domain

// Session is the authenticated identity held by the client.
// A stored session always has a non-empty Token; it is trusted until the API rejects it.
type Session struct {
	ID      string `json:"_id" validate:"required"`
	Name    string `json:"name"`
	Email   string `json:"email" validate:"required"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token" validate:"required"`
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}
