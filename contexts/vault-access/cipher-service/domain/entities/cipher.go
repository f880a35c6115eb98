package entities

import "time"

// Cipher is one vault item. Exactly one of UserID or TeamID is set: a
// personal cipher belongs to a user, a team cipher belongs to a team and is
// optionally restricted to specific collections.
type Cipher struct {
	CipherID  string    `json:"cipher_id"`
	UserID    *string   `json:"user_id,omitempty"`
	TeamID    *string   `json:"team_id,omitempty"`
	Kind      string    `json:"kind"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the cipher is the user's personal item.
func (c Cipher) OwnedBy(userID string) bool {
	return c.UserID != nil && *c.UserID == userID
}

// TeamOwned reports whether the cipher belongs to a sharing team.
func (c Cipher) TeamOwned() bool {
	return c.TeamID != nil && *c.TeamID != ""
}
