package models

// Friend is a directed relationship from an owner to another user.
// ID is the target user's ID, so one owner can hold a given friend only once.
type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Email     string `json:"email,omitempty"`

	// CreatedAt is the Unix timestamp when the relationship was added.
	CreatedAt int64 `json:"created_at"`
}

// FriendFromUser builds the relationship view of a user.
func FriendFromUser(u *User) Friend {
	return Friend{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
		Email:     u.Email,
	}
}
