package api

type Friend struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

type ListFriendsRequest struct{}

type ListFriendsResponse struct {
	Friends []*Friend `json:"friends"`
}

// AddFriendRequest names the target by FriendID, or by Candidate
// (username or email, matched case-insensitively) when FriendID is empty.
type AddFriendRequest struct {
	FriendID  string `json:"friendId,omitempty"`
	Candidate string `json:"candidate,omitempty"`
}

type AddFriendResponse struct {
	Friend *Friend `json:"friend"`
}

type RemoveFriendRequest struct {
	FriendID string `json:"friendId"`
}

type RemoveFriendResponse struct{}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

// FindUserRequest resolves Query against usernames first, then emails.
type FindUserRequest struct {
	Query string `json:"query"`
}

type FindUserResponse struct {
	User *User `json:"user"`
}
