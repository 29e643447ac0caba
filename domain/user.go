package domain

// User is the identity a seat is bound to. It is copied into history events
// so they stay renderable after the seat is vacated.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}
