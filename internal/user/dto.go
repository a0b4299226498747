package user

type CreateUserDTO struct {
	GoogleID  string `json:"google_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
