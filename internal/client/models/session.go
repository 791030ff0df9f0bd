package models

// Identity mirrors the user object returned by the auth API.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Session is what the CLI keeps between runs. RefreshToken is the value of
// the refresh cookie the server set on the last login or refresh.
type Session struct {
	User         Identity `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

// LoggedIn reports whether s holds anything usable for authenticated calls.
func (s *Session) LoggedIn() bool {
	return s != nil && (s.AccessToken != "" || s.RefreshToken != "")
}

// AvatarUpload is the presigned upload target handed out by the server.
type AvatarUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}
