package auth

// AuthResult is returned by login and refresh. It is never persisted; the
// transport layer decides how the tokens travel (body, cookie).
type AuthResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
}
