package dto

// TokenResponse carries an issued token and its short alias. ExpiresIn is
// the validity window in seconds; clients must not cache the token beyond it.
type TokenResponse struct {
	Token     string `json:"token"`
	Alias     string `json:"alias"`
	ExpiresIn int    `json:"expires_in"`
}

// NewTokenResponse builds a TokenResponse from an issued token pair.
func NewTokenResponse(token, alias string, expiresIn int) TokenResponse {
	return TokenResponse{
		Token:     token,
		Alias:     alias,
		ExpiresIn: expiresIn,
	}
}
