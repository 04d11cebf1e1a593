package api

// TokenResponse представляет выпущенный bearer токен
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	UserID      string `json:"user_id"`      // метка владельца, зашитая в токен
	ExpiresIn   int64  `json:"expires_in"`   // время жизни токена в секундах
}
