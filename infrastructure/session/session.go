package session

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const CookieName = "cws_session"

func SessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   false,
	}
}

// NewID returns a random dashboard session id.
func NewID() string {
	return uuid.NewString()
}

// Expiry is now+ttl, shortened to the backend token's exp claim when the
// token is a JWT that expires earlier. The signature is not checked here;
// the backend remains the authority and answers 401 for a bad token.
func Expiry(backendToken string, ttl time.Duration, now time.Time) time.Time {
	expiry := now.Add(ttl)
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(backendToken, claims); err != nil {
		return expiry
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return expiry
	}
	tokenExpiry := time.Unix(int64(exp), 0)
	if tokenExpiry.Before(expiry) {
		return tokenExpiry
	}
	return expiry
}

// MaxAge converts an expiry into cookie seconds, never negative.
func MaxAge(expiry, now time.Time) int {
	secs := int(expiry.Sub(now).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
