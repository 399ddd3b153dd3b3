package websocket

import (
	"crypto/rsa"
	"net/http"
	"strings"

	"github.com/concordlabs/concord/internal/utils"
)

func JWTWebSocketAuth(publicKey *rsa.PublicKey) AuthenticatorFunc {
	return func(r *http.Request) (userID string, err error) {
		token := getTokenFromRequest(r)
		if token == "" {
			return "", &AuthError{Message: "missing token"}
		}

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			// websocket handshakes cannot refresh; the client must
			// refresh over HTTP and reconnect
			return "", &AuthError{Message: "invalid or expired token"}
		}

		return claims.Sub, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	// Option 1: Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Option 2: Query parameter
	token := r.URL.Query().Get("token")
	if token != "" {
		return token
	}

	// Option 3: Cookie
	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
