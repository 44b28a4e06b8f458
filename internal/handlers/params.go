package handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"

	"obmenBack/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// actorID returns the authenticated user id placed into the request
// context by the JWT middleware, or 0 for anonymous requests.
func actorID(r *http.Request) int {
	if id, ok := r.Context().Value("user_id").(int); ok {
		return id
	}
	return 0
}

// optionalActorID resolves the actor on routes that tolerate anonymous
// access: a bearer token is honored when present and valid, otherwise the
// request proceeds as anonymous.
func optionalActorID(r *http.Request, signingKey string) int {
	if id := actorID(r); id != 0 {
		return id
	}

	tokenString := r.Header.Get("Authorization")
	if !strings.HasPrefix(tokenString, "Bearer ") {
		return 0
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(signingKey), nil
	})
	if err != nil || !token.Valid {
		return 0
	}
	return int(claims.UserID)
}
