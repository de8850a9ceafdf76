package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-event-reservation/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
)

const testJWTSecret = "test-secret"

const InvalidJSON = "{not json"

func createJSONHTTPRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer

	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func makeToken(t *testing.T, userID int, canManage bool) string {
	t.Helper()

	claims := &middleware.Claims{
		UserID:    userID,
		CanManage: canManage,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}

func withAuth(t *testing.T, req *http.Request, userID int, canManage bool) *http.Request {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+makeToken(t, userID, canManage))
	return req
}
