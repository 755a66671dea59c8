package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func TestResidentFromToken_ValidToken(t *testing.T) {
	token := signTestToken(t, "res-42")

	residentID, err := residentFromToken(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, "res-42", residentID)
}

func TestResidentFromToken_WrongSecret(t *testing.T) {
	token := signTestToken(t, "res-42")

	_, err := residentFromToken([]byte("another-secret"), token)
	require.Error(t, err)
}

func TestResidentFromToken_MissingSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = residentFromToken(testSecret, token)
	require.ErrorContains(t, err, "no subject")
}

func TestResidentFromToken_Expired(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "res-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = residentFromToken(testSecret, token)
	require.Error(t, err)
}

func TestResidentFromToken_Garbage(t *testing.T) {
	_, err := residentFromToken(testSecret, "not.a.token")
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	_, err = bearerToken(req)
	require.Error(t, err)

	req.Header.Set("Authorization", "Basic abc")
	_, err = bearerToken(req)
	require.Error(t, err)

	req.Header.Set("Authorization", "Bearer ")
	_, err = bearerToken(req)
	require.Error(t, err)

	req.Header.Set("Authorization", "Bearer my-token")
	token, err := bearerToken(req)
	require.NoError(t, err)
	require.Equal(t, "my-token", token)
}
