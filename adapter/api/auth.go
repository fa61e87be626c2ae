package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// accessTokenTTL and refreshTokenTTL match spec.md §6's "~15 min"
// access token and long-lived refresh token.
const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid or expired token")
)

// tokenClaims is the opaque payload carried by a bearer token: only a
// user identifier and, for refresh tokens, a type marker (spec.md §6).
type tokenClaims struct {
	Subject string `json:"sub"`
	Type    string `json:"type,omitempty"`
	Expires int64  `json:"exp"`
}

// tokenIssuer signs and verifies bearer tokens with an HMAC-SHA256 tag
// over a base64url-encoded claims payload. No ecosystem token library
// appears anywhere in the corpus (see DESIGN.md); this is the
// authentication adapter's own minimal standard-library concern, not
// the scheduling core.
type tokenIssuer struct {
	secret []byte
}

func newTokenIssuer(secret string) *tokenIssuer {
	return &tokenIssuer{secret: []byte(secret)}
}

func (i *tokenIssuer) issue(ownerID uuid.UUID) (accessToken, refreshToken string) {
	now := time.Now()
	accessToken = i.sign(tokenClaims{Subject: ownerID.String(), Expires: now.Add(accessTokenTTL).Unix()})
	refreshToken = i.sign(tokenClaims{Subject: ownerID.String(), Type: "refresh", Expires: now.Add(refreshTokenTTL).Unix()})
	return accessToken, refreshToken
}

func (i *tokenIssuer) sign(claims tokenClaims) string {
	payload, _ := json.Marshal(claims)
	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(encodedPayload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return encodedPayload + "." + sig
}

func (i *tokenIssuer) verify(token string) (*tokenClaims, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return nil, errInvalidToken
	}
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(parts[0]))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return nil, errInvalidToken
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, errInvalidToken
	}
	var claims tokenClaims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, errInvalidToken
	}
	if time.Now().Unix() > claims.Expires {
		return nil, errInvalidToken
	}
	return &claims, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

type ownerIDKey struct{}

func ownerIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerIDKey{}).(uuid.UUID)
	return id, ok
}

// authenticate extracts and validates an access token, injecting the
// owner's UUID into the request context. When issuer is nil (no
// ORBITA_AUTH_SECRET configured, e.g. local/CLI-adjacent deployments)
// every request is attributed to fallbackOwner instead, matching the
// CLI's single-user, auth-less operation.
func authenticate(issuer *tokenIssuer, fallbackOwner uuid.UUID, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if issuer == nil {
			ctx := context.WithValue(r.Context(), ownerIDKey{}, fallbackOwner)
			next(w, r.WithContext(ctx))
			return
		}

		token, err := bearerToken(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		claims, err := issuer.verify(token)
		if err != nil || claims.Type == "refresh" {
			writeAuthError(w, errInvalidToken)
			return
		}
		ownerID, err := uuid.Parse(claims.Subject)
		if err != nil {
			writeAuthError(w, errInvalidToken)
			return
		}
		ctx := context.WithValue(r.Context(), ownerIDKey{}, ownerID)
		next(w, r.WithContext(ctx))
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	writeJSONError(w, http.StatusUnauthorized, err.Error())
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// handleRefreshToken exchanges a valid refresh token for a fresh
// access/refresh pair (spec.md §6's `/auth/refresh-token`).
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	if s.tokens == nil {
		writeJSONError(w, http.StatusNotFound, "authentication is not configured")
		return
	}
	var req refreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims, err := s.tokens.verify(req.RefreshToken)
	if err != nil || claims.Type != "refresh" {
		writeAuthError(w, errInvalidToken)
		return
	}
	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		writeAuthError(w, errInvalidToken)
		return
	}
	access, refresh := s.tokens.issue(ownerID)
	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: access, RefreshToken: refresh})
}
