package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/shopfront/cartcore/internal/domain/auth"
)

// Security authenticates shoppers from a bearer token hashed with
// HMAC-SHA256 under a server-side pepper. A missing or invalid token is
// not an error here: the request proceeds unauthenticated and the
// checkout gate decides what that means.
type Security struct {
	tokens auth.Repository
	pepper []byte
}

// NewSecurity creates a Security middleware source with the given token
// repository and HMAC pepper.
func NewSecurity(tokens auth.Repository, pepper []byte) *Security {
	return &Security{tokens: tokens, pepper: pepper}
}

// Authenticate resolves the request's shopper identity, if any, into the
// context.
func (s *Security) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		mac := hmac.New(sha256.New, s.pepper)
		mac.Write([]byte(token))
		hash := mac.Sum(nil)
		hexHash := hex.EncodeToString(hash)

		info, err := s.tokens.FindByHash(r.Context(), hexHash)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		// Constant-time comparison guards against timing side-channels in
		// case the repository returns a stale or wrong row.
		storedBytes, err := hex.DecodeString(info.TokenHash)
		if err != nil || subtle.ConstantTimeCompare(hash, storedBytes) != 1 {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithShopper(r.Context(), info)))
	})
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.Header.Get("X-Shopper-Token")
}
