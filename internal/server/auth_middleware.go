package server

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	"github.com/Emes13/habittrax/internal/config"
	"github.com/Emes13/habittrax/internal/logger"
	"github.com/coreos/go-oidc/v3/oidc"
)

// apiKeyPrefix marks bearer tokens that are API keys rather than ID tokens.
// Only hab_live_ keys are generated.
const apiKeyPrefix = "hab_"

type userCtxKey struct{}

type User struct {
	Subject string
	Email   string
	UserID  string
	Claims  map[string]any
}

type AuthProvider struct {
	name       string
	oidcProv   *oidc.Provider
	idVerifier *oidc.IDTokenVerifier
}

func ConfigureOIDCProviders(cfg *config.Config) (map[string]*AuthProvider, error) {
	logger.Info("Configuring OIDC providers", "count", len(cfg.OIDCProviders))
	providers := make(map[string]*AuthProvider)

	for _, p := range cfg.OIDCProviders {
		logger.Debug("Setting up OIDC provider", "id", p.Id, "name", p.Name, "issuer", p.IssuerURL)
		prov, err := oidc.NewProvider(context.Background(), p.IssuerURL)
		if err != nil {
			logger.Error("Failed to create OIDC provider", "id", p.Id, "error", err)
			return nil, fmt.Errorf("failed to create OIDC provider %s: %w", p.Id, err)
		}

		providers[p.Id] = &AuthProvider{
			name:       p.Name,
			oidcProv:   prov,
			idVerifier: prov.Verifier(&oidc.Config{ClientID: p.ClientID}),
		}
		logger.Info("OIDC provider configured successfully", "id", p.Id, "name", p.Name)
	}

	return providers, nil
}

// authMiddleware accepts either an API key or a provider-prefixed ID token
// ("provider:jwt") as a bearer token.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Auth middleware processing request", "method", r.Method, "path", r.URL.Path)

		ah := r.Header.Get("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			RecordAuthEvent("verification", "missing_token", "unknown")
			s.handleAuthFailure(w, r, false)
			return
		}
		token := strings.TrimPrefix(ah, "Bearer ")

		if strings.HasPrefix(token, apiKeyPrefix) {
			user, ok := s.authenticateAPIKey(r.Context(), token)
			if !ok {
				RecordAuthEvent("verification", "failed", "apikey")
				s.handleAuthFailure(w, r, true)
				return
			}
			logger.Debug("API key authentication successful", "user_id", user.UserID)
			RecordAuthEvent("verification", "success", "apikey")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, user)))
			return
		}

		providerID, rawIDToken, err := parseProviderToken(token)
		if err != nil {
			logger.Debug("Failed to parse Bearer token", "error", err)
			RecordAuthEvent("verification", "missing_token", "unknown")
			s.handleAuthFailure(w, r, true)
			return
		}
		provider, exists := s.authProviders[providerID]
		if !exists {
			logger.Debug("Unknown provider in Bearer token", "provider", providerID)
			RecordAuthEvent("verification", "unknown_provider", providerID)
			s.handleAuthFailure(w, r, true)
			return
		}

		idTok, err := provider.idVerifier.Verify(r.Context(), rawIDToken)
		if err != nil {
			logger.Debug("ID token verification failed", "provider", providerID, "error", err)
			RecordAuthEvent("verification", "failed", providerID)
			s.handleAuthFailure(w, r, true)
			return
		}
		RecordAuthEvent("verification", "success", providerID)

		var claims map[string]any
		if err := idTok.Claims(&claims); err != nil {
			logger.Error("Failed to extract claims from token", "error", err)
			s.handleAuthFailure(w, r, true)
			return
		}
		u := &User{
			Subject: idTok.Subject,
			Email:   strClaim(claims, "email"),
			UserID:  userIDFromClaims(claims),
			Claims:  claims,
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, u)))
	})
}

// parseProviderToken splits a token of the form "provider:jwt".
func parseProviderToken(token string) (providerID, jwt string, err error) {
	if token == "" {
		return "", "", fmt.Errorf("empty token")
	}

	providerID, jwt, ok := strings.Cut(token, ":")
	if !ok {
		return "", "", fmt.Errorf("invalid token format: expected 'provider:jwt'")
	}
	if providerID == "" {
		return "", "", fmt.Errorf("empty provider ID")
	}
	if jwt == "" {
		return "", "", fmt.Errorf("empty JWT token")
	}
	return providerID, jwt, nil
}

func strClaim(m map[string]any, k string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return ""
}

// userIDFromClaims derives a stable user ID from the issuer and subject.
func userIDFromClaims(claims map[string]any) string {
	iss, ok := claims["iss"].(string)
	if !ok {
		return ""
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return ""
	}

	hash := sha256.Sum256([]byte(iss + "|" + sub))
	return fmt.Sprintf("user-%x", hash[:8])
}

// userIDFromContext extracts user ID from authenticated request context
func userIDFromContext(authEnabled bool, r *http.Request) string {
	if !authEnabled {
		return "anonymous"
	}

	user, ok := r.Context().Value(userCtxKey{}).(*User)
	if !ok {
		logger.Error("No user in context")
		return ""
	}
	return user.UserID
}

func (s *Server) handleAuthFailure(w http.ResponseWriter, r *http.Request, invalidToken bool) {
	logger.Debug("Returning 401 unauthorized", "path", r.URL.Path, "method", r.Method)
	if invalidToken {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	} else {
		w.Header().Set("WWW-Authenticate", `Bearer realm="habittrax"`)
	}
	writeError(w, http.StatusUnauthorized, "unauthorized")
}

// authenticateAPIKey validates an API key and returns the associated User
func (s *Server) authenticateAPIKey(ctx context.Context, apiKey string) (*User, bool) {
	keyHash := hashAPIKey(apiKey)

	logger.Debug("Looking up API key", "key_hash", truncateHash(keyHash))
	userID, found, err := s.store.GetAPIKey(ctx, keyHash)
	if err != nil {
		logger.Error("Failed to lookup API key", "error", err)
		return nil, false
	}
	if !found {
		logger.Debug("API key not found in storage")
		return nil, false
	}

	// API keys carry no OIDC subject or email.
	return &User{
		UserID:  userID,
		Subject: "apikey:" + truncateHash(keyHash),
		Claims:  map[string]any{"auth_method": "api_key"},
	}, true
}
