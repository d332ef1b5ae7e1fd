package middlewares

import (
	"blog-app/validation"
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/crypto/bcrypt"
)

const defaultRealm = "Application"

// BasicAuthConfig holds the single admin credential pair.
type BasicAuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	Realm        string
}

// LoadBasicAuthConfig retrieves the admin credentials from the environment.
func LoadBasicAuthConfig() (BasicAuthConfig, error) {
	cfg := BasicAuthConfig{
		Username:     os.Getenv("ADMIN_USERNAME"),
		Password:     os.Getenv("ADMIN_PASSWORD"),
		PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		Realm:        os.Getenv("ADMIN_REALM"),
	}
	if cfg.Realm == "" {
		cfg.Realm = defaultRealm
	}
	if err := validation.ValidateAdminCredentials(cfg.Username, cfg.Password, cfg.PasswordHash); err != nil {
		return BasicAuthConfig{}, fmt.Errorf("invalid admin credentials (ADMIN_USERNAME, ADMIN_PASSWORD or ADMIN_PASSWORD_HASH): %w", err)
	}
	return cfg, nil
}

// BasicAuth challenges every request that does not carry the configured
// credentials.
func BasicAuth(cfg BasicAuthConfig) func(http.Handler) http.Handler {
	realm := cfg.Realm
	if realm == "" {
		realm = defaultRealm
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !cfg.matches(username, password) {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "HTTP Basic: Access denied.", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (cfg BasicAuthConfig) matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1

	var passOK bool
	if cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(cfg.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
	}
	return userOK && passOK
}
