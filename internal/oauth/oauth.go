// Package oauth stores the Strava OAuth token and keeps it fresh.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/keychain"
)

// Scope requests read access to the athlete's activities, private ones
// included. Strava separates scopes with commas, not spaces.
const Scope = "read,activity:read_all"

// ErrNoToken means no refresh token was found in any source.
var ErrNoToken = errors.New("no Strava token found; run `stravabar auth`")

// Endpoint is Strava's OAuth endpoint. Client credentials travel in the
// request body.
var Endpoint = oauth2.Endpoint{
	AuthURL:   endpoints.Strava.AuthURL,
	TokenURL:  endpoints.Strava.TokenURL,
	AuthStyle: oauth2.AuthStyleInParams,
}

var readKeychainToken = keychain.RefreshToken

// NewConfig builds the oauth2 configuration for the configured Strava app.
func NewConfig(sc config.StravaConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     sc.ClientID,
		ClientSecret: sc.ClientSecret,
		Endpoint:     Endpoint,
		Scopes:       []string{Scope},
	}
}

// Source names where a token was loaded from.
type Source string

const (
	SourceFile     Source = "file"
	SourceEnv      Source = "env"
	SourceKeychain Source = "keychain"
)

// LoadToken returns the stored token. The token file wins because Strava
// rotates refresh tokens and the file always holds the latest one; the
// environment and the keychain only seed a first refresh.
func LoadToken(cfg config.Config) (*oauth2.Token, Source, error) {
	data, err := config.ReadCredential(config.TokenPath())
	if err != nil {
		return nil, "", fmt.Errorf("reading token: %w", err)
	}
	if data != nil {
		var tok oauth2.Token
		if err := json.Unmarshal(data, &tok); err != nil {
			return nil, "", fmt.Errorf("parsing token %s: %w", config.TokenPath(), err)
		}
		if tok.RefreshToken != "" || tok.AccessToken != "" {
			return &tok, SourceFile, nil
		}
	}

	if rt := config.RefreshTokenFromEnv(); rt != "" {
		return &oauth2.Token{RefreshToken: rt}, SourceEnv, nil
	}

	if cfg.Credentials.UseKeyring {
		rt, err := readKeychainToken()
		if err == nil {
			return &oauth2.Token{RefreshToken: rt}, SourceKeychain, nil
		}
	}

	return nil, "", ErrNoToken
}

// SaveToken writes tok to the token file with owner-only permissions.
func SaveToken(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}
	return config.WriteCredential(config.TokenPath(), data)
}

// TokenSource hands out valid access tokens, refreshing through the
// token endpoint when needed and persisting every rotated token. It is
// safe for concurrent use.
type TokenSource struct {
	cfg  *oauth2.Config
	http *http.Client
	save func(*oauth2.Token) error

	mu  sync.Mutex
	tok *oauth2.Token
}

// NewTokenSource starts from tok. hc carries requests to the token
// endpoint; save is called with each new token (SaveToken when nil).
func NewTokenSource(cfg *oauth2.Config, tok *oauth2.Token, hc *http.Client, save func(*oauth2.Token) error) *TokenSource {
	if save == nil {
		save = SaveToken
	}
	return &TokenSource{cfg: cfg, http: hc, save: save, tok: tok}
}

// Token returns a valid token for ctx.
func (s *TokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok.Valid() {
		return s.tok, nil
	}
	if s.tok == nil || s.tok.RefreshToken == "" {
		return nil, ErrNoToken
	}

	if s.http != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.http)
	}
	tok, err := s.cfg.TokenSource(ctx, s.tok).Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
			return nil, fmt.Errorf("refreshing Strava token was rejected (%d); run `stravabar auth`: %w", re.Response.StatusCode, err)
		}
		return nil, fmt.Errorf("refreshing Strava token: %w", err)
	}

	if tok.AccessToken != s.tok.AccessToken || tok.RefreshToken != s.tok.RefreshToken {
		if err := s.save(tok); err != nil {
			return nil, fmt.Errorf("saving refreshed token: %w", err)
		}
	}
	s.tok = tok
	return tok, nil
}
