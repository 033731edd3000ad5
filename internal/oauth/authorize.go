package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// CallbackPath is where Strava redirects after the user approves access.
const CallbackPath = "/callback"

type callbackResult struct {
	code string
	err  error
}

// Authorize runs the authorization code flow through a callback server on
// 127.0.0.1:port (an ephemeral port when zero). open is handed the URL the
// user must visit. It blocks until the callback arrives or ctx ends, then
// exchanges the code using hc.
func Authorize(ctx context.Context, cfg *oauth2.Config, port int, hc *http.Client, open func(string) error) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("starting callback server: %w", err)
	}

	oc := *cfg
	oc.RedirectURL = fmt.Sprintf("http://localhost:%d%s", ln.Addr().(*net.TCPAddr).Port, CallbackPath)

	state, err := randomState()
	if err != nil {
		_ = ln.Close()
		return nil, err
	}

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		res := parseCallback(r, state)
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			_, _ = fmt.Fprintln(w, "stravabar is authorized. You can close this window.")
		}
		select {
		case results <- res:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() { _ = srv.Close() }()

	authURL := oc.AuthCodeURL(state,
		oauth2.SetAuthURLParam("approval_prompt", "auto"),
	)
	if err := open(authURL); err != nil {
		return nil, fmt.Errorf("opening authorization page: %w", err)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}
	tok, err := oc.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

func parseCallback(r *http.Request, state string) callbackResult {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return callbackResult{err: fmt.Errorf("authorization failed: %s", e)}
	}
	if q.Get("state") != state {
		return callbackResult{err: errors.New("authorization failed: state mismatch")}
	}
	code := q.Get("code")
	if code == "" {
		return callbackResult{err: errors.New("authorization failed: no code in callback")}
	}
	// Strava lets the user untick individual scopes.
	if scope := q.Get("scope"); scope != "" && !strings.Contains(scope, "activity:read") {
		return callbackResult{err: fmt.Errorf("authorization failed: activity access not granted (scope %q)", scope)}
	}
	return callbackResult{code: code}
}

func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return hex.EncodeToString(b), nil
}
