// Package keychain reads secrets from the OS credential store.
package keychain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	// Service is the keychain service name the refresh token is stored under.
	Service = "stravabar"
	// Account is the entry holding the Strava refresh token.
	Account = "strava-refresh-token"
)

const lookupTimeout = 2 * time.Second

// output runs an external credential tool. Tests replace it.
var output = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// lookup runs the platform's tool for service and account and returns
// its trimmed stdout.
func lookup(service, account string) (string, error) {
	name, args, err := lookupCommand(service, account)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	out, err := output(ctx, name, args...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ReadGenericPassword returns the secret stored for service and, when
// set, account.
func ReadGenericPassword(service, account string) (string, error) {
	return lookup(service, account)
}

// RefreshToken returns the Strava refresh token from the OS keychain.
func RefreshToken() (string, error) {
	tok, err := ReadGenericPassword(Service, Account)
	if err != nil {
		return "", fmt.Errorf("reading refresh token from keychain: %w", err)
	}
	if tok == "" {
		return "", fmt.Errorf("keychain entry %s/%s is empty", Service, Account)
	}
	return tok, nil
}
