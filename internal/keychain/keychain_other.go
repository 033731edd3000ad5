//go:build !darwin

package keychain

import (
	"errors"
	"os/exec"
)

// lookupCommand queries libsecret with service and account as
// attributes. Store the token with:
//
//	secret-tool store --label stravabar service stravabar account strava-refresh-token
func lookupCommand(service, account string) (string, []string, error) {
	path, err := exec.LookPath("secret-tool")
	if err != nil {
		return "", nil, errors.New("keychain not available: secret-tool not found")
	}
	args := []string{"lookup", "service", service}
	if account != "" {
		args = append(args, "account", account)
	}
	return path, args, nil
}
