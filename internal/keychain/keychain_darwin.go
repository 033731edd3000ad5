//go:build darwin

package keychain

// lookupCommand queries the login keychain. Store the token with:
//
//	security add-generic-password -s stravabar -a strava-refresh-token -w <token>
func lookupCommand(service, account string) (string, []string, error) {
	args := []string{"find-generic-password", "-s", service}
	if account != "" {
		args = append(args, "-a", account)
	}
	return "security", append(args, "-w"), nil
}
