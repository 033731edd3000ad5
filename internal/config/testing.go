package config

import "testing"

// Override installs the defaults, adjusted by edit, as the active config
// until the test ends.
func Override(t testing.TB, edit func(*Config)) {
	t.Helper()
	cfg := DefaultConfig()
	if edit != nil {
		edit(&cfg)
	}

	configMu.Lock()
	prev := globalConfig
	globalConfig = &cfg
	configMu.Unlock()

	t.Cleanup(func() {
		configMu.Lock()
		globalConfig = prev
		configMu.Unlock()
	})
}
