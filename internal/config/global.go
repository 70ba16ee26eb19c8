// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride allows tests to override the config directory.
// This is necessary because os.UserHomeDir() doesn't reliably respect
// the HOME environment variable on all platforms (e.g., macOS in CI).
var configDirOverride string

// configFileOverride is an explicit config file path set via --config.
var configFileOverride string

// Reset clears overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFileOverride = ""
}

// SetConfigDirOverride sets a custom config directory path, primarily
// for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride makes Load read exactly the given file.
func SetConfigFilePathOverride(path string) {
	configFileOverride = path
}
