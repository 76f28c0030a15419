//go:build prod

package config

// version is stamped at link time: -ldflags "-X monacobundle.dev/internal/config.version=v1.2.3"
var version = "v0.0.0"

func GetVersion() string {
	return version
}
