//go:build !prod

package config

func GetVersion() string {
	return "v0.0.0-dev"
}
