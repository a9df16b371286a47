package config

import "log"

// MustLoad is Load for main: a bad configuration stops the process.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
