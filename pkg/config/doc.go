// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// the default .env file (if any) is read once, then each struct is populated
// from its `env` tags and cached by type for the rest of the process.
//
// Every package of the service owns its Config struct (mongo.Config,
// redis.Config, email.Config, httpserver.Config and so on) and the binary
// loads them all at startup:
//
//	var dbCfg mongo.Config
//	if err := config.Load(&dbCfg); err != nil {
//		log.Fatal(err)
//	}
//
// ResetCache and ForceReloadConfig exist for tests that change the
// environment between loads.
package config
