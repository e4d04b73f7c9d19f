package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache keeps one parsed copy per config type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	globalCache      = &cache{values: make(map[reflect.Type]any)}
	defaultEnvLoaded sync.Once
)

// LoadEnv loads one or more .env files into the process environment.
// Later files override values set by earlier ones. Already exported
// variables are overridden as well, so call it before the first Load.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		return godotenv.Load()
	}
	for _, path := range paths {
		if err := godotenv.Overload(path); err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", path, err))
		}
	}
	return nil
}

// MustLoadEnv is like LoadEnv but panics on error.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

// Load parses environment variables into v using `env` struct tags.
// The default .env file is read once, silently skipped when absent.
// Each config type is parsed only once; subsequent calls are served from cache.
//
// Example:
//
//	type ServerConfig struct {
//		Addr      string `env:"HTTP_ADDR" envDefault:":8080"`
//		JWTSecret string `env:"JWT_SECRET,required"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeKey[T]()

	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()

	if cached, ok := globalCache.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	globalCache.values[key] = *v

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configs the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// ForceReloadConfig drops the cached copy of T and parses the environment again.
func ForceReloadConfig[T any](v *T) error {
	globalCache.mu.Lock()
	delete(globalCache.values, typeKey[T]())
	globalCache.mu.Unlock()

	return Load(v)
}

// ResetCache clears every cached config. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	globalCache.values = make(map[reflect.Type]any)
	globalCache.mu.Unlock()
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
