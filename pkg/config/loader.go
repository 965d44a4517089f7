package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache         sync.Map // reflect.Type -> parsed value
	defaultEnvOne sync.Once
)

// Load parses the environment into v. The first successful load of a type
// is cached and copied into every later call for that type.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvOne.Do(func() {
		// A missing .env is normal outside development.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	actual, _ := cache.LoadOrStore(key, parsed)
	*v = actual.(T)
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv reads the given env files into the process environment.
// Later files override earlier ones; the process environment is not
// overridden. Cached configs are dropped so the next Load sees the new values.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	merged := make(map[string]string)
	for _, p := range paths {
		vals, err := godotenv.Read(p)
		if err != nil {
			return errors.Join(ErrLoadingEnv, err)
		}
		for k, v := range vals {
			merged[k] = v
		}
	}
	for k, v := range merged {
		if _, set := lookupEnv(k); set {
			continue
		}
		if err := setEnv(k, v); err != nil {
			return errors.Join(ErrLoadingEnv, err)
		}
	}
	ResetCache()
	return nil
}

// ResetCache drops every cached config. Intended for tests.
func ResetCache() {
	cache.Clear()
}
