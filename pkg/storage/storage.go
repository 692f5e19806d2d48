// Package storage provides a key-value storage abstraction independent of
// database providers, along with bolt, redis, postgres, and in-memory
// implementations.
package storage

import (
	"context"
	"fmt"
	"strings"
)

type Type string

const (
	Bolt     Type = "bolt"
	Memory   Type = "memory"
	Redis    Type = "redis"
	Postgres Type = "postgres"
)

// Option is a provider-specific configuration value, identified by ID.
type Option struct {
	ID     OptionKey
	Option any
}

type OptionKey string

const (
	BoltDBFilePathOption        OptionKey = "boltdb-filepath-option"
	RedisAddressOption          OptionKey = "redis-address-option"
	PasswordOption              OptionKey = "password-option"
	PostgresConnectStringOption OptionKey = "postgres-connect-string-option"
)

// ServiceStorage describes the api for storage independent of DB providers
type ServiceStorage interface {
	Init(opts ...Option) error
	Type() Type
	URI() string
	IsOpen() bool
	Close() error
	Write(ctx context.Context, namespace, key string, value []byte) error
	Read(ctx context.Context, namespace, key string) ([]byte, error)
	Exists(ctx context.Context, namespace, key string) (bool, error)
	ReadAll(ctx context.Context, namespace string) (map[string][]byte, error)
	Delete(ctx context.Context, namespace, key string) error
	DeleteNamespace(ctx context.Context, namespace string) error
}

var registeredStorageProviders = map[Type]ServiceStorage{}

// RegisterStorage makes a provider available to NewStorage. Duplicate
// registration for a type is an error.
func RegisterStorage(provider ServiceStorage) error {
	if _, ok := registeredStorageProviders[provider.Type()]; ok {
		return fmt.Errorf("storage provider already registered: %s", provider.Type())
	}
	registeredStorageProviders[provider.Type()] = provider
	return nil
}

// IsStorageAvailable returns whether a provider is registered for the type.
func IsStorageAvailable(storageType Type) bool {
	_, ok := registeredStorageProviders[storageType]
	return ok
}

// AvailableStorage returns the set of registered provider types.
func AvailableStorage() []Type {
	types := make([]Type, 0, len(registeredStorageProviders))
	for t := range registeredStorageProviders {
		types = append(types, t)
	}
	return types
}

// NewStorage initializes the registered provider for the given type.
func NewStorage(storageType Type, opts ...Option) (ServiceStorage, error) {
	provider, ok := registeredStorageProviders[storageType]
	if !ok {
		return nil, fmt.Errorf("unsupported storage provider: %s", storageType)
	}
	if err := provider.Init(opts...); err != nil {
		return nil, err
	}
	return provider, nil
}

// MakeNamespace takes a set of possible namespace values and combines them as a convention
func MakeNamespace(ns ...string) string {
	return strings.Join(ns, "-")
}

func optionValue[T any](opts []Option, id OptionKey) (T, bool) {
	var zero T
	for _, opt := range opts {
		if opt.ID == id {
			if v, ok := opt.Option.(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}
