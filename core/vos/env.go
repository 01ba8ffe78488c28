// Package vos holds the shell's view of its process environment.
package vos

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// VEnv is a mutable set of environment variables.
type VEnv interface {
	Setenv(key, value string) error
	Unsetenv(key string) error
	LookupEnv(key string) (string, bool)
	Getenv(key string) string
	Environ() []string
}

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates a new environment from KEY=VALUE pairs.
// Entries without a value are set to the empty string; invalid keys are
// skipped.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}

	for _, e := range environ {
		key, value := SplitEnv(e)
		_ = out.Setenv(key, value)
	}

	return out
}

// SplitEnv splits a KEY=VALUE pair at the first equals sign.
func SplitEnv(kv string) (key, value string) {
	split := strings.SplitN(kv, "=", 2)
	key = split[0]
	if len(split) > 1 {
		value = split[1]
	}
	return key, value
}

// MapEnv implements an in-memory VEnv.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// Unsetenv implements VEnv.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.rw.Lock()
	defer m.rw.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
	return nil
}

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\x00") {
		return fmt.Errorf("invalid variable name %q", key)
	}

	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv implements VEnv.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ implements VEnv.Environ, the result is sorted by key.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	m.rw.RUnlock()

	sort.Strings(env)
	return env
}

// Clearenv removes every variable.
func (m *MapEnv) Clearenv() {
	m.rw.Lock()
	defer m.rw.Unlock()
	m.env = make(map[string]string)
}
