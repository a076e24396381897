// Package auth resolves the ai.com credential forwarded with every check
// request.
//
// The credential is read from the process environment exactly once, at
// startup, and then threaded through the checker as a value. Nothing in
// this package talks to the network or persists anything.
package auth

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables consulted by Resolve, in priority order.
const (
	// EnvCookie holds a raw Cookie header value ("name=value; ...").
	EnvCookie = "AI_COM_COOKIE"

	// EnvToken holds a bare session token that is sent as "token=<value>".
	EnvToken = "AI_COM_TOKEN"
)

// DefaultEnvFile is the dotenv file loaded when no explicit path is given.
const DefaultEnvFile = ".env"

// LookupFunc has the signature of os.LookupEnv. Tests pass a map-backed
// implementation instead of touching the real environment.
type LookupFunc func(key string) (string, bool)

// Credential is the resolved Cookie header value.
type Credential struct {
	// Cookie is sent verbatim as the "cookie" request header.
	Cookie string

	// Source is the environment variable the value came from. It is safe to
	// log; Cookie is not.
	Source string
}

// Resolve inspects EnvCookie and then EnvToken. The first one that is set
// and non-empty wins. The second return value is false when neither is set,
// in which case the caller must not issue any request.
func Resolve(lookup LookupFunc) (Credential, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvCookie); ok && v != "" {
		return Credential{Cookie: v, Source: EnvCookie}, true
	}
	if v, ok := lookup(EnvToken); ok && v != "" {
		return Credential{Cookie: "token=" + v, Source: EnvToken}, true
	}
	return Credential{}, false
}

// MapLookup adapts a map to LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment using godotenv. Variables that are already set are left
// untouched, so an exported AI_COM_TOKEN always beats the file.
//
// When explicit is false, a missing file is silently ignored; this is the
// behaviour for the implicit ./.env lookup. An explicitly requested file
// that cannot be read is an error.
func LoadEnvFile(path string, explicit bool) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("env file %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}
