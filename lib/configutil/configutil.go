// Package configutil layers configuration sources. A json5 file (and its
// .local override) is the base, a .env file in the working directory fills the
// process environment and the environment has the final word.
package configutil

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

func localName(name string) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s.local%s", strings.TrimSuffix(name, ext), ext)
}

func readJSON5[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads a configuration file, `name` should come with a file
// extension. The following files are merged, later ones win:
//  1. <name>.<ext>
//  2. <name>.local.<ext>
//
// fs.ErrNotExist is returned when neither exists.
func ReadConfig[T any](name string) (T, error) {
	var out T

	foundDefault, err := readJSON5(name, &out)
	if err != nil {
		return out, err
	}

	var override T
	local := localName(name)
	foundLocal, err := readJSON5(local, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", local)
	}

	if !foundDefault && !foundLocal {
		return out, fs.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it walks up from the working directory
// until the filesystem root to find a file matching name.
func ReadRecursively[T any](name string) (T, error) {
	var empty T

	current, err := os.Getwd()
	if err != nil {
		return empty, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return empty, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return empty, fs.ErrNotExist
		}
		current = parent
	}
}

// Load resolves T from every source: the json5 file found by ReadRecursively
// (optional), .env files (optional, existing variables are not overwritten)
// and finally the `env` tags of T through cleanenv.
func Load[T any](name string, dotenv ...string) (T, error) {
	out, err := ReadRecursively[T](name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return out, err
	}

	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		err = godotenv.Load(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return out, fmt.Errorf("load %s: %w", path, err)
		}
	}

	err = cleanenv.ReadEnv(&out)
	if err != nil {
		return out, err
	}
	return out, nil
}
