package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Load reads a json5 configuration file. When a sibling file named
// `<name>.local.<ext>` exists its values are merged on top, so secrets and
// per-machine overrides stay out of the committed config. Returns
// os.ErrNotExist when neither file is present.
func Load[T any](name string) (T, error) {
	var out T
	found := false

	base, err := readInto(name, &out)
	if err != nil {
		return out, err
	}
	found = found || base

	local, err := localPath(name)
	if err != nil {
		return out, err
	}
	var override T
	hasLocal, err := readInto(local, &override)
	if err != nil {
		return out, err
	}
	if hasLocal {
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", local)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// LoadRecursively behaves like Load but walks up the filesystem from the
// working directory until it finds a matching config file or hits the root.
func LoadRecursively[T any](name string) (T, error) {
	var zero T

	root, err := filepath.Abs(string(filepath.Separator))
	if err != nil {
		return zero, err
	}
	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for current != root {
		out, err := Load[T](filepath.Join(current, name))
		if os.IsNotExist(err) {
			current = filepath.Dir(current)
			continue
		}
		return out, err
	}
	return zero, os.ErrNotExist
}

func readInto[T any](path string, out *T) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := json5.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func localPath(name string) (string, error) {
	dir := filepath.Dir(name)
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext)
	if ext == "" {
		return "", fmt.Errorf("config name %q has no extension", name)
	}
	return filepath.Join(dir, fmt.Sprintf("%s.local%s", prefix, ext)), nil
}
