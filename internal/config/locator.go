package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrClientSecretNotFound is returned when no search pattern matches an existing file.
var ErrClientSecretNotFound = errors.New("no valid 'client_secret' ('credentials') JSON found")

// FindClientSecret returns the first existing file matched by patterns.
//
// Patterns are tried in order. The directory part of a pattern is taken
// literally and only the file name may contain wildcards. Within a single
// pattern, matches are considered in directory listing order (sorted by name)
// and the first one wins.
func FindClientSecret(patterns []string) (string, error) {
	for _, pattern := range patterns {
		match, err := firstMatch(pattern)
		if err != nil {
			return "", err
		}
		if match != "" {
			return match, nil
		}
	}
	return "", fmt.Errorf("%w (searched %v)", ErrClientSecretNotFound, patterns)
}

func firstMatch(pattern string) (string, error) {
	if pattern == "" {
		return "", nil
	}

	dir, name := filepath.Split(pattern)
	if _, err := filepath.Match(name, ""); err != nil {
		return "", fmt.Errorf("invalid client secret pattern %q: %w", pattern, err)
	}

	listDir := dir
	if listDir == "" {
		listDir = "."
	}

	entries, err := os.ReadDir(listDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return "", nil
		}
		return "", fmt.Errorf("failed to list %s: %w", listDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(name, entry.Name()); ok {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", nil
}
