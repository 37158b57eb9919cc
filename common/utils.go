// Package common provides small helpers shared by commands and services.
package common

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Now returns the current unix time in seconds
func Now() int64 {
	return time.Now().Unix()
}

// NowStr returns Now as a decimal string
func NowStr() string {
	return strconv.FormatInt(Now(), 10)
}

// NowMilli returns the current unix time in milliseconds
func NowMilli() int64 {
	return time.Now().UnixNano() / 1e6
}

// FileExist reports whether a regular file or directory exists at path
func FileExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CurrentDir returns the working directory
func CurrentDir() (string, error) {
	return os.Getwd()
}

// ExecuteDir returns the directory of the running executable
func ExecuteDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// AbsolutePath resolves path against base unless it is already absolute.
// A leading "~/" is expanded to the home directory.
func AbsolutePath(base, path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// SecondsDuration converts a config value in seconds to a duration
func SecondsDuration(secs uint64) time.Duration {
	return time.Duration(secs) * time.Second
}
