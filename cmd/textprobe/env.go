package main

import (
	"io"
	"os"
	"time"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment, and the user cache location.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	Environ      func() []string
	UserCacheDir func() (string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Environ:      os.Environ,
		UserCacheDir: os.UserCacheDir,
	}
}
