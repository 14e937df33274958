//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Serve builds the binary and runs the MCP server over HTTP on :8080.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV("bin/deepdive", "serve", "--http", ":8080")
}

// Demo builds the binary and runs an offline research pass with heuristic
// illustrations.
func Demo() error {
	mg.Deps(Build)
	env := map[string]string{"DEEPDIVE_IMAGE_MODE": "heuristic"}
	return sh.RunWithV(env, "bin/deepdive", "research", "--depth", "1", "How Neural Networks Work")
}
