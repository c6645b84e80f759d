//go:build mage

// Package main contains Mage build targets for cosmofeed developer
// tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "cosmofeed"
	cmdPkg  = "./cmd/cosmofeed"
)

// Build compiles the pure-Go CLI binary into bin/. No CGO; cosine
// distances are computed in Go.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	env := map[string]string{"CGO_ENABLED": "0"}
	if err := sh.RunWith(env, "go", "build", "-tags", "purego", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// BuildVec compiles with CGO and the sqlite-vec extension so cosine
// distance runs at the SQL layer.
func BuildVec() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWith(env, "go", "build", "-tags", "sqlite_vec,fts5", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (sqlite_vec)\n", out)
	return nil
}

// Test runs the test suite in the pure-Go configuration.
func Test() error {
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "0"},
		"go", "test", "-tags", "purego", "./...")
}

// Vet runs go vet across the module.
func Vet() error {
	return sh.RunV("go", "vet", "-tags", "purego", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binDir)
}
