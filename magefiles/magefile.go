//go:build mage

// Package main provides build targets for the configurator using Mage.
//
// Usage:
//
//	mage build           Compile the configurator binary to bin/
//	mage test            Run all tests (unit + integration)
//	mage testUnit        Run only unit tests (exclude integration)
//	mage testIntegration Run only integration tests (builds first)
//	mage lint            Run go vet and golangci-lint
//	mage clean           Remove bin/ and the test cache
//	mage install         go install the configurator, stamped with VERSION
//	mage catalog         Build, init a scratch config and list the starter catalog
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "configurator"
	binaryDir  = "bin"
	cmdDir     = "./cmd/configurator"
	versionVar = "github.com/mesh-intelligence/configurator/internal/cli.Version"
)

// Build compiles the configurator binary to bin/. VERSION, when set, is
// stamped into the binary.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := append([]string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}, ldflags()...)
	return sh.RunV("go", append(args, cmdDir)...)
}

// Catalog validates the starter catalog by listing it with a fresh config.
func Catalog() error {
	mg.Deps(Build)
	dir, err := os.MkdirTemp("", "configurator-catalog-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	bin := filepath.Join(binaryDir, binaryName)
	base := []string{"--config-dir", filepath.Join(dir, "config"), "--data-dir", filepath.Join(dir, "data")}
	if err := sh.RunV(bin, append(base, "init")...); err != nil {
		return err
	}
	return sh.RunV(bin, append(base, "catalog")...)
}

// Test runs all tests (unit and integration).
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestUnit runs only unit tests, excluding the tests/ directory.
func TestUnit() error {
	pkgs, err := sh.Output("go", "list", "./...")
	if err != nil {
		return err
	}
	var unitPkgs []string
	for _, pkg := range strings.Split(pkgs, "\n") {
		if pkg != "" && !strings.Contains(pkg, "/tests/") && !strings.HasSuffix(pkg, "/tests") {
			unitPkgs = append(unitPkgs, pkg)
		}
	}
	if len(unitPkgs) == 0 {
		fmt.Println("No unit test packages found.")
		return nil
	}
	args := append([]string{"test"}, unitPkgs...)
	return sh.RunV("go", args...)
}

// TestIntegration builds first, then runs only integration tests.
func TestIntegration() error {
	mg.Deps(Build)
	return sh.RunV("go", "test", "./tests/...")
}

// Lint vets the module and runs golangci-lint over it.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes bin/ and the cached test results.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean", "-testcache")
}

// Install runs go install with the same version stamp as Build.
func Install() error {
	return sh.RunV("go", append(append([]string{"install"}, ldflags()...), cmdDir)...)
}

func ldflags() []string {
	v := os.Getenv("VERSION")
	if v == "" {
		return nil
	}
	return []string{"-ldflags", "-X " + versionVar + "=" + strings.TrimPrefix(v, "v")}
}
