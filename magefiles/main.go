// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

const coverProfile = "cover.out"

var env map[string]string

func init() {
	env = make(map[string]string)

	gobin, exists := os.LookupEnv("GOBIN")
	if !exists {
		gobin = "./gobin"
	}

	if gobin != "" {
		p, err := filepath.Abs(gobin)
		if err == nil {
			gobin = p
		}
	}

	env["GOBIN"] = gobin
}

// Install filetree to gobin directory, if any source changed.
func Install() error {
	path := filepath.Join(env["GOBIN"], "filetree")

	changed, err := target.Dir(path, "cmd", "internal")
	if err != nil {
		return err
	}

	if !changed {
		return nil
	}

	return sh.RunWith(env, "go", "install", "./cmd/filetree")
}

// Test runs all tests with race detector and coverage.
func Test(verbose bool) error {
	args := []string{
		"test",
		"-race",
		"-timeout", "2m",
		"-cover",
		"-coverprofile", coverProfile,
	}

	if verbose {
		args = append(args, "-v")
	}

	args = append(args, "./...")

	return sh.RunV("go", args...)
}

// Check runs vet and the tests.
func Check() error {
	err := sh.RunV("go", "vet", "./...")
	if err != nil {
		return err
	}

	mg.Deps(mg.F(Test, false))

	return nil
}

// Remove volatile files.
func Clean() error {
	err := sh.Rm(coverProfile)
	if err != nil {
		return err
	}

	return sh.Rm(env["GOBIN"])
}
