//go:build mage
// +build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
var Default = Build

// Build compiles the drs4ana executable into ./bin
func Build() error {
	mg.Deps(Vet)
	fmt.Println("Building drs4ana executable...")
	return sh.RunWith(map[string]string{"CGO_ENABLED": "0"}, "go", "build", "-o", "./bin/drs4ana", ".")
}

// Vet runs go vet over every package
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Bench runs the peak finder benchmarks
func Bench() error {
	return sh.RunV("go", "test", "-run", "^$", "-bench", ".", "./peaks")
}

// Clean removes build output
func Clean() error {
	return sh.Rm("./bin")
}
