// Package main is the entry point for the storefront CLI.
package main

import (
	"os"

	"storefront_backend/internal/app"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	os.Exit(app.Execute(version))
}
