// Package main is the production entry point for gopraise.
//
// gopraise is a terminal player for a worship song library:
// - Event-driven communication between services and the UI
// - Dependency injection for testability
// - Presenter pattern for UI decoupling
// - Repository pattern for preference persistence
//
// Build:
//
//	go build -o build/gopraise ./cmd
//
// Run:
//
//	./build/gopraise            # open the player
//	./build/gopraise serve      # run the storage proxy
package main

import "github.com/tejashwikalptaru/gopraise/internal/cli"

func main() {
	cli.Execute()
}
