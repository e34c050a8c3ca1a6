// The main package for the mdtutor executable.
package main

import (
	"github.com/mdtutor/mdtutor/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
