// Command pessoas is the terminal client of the person registry.
//
// It logs in against the people backend, keeps the session in a local file
// and runs the same form validation as the web panel before any write.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
