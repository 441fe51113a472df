/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/
package main

import (
	"github.com/jpl-au/kbase/cmd"

	// Import extensions - each registers itself via init()
	_ "github.com/jpl-au/kbase/extension/all"
)

func main() {
	cmd.Execute()
}
