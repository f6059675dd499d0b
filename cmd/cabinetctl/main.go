// Command cabinetctl inspects and exports cabinet records from the shell,
// using the same configuration and store as the console server.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
