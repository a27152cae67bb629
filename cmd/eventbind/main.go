// Command eventbind inspects the failure journal and configuration files of
// an eventbind dispatcher.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
