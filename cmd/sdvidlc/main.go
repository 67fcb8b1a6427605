// Command sdvidlc compiles IDL files into C++ definition, proxy/stub,
// and serdes sources.
package main

import (
	"os"

	"github.com/sdv-framework/sdvidlc/cmd/sdvidlc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
