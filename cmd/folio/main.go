// folio builds and previews a markdown portfolio site.
package main

import (
	"context"
	"os"

	"github.com/folio-site/folio/pkg/cmd"
)

// Version is set at build time with -ldflags
var Version = "dev"

func main() {
	// Set version from build-time ldflags
	cmd.Version = Version

	if err := cmd.Execute(context.Background(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
