package cli

import (
	"fmt"
	"io"
)

// AppVersion is overridden at link time with -ldflags "-X".
var AppVersion = "dev"

func Version(stdout io.Writer) {
	fmt.Fprintf(stdout, "dmiinfo %s\n", AppVersion)
}
