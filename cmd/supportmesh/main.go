// Command supportmesh runs the ticket intake pipeline from the terminal.
//
//	supportmesh process --title "Cannot log in" --description "..."
//	supportmesh analyze --ticket 1
//	supportmesh kb import entries.yaml
//
// Configuration is read from supportmesh.yaml (if present) and SUPPORTMESH_*
// environment variables. The default memory store does not outlive a single
// invocation; pass --store sqlite --dsn support.db to keep tickets and
// knowledge between runs.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(defaultMeshFactory).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
