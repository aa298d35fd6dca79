// Command patchlib patches Kubernetes manifests from declarative patch files.
package main

import "github.com/cameronsjo/patchlib/internal/cmd"

func main() {
	cmd.Execute()
}
