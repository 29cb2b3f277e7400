// This program provides administrative access to a running governance
// service. It can inspect in-flight records, force a record transition,
// and trigger a failure sweep on demand.
package main

import "github.com/daofund/governance/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}
