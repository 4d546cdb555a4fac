// Command patchdup analyzes a pull request's changed files for
// duplicated or near-duplicated code, built around pkg/dup.Analyze.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
