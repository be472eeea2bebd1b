//go:build !unix

package benchmark

import "os"

func hangWithChild(bool) { os.Exit(2) }
