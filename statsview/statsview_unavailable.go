// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

//go:build !statsview
// +build !statsview

package statsview

import (
	"fmt"
	"io"
)

// Launch does nothing. Build with the statsview constraint to enable the
// statistics server.
func Launch(output io.Writer) {
	fmt.Fprint(output, "statsview not enabled in this build\n")
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
