// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package statsview is an optional package that will be built only when
// the statsview build constraint is present.
//
//	It provides a HTTP server running locally offering runtime statistics.
//	Underlying functionality provided by "github.com/go-echarts/statsview"
//
//	After launch, graphical statistics will be viewable at:
//
//		localhost:12100/debug/statsview
//
//	And standard Go pprof statistics available at:
//
//		localhost:12100/debug/pprof/
//
// Without the build constraint, Launch only prints a notice and Available
// reports false.
package statsview
