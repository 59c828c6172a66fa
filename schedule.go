// Copyright 2026 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simrt

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseSchedule expands a schedule specification into trigger stamps. A
// specification is a comma separated list of terms, each either a single
// stamp or an inclusive range with a step:
//
//	ParseSchedule("150")            // []Stamp{150}
//	ParseSchedule("100..400@100")   // []Stamp{100, 200, 300, 400}
//	ParseSchedule("50, 100..300@100")
//
// The expanded stamps keep specification order; feeding them to Schedule
// requires them to be non-decreasing overall.
//
func ParseSchedule(spec string) ([]Stamp, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, errors.Errorf("empty schedule %q", spec)
	}
	var out []Stamp
	for _, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		lo, hi, ok := strings.Cut(term, "..")
		if !ok {
			at, err := parseStamp(spec, term)
			if err != nil {
				return nil, err
			}
			out = append(out, at)
			continue
		}
		hi, step, ok := strings.Cut(hi, "@")
		if !ok {
			return nil, scheduleError(spec, term, "missing step in range")
		}
		start, err := parseStamp(spec, lo)
		if err != nil {
			return nil, err
		}
		end, err := parseStamp(spec, hi)
		if err != nil {
			return nil, err
		}
		every, err := parseStamp(spec, step)
		if err != nil {
			return nil, err
		}
		if every == 0 {
			return nil, scheduleError(spec, term, "zero step in range")
		}
		if end < start {
			return nil, scheduleError(spec, term, "end before start in range")
		}
		for at := start; at <= end; at += every {
			out = append(out, at)
			if at+every < at { // overflow
				break
			}
		}
	}
	return out, nil
}

func parseStamp(spec, s string) (Stamp, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, scheduleError(spec, s, "bad stamp")
	}
	return Stamp(v), nil
}

func scheduleError(spec, term, msg string) error {
	return errors.Errorf("in %q: %s %q", spec, msg, term)
}
