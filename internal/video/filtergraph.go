// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package video assembles rendered frame stills into an H.264 slideshow
// with crossfade transitions.
package video

import (
	"fmt"
	"strings"
	"time"
)

// BuildCrossfadeGraph produces the filter_complex string chaining every
// input through xfade transitions, ending in a yuv420p-formatted [vout]
// label. holds carries the on-screen time of each frame; each crossfade
// overlaps the tail of one hold with the head of the next, so transition
// i starts at sum(holds[0..i-1]) minus i transition lengths.
//
// It also returns the resulting clip duration:
// sum(holds) - (len(holds)-1) * transition.
func BuildCrossfadeGraph(holds []time.Duration, kind string, transition time.Duration) (string, time.Duration) {
	if len(holds) < 2 {
		return "", 0
	}

	var b strings.Builder
	var elapsed time.Duration

	prev := "[0:v]"
	for i := 1; i < len(holds); i++ {
		elapsed += holds[i-1]
		offset := elapsed - time.Duration(i)*transition

		label := fmt.Sprintf("[x%d]", i)
		fmt.Fprintf(&b, "%s[%d:v]xfade=transition=%s:duration=%s:offset=%s%s;",
			prev, i, kind, seconds(transition), seconds(offset), label)
		prev = label
	}
	fmt.Fprintf(&b, "%sformat=yuv420p[vout]", prev)

	total := elapsed + holds[len(holds)-1] - time.Duration(len(holds)-1)*transition
	return b.String(), total
}

// seconds renders a duration as fractional seconds the way ffmpeg filter
// options expect, with millisecond precision.
func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
