// SPDX-License-Identifier: GPL-2.0-or-later

package convert

import (
	"fmt"

	"bsp2map/texdef"
)

// Stats accumulates the counters reported after a conversion. The
// per-reason skip counts merge additively, so partial stats could be
// combined in any order.
type Stats struct {
	Planes     int
	TexInfos   int
	Brushes    int
	BrushSides int

	Valid       int
	Skipped     int
	Fixed       int
	AreaPortals int
	SkipReasons map[SkipReason]int

	TopTextures []texdef.NameCount
}

func newStats() *Stats {
	return &Stats{SkipReasons: make(map[SkipReason]int)}
}

func (s *Stats) countSkip(reason SkipReason) {
	s.SkipReasons[reason]++
	if reason == SkipAreaPortal {
		s.AreaPortals++
	} else {
		s.Skipped++
	}
}

// Report renders the human-readable summary lines.
func (s *Stats) Report() []string {
	lines := []string{
		fmt.Sprintf("parsed: %d planes, %d texinfos, %d brushes, %d brush sides",
			s.Planes, s.TexInfos, s.Brushes, s.BrushSides),
		fmt.Sprintf("valid brushes: %d", s.Valid),
		fmt.Sprintf("fixed brushes: %d", s.Fixed),
		fmt.Sprintf("skipped brushes: %d", s.Skipped),
		fmt.Sprintf("areaportal brushes dropped: %d", s.AreaPortals),
	}
	if len(s.TopTextures) > 0 {
		lines = append(lines, "top textures:")
		for _, nc := range s.TopTextures {
			lines = append(lines, fmt.Sprintf("  %s (%d)", nc.Name, nc.Count))
		}
	}
	return lines
}
