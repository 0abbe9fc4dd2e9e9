// SPDX-License-Identifier: GPL-2.0-or-later

package convert

import (
	"bsp2map/mapfile"
)

// SkipReason says why a brush was not emitted. Typed so callers and
// tests do not have to string-match log output.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipTooFewSides
	SkipEmptyContents
	SkipAreaPortal
	SkipUnresolvedSides
	SkipDegenerateEdge
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipTooFewSides:
		return "fewer than 4 sides"
	case SkipEmptyContents:
		return "empty contents"
	case SkipAreaPortal:
		return "area portal"
	case SkipUnresolvedSides:
		return "fewer than 4 resolvable sides"
	case SkipDegenerateEdge:
		return "degenerate edge"
	default:
		return "unknown"
	}
}

// brushResult is the outcome of one brush: either a complete face
// list or a skip with its reason. Partial brushes do not exist.
type brushResult struct {
	faces  []mapfile.Face
	skip   SkipReason
	detail string
	// fixed marks an emitted brush that needed at least one
	// substitution (dropped side reference, defaulted texinfo, or a
	// face kept despite a failed edge check).
	fixed bool
}

func (r *brushResult) skipped() bool {
	return r.skip != SkipNone
}
