// SPDX-License-Identifier: GPL-2.0-or-later

// Package texdef resolves raw texinfo records into the texture
// directives a map compiler expects.
package texdef

import (
	"sort"
	"strings"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"bsp2map/bsp"
	"bsp2map/geom"
)

// Ref is a resolved texture directive: a name plus a rounded
// projection basis.
type Ref struct {
	Name    string
	UAxis   vec3d.T
	UOffset float64
	VAxis   vec3d.T
	VOffset float64
}

var (
	defaultUAxis = vec3d.T{1, 0, 0}
	defaultVAxis = vec3d.T{0, -1, 0}
)

// minAxisLength is the shortest usable projection axis; anything
// below it after rounding gets the default axis instead.
const minAxisLength = 0.01

// reserved tokens pass through in uppercase no matter what.
var reserved = map[string]bool{
	"CLIP":       true,
	"NODRAW":     true,
	"SKIP":       true,
	"HINT":       true,
	"AREAPORTAL": true,
}

// pathGroups maps name keywords to directory prefixes for names that
// come without a path. The order is significant: the first matching
// keyword wins.
var pathGroups = []struct {
	keyword string
	prefix  string
}{
	{"metal", "base_metal/"},
	{"wall", "base_wall/"},
	{"floor", "base_floor/"},
	{"flr", "base_floor/"},
	{"crate", "base_crate/"},
	{"rock", "base_rock/"},
}

const fallbackPrefix = "base_metal/"

// Resolver maps texinfo records to texture directives and keeps a
// usage histogram of the resolved names.
type Resolver struct {
	defaultName string
	fixPaths    bool
	usage       map[string]int
}

func NewResolver(defaultName string, fixPaths bool) *Resolver {
	return &Resolver{
		defaultName: defaultName,
		fixPaths:    fixPaths,
		usage:       make(map[string]int),
	}
}

// Resolve turns ti into a texture directive. A nil ti stands for a
// side whose texinfo slot could not be resolved; it gets the default
// record.
func (r *Resolver) Resolve(ti *bsp.TexInfo) Ref {
	if ti == nil {
		def := bsp.DefaultTexInfo()
		ti = &def
	}
	ref := Ref{
		Name:    r.resolveName(ti.Name),
		UAxis:   roundAxis(ti.UAxis.Array()),
		UOffset: geom.RoundHalfUp(float64(ti.UOffset), 2),
		VAxis:   roundAxis(ti.VAxis.Array()),
		VOffset: geom.RoundHalfUp(float64(ti.VOffset), 2),
	}
	if ref.UAxis.Length() < minAxisLength {
		ref.UAxis = defaultUAxis
	}
	if ref.VAxis.Length() < minAxisLength {
		ref.VAxis = defaultVAxis
	}
	r.usage[ref.Name]++
	return ref
}

// resolveName applies the name rules in order; the first matching
// rule is final.
func (r *Resolver) resolveName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\x00", ""))
	if name == "" || name == "MISSING" {
		return r.defaultName
	}
	if strings.HasPrefix(name, "*") {
		// liquid/animated texture convention
		return name
	}
	if up := strings.ToUpper(name); reserved[up] {
		return up
	}
	if r.fixPaths && !strings.Contains(name, "/") {
		lower := strings.ToLower(name)
		for _, g := range pathGroups {
			if strings.Contains(lower, g.keyword) {
				return g.prefix + name
			}
		}
		return fallbackPrefix + name
	}
	return name
}

func roundAxis(a [3]float32) vec3d.T {
	return vec3d.T{
		geom.RoundHalfUp(float64(a[0]), 3),
		geom.RoundHalfUp(float64(a[1]), 3),
		geom.RoundHalfUp(float64(a[2]), 3),
	}
}

// Usage returns the histogram of resolved names. The map is live;
// callers merge it additively if they combine resolvers.
func (r *Resolver) Usage() map[string]int {
	return r.usage
}

// NameCount is one histogram entry.
type NameCount struct {
	Name  string
	Count int
}

// Top returns the n most used resolved names, most used first, ties
// broken by name for deterministic reports.
func (r *Resolver) Top(n int) []NameCount {
	out := make([]NameCount, 0, len(r.usage))
	for name, count := range r.usage {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
