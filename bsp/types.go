package bsp

import (
	"bsp2map/math/vec"
)

// Lump directory slots consumed by the converter. The directory has
// 19 slots in total; the ones not named here are ignored.
const (
	LumpEntities   = 0
	LumpPlanes     = 1
	LumpTexInfo    = 5
	LumpBrushes    = 14
	LumpBrushSides = 15

	numLumps = 19
)

// Brush content flags.
const (
	ContentsSolid      = 1 << 0
	ContentsWindow     = 1 << 1
	ContentsAux        = 1 << 2
	ContentsLava       = 1 << 3
	ContentsSlime      = 1 << 4
	ContentsWater      = 1 << 5
	ContentsAreaPortal = 0x8000
)

// Surface flags carried on texinfo records.
const (
	SurfSky    = 0x4
	SurfNoDraw = 0x80
	SurfHint   = 0x100
	SurfSkip   = 0x200
)

// called lump_t in c
type directory struct {
	Offset uint32
	Length uint32
}

type header struct {
	Magic   [4]byte
	Version int32
}

// Plane is an infinite half-space boundary. Multiple brush sides may
// reference the same plane slot.
type Plane struct {
	Normal vec.Vec3
	Dist   float32
	Type   uint32 // 0-2 axial in X/Y/Z, 3-5 dominant axis; informational
}

// TexInfo is a per-face texture projection descriptor.
type TexInfo struct {
	UAxis   vec.Vec3
	UOffset float32
	VAxis   vec.Vec3
	VOffset float32
	Flags   uint32
	Value   uint32
	Name    string
}

// Brush is a convex volume implied by the intersection of its sides'
// planes. The format never stores explicit vertices.
type Brush struct {
	FirstSide uint32
	NumSides  uint32
	Contents  uint32
}

// BrushSide references one plane and one texinfo slot. Both indices
// must be bounds-checked before use.
type BrushSide struct {
	PlaneNum uint16
	TexInfo  uint16
}

// File holds the decoded lumps of one bsp. All slices are filled once
// during Load and read-only afterwards.
type File struct {
	Magic      [4]byte
	Version    int32
	Planes     []Plane
	TexInfos   []TexInfo
	Brushes    []Brush
	BrushSides []BrushSide
	EntityText string
}

// PlaneAt returns the plane at slot i, or ok=false when i is outside
// the plane array.
func (f *File) PlaneAt(i int) (Plane, bool) {
	if i < 0 || i >= len(f.Planes) {
		return Plane{}, false
	}
	return f.Planes[i], true
}

// TexInfoAt returns the texinfo at slot i, or ok=false when i is
// outside the texinfo array.
func (f *File) TexInfoAt(i int) (TexInfo, bool) {
	if i < 0 || i >= len(f.TexInfos) {
		return TexInfo{}, false
	}
	return f.TexInfos[i], true
}

// BrushSideAt returns the brush side at slot i, or ok=false when i is
// outside the brush side array.
func (f *File) BrushSideAt(i int) (BrushSide, bool) {
	if i < 0 || i >= len(f.BrushSides) {
		return BrushSide{}, false
	}
	return f.BrushSides[i], true
}

// DefaultTexInfo is the substitute for malformed or unreferencable
// texinfo records: identity-like axes, empty name.
func DefaultTexInfo() TexInfo {
	return TexInfo{
		UAxis: vec.Vec3{1, 0, 0},
		VAxis: vec.Vec3{0, -1, 0},
	}
}
