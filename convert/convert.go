// SPDX-License-Identifier: GPL-2.0-or-later

// Package convert drives a whole bsp-to-map conversion: decode,
// filter, reconstruct, emit, count.
package convert

import (
	"io"
	"strconv"
	"strings"

	vec3d "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"bsp2map/bsp"
	"bsp2map/config"
	"bsp2map/geom"
	"bsp2map/mapfile"
	"bsp2map/texdef"
)

// topTextureCount limits the usage histogram in the final report.
const topTextureCount = 5

// worldspawn keys that are regenerated or dropped instead of copied:
// editor-tool-private keys, wad references, and the format version.
var skipWorldspawnKeys = []string{"_tb_", "wad", "mapversion"}

// Converter runs conversions with one fixed configuration. It keeps
// no state between runs.
type Converter struct {
	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) *Converter {
	return &Converter{cfg: cfg, log: log}
}

// Run converts one bsp buffer into map text on w. Individual brush
// failures become skips; only a structurally unreadable buffer or a
// write failure is an error.
func (c *Converter) Run(data []byte, w io.Writer) (*Stats, error) {
	f, err := bsp.Load(data)
	if err != nil {
		return nil, err
	}
	if f.Magic != bsp.Magic {
		c.log.Warn("unexpected magic tag, continuing",
			zap.ByteString("magic", f.Magic[:]))
	}
	if f.Version != bsp.Version {
		c.log.Warn("unexpected bsp version, continuing",
			zap.Int32("version", f.Version))
	}

	stats := newStats()
	stats.Planes = len(f.Planes)
	stats.TexInfos = len(f.TexInfos)
	stats.Brushes = len(f.Brushes)
	stats.BrushSides = len(f.BrushSides)
	c.log.Info("parsed bsp",
		zap.Int("planes", stats.Planes),
		zap.Int("texinfos", stats.TexInfos),
		zap.Int("brushes", stats.Brushes),
		zap.Int("brushSides", stats.BrushSides),
		zap.Int("entityBytes", len(f.EntityText)))

	resolver := texdef.NewResolver(c.cfg.DefaultTexture, c.cfg.FixTexturePaths)
	entities := bsp.ParseEntities([]byte(f.EntityText))

	out := mapfile.NewWriter(w)
	out.Comment("converted from bsp")
	out.Comment("grid snap: " + ftoa(c.cfg.GridSnap))
	out.Comment("min edge: " + ftoa(c.cfg.MinEdgeLength))
	out.BlankLine()
	out.BeginWorldspawn(worldspawnLines(entities))

	for i := range f.Brushes {
		res := c.buildBrush(f, &f.Brushes[i], resolver)
		if res.skipped() {
			stats.countSkip(res.skip)
			c.log.Debug("skipping brush",
				zap.Int("brush", i),
				zap.String("reason", res.skip.String()),
				zap.String("detail", res.detail))
			continue
		}
		out.WriteBrush(res.faces)
		stats.Valid++
		if res.fixed {
			stats.Fixed++
		}
	}
	out.EndWorldspawn()

	for _, e := range entities {
		name, _ := e.Name()
		if name == "worldspawn" || name == "func_areaportal" {
			continue
		}
		out.WriteEntity(e.Lines())
	}

	if err := out.Flush(); err != nil {
		return nil, errors.Wrap(err, "writing map")
	}

	stats.TopTextures = resolver.Top(topTextureCount)
	return stats, nil
}

// sideRef is one brush side after bounds-checked indirection. A nil
// tex stands for an unresolvable texinfo slot.
type sideRef struct {
	plane bsp.Plane
	tex   *bsp.TexInfo
}

// buildBrush classifies one brush and, when it is kept, reconstructs
// all of its faces. Any face failing the edge check rejects the whole
// brush: partial brushes are never emitted.
func (c *Converter) buildBrush(f *bsp.File, b *bsp.Brush, resolver *texdef.Resolver) brushResult {
	if b.NumSides < 4 {
		return brushResult{skip: SkipTooFewSides}
	}
	if b.Contents == 0 {
		return brushResult{skip: SkipEmptyContents}
	}
	if b.Contents&bsp.ContentsAreaPortal != 0 {
		return brushResult{skip: SkipAreaPortal}
	}

	fixed := false
	sides := make([]sideRef, 0, b.NumSides)
	for i := uint32(0); i < b.NumSides; i++ {
		side, ok := f.BrushSideAt(int(b.FirstSide) + int(i))
		if !ok {
			fixed = true
			continue
		}
		plane, ok := f.PlaneAt(int(side.PlaneNum))
		if !ok {
			fixed = true
			continue
		}
		ref := sideRef{plane: plane}
		if ti, ok := f.TexInfoAt(int(side.TexInfo)); ok {
			ref.tex = &ti
		} else {
			fixed = true
		}
		sides = append(sides, ref)
	}
	if len(sides) < 4 {
		return brushResult{skip: SkipUnresolvedSides}
	}

	opt := geom.Options{
		GridSnap: c.cfg.GridSnap,
		Decimals: c.cfg.CoordinateDecimals,
		MinEdge:  c.cfg.MinEdgeLength,
	}
	type facePoints struct {
		p1, p2, p3 vec3d.T
	}
	points := make([]facePoints, 0, len(sides))
	for _, s := range sides {
		n := vec3d.T{
			float64(s.plane.Normal[0]),
			float64(s.plane.Normal[1]),
			float64(s.plane.Normal[2]),
		}
		p1, p2, p3, err := geom.PlanePoints(n, float64(s.plane.Dist), opt)
		if err != nil {
			if c.cfg.SkipProblemBrushes {
				return brushResult{skip: SkipDegenerateEdge, detail: err.Error()}
			}
			// kept despite the failed check
			fixed = true
		}
		points = append(points, facePoints{p1, p2, p3})
	}

	// textures are resolved only once the whole brush is known to be
	// good, so the usage histogram counts emitted faces only
	faces := make([]mapfile.Face, 0, len(sides))
	for i, s := range sides {
		faces = append(faces, mapfile.Face{
			P1:  points[i].p1,
			P2:  points[i].p2,
			P3:  points[i].p3,
			Tex: resolver.Resolve(s.tex),
		})
	}
	return brushResult{faces: faces, fixed: fixed}
}

// worldspawnLines collects the source worldspawn's key/value lines,
// dropping classname and the keys the emitter regenerates.
func worldspawnLines(entities []*bsp.Entity) []string {
	var ws *bsp.Entity
	for _, e := range entities {
		if name, _ := e.Name(); name == "worldspawn" {
			ws = e
			break
		}
	}
	if ws == nil {
		return nil
	}
	var out []string
	for _, line := range ws.Lines() {
		if strings.Contains(line, "classname") {
			continue
		}
		drop := false
		for _, key := range skipWorldspawnKeys {
			if strings.Contains(line, key) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, line)
		}
	}
	return out
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
