// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"bsp2map/math/vec"
)

// Magic is the tag carried by Quake 2 era bsp files. A different tag
// is not fatal, only suspicious.
var Magic = [4]byte{'I', 'B', 'S', 'P'}

// Version is the Quake 2 bsp version.
const Version = 38

const (
	headerSize    = 8
	planeSize     = 20
	texInfoSize   = 76
	brushSize     = 12
	brushSideSize = 4
)

// Load decodes the lumps the converter consumes from a raw bsp
// buffer. Only a buffer too small for the header is an error; a
// truncated directory or a lump pointing outside the buffer degrades
// to zero records for that lump.
func Load(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, errors.Errorf("bsp: %d bytes is too small for a header", len(data))
	}
	r := bytes.NewReader(data)
	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, errors.Wrap(err, "bsp: header")
	}
	dirs := readDirectory(r)

	f := &File{
		Magic:      hdr.Magic,
		Version:    hdr.Version,
		EntityText: decodeEntityText(lumpData(data, dirs[LumpEntities])),
		Planes:     readPlanes(lumpData(data, dirs[LumpPlanes])),
		TexInfos:   readTexInfos(lumpData(data, dirs[LumpTexInfo])),
		Brushes:    readBrushes(lumpData(data, dirs[LumpBrushes])),
		BrushSides: readBrushSides(lumpData(data, dirs[LumpBrushSides])),
	}
	return f, nil
}

// readDirectory reads the fixed-count lump directory. Entries past a
// truncation point stay (0,0), which later reads as an absent lump.
func readDirectory(r *bytes.Reader) [numLumps]directory {
	var dirs [numLumps]directory
	for i := range dirs {
		var d directory
		if err := binary.Read(r, binary.LittleEndian, &d); err != nil {
			break
		}
		dirs[i] = d
	}
	return dirs
}

// lumpData slices one lump out of the buffer. A directory entry that
// would reach past the end of the buffer yields nil rather than a
// partial or panicking slice.
func lumpData(data []byte, d directory) []byte {
	if d.Length == 0 {
		return nil
	}
	off := int64(d.Offset)
	end := off + int64(d.Length)
	if off >= int64(len(data)) || end > int64(len(data)) {
		return nil
	}
	return data[off:end]
}

type rawPlane struct {
	Normal [3]float32
	Dist   float32
	Type   uint32
}

func readPlanes(b []byte) []Plane {
	count := len(b) / planeSize
	if count == 0 {
		return nil
	}
	raw := make([]rawPlane, count)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, raw); err != nil {
		return nil
	}
	planes := make([]Plane, count)
	for i, p := range raw {
		planes[i] = Plane{
			Normal: vec.VFromA(p.Normal),
			Dist:   p.Dist,
			Type:   p.Type,
		}
	}
	return planes
}

type rawTexInfo struct {
	UAxis    [3]float32
	UOffset  float32
	VAxis    [3]float32
	VOffset  float32
	Flags    uint32
	Value    uint32
	Name     [32]byte
	Reserved uint32
}

// readTexInfos decodes texinfo records one at a time so a single bad
// record can be replaced with the default without shifting the slots
// that follow it.
func readTexInfos(b []byte) []TexInfo {
	count := len(b) / texInfoSize
	if count == 0 {
		return nil
	}
	infos := make([]TexInfo, 0, count)
	for i := 0; i < count; i++ {
		var raw rawTexInfo
		rec := b[i*texInfoSize : (i+1)*texInfoSize]
		if err := binary.Read(bytes.NewReader(rec), binary.LittleEndian, &raw); err != nil {
			infos = append(infos, DefaultTexInfo())
			continue
		}
		infos = append(infos, TexInfo{
			UAxis:   vec.VFromA(raw.UAxis),
			UOffset: raw.UOffset,
			VAxis:   vec.VFromA(raw.VAxis),
			VOffset: raw.VOffset,
			Flags:   raw.Flags,
			Value:   raw.Value,
			Name:    cleanName(raw.Name[:]),
		})
	}
	return infos
}

func readBrushes(b []byte) []Brush {
	count := len(b) / brushSize
	if count == 0 {
		return nil
	}
	brushes := make([]Brush, count)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, brushes); err != nil {
		return nil
	}
	return brushes
}

func readBrushSides(b []byte) []BrushSide {
	count := len(b) / brushSideSize
	if count == 0 {
		return nil
	}
	sides := make([]BrushSide, count)
	if err := binary.Read(bytes.NewReader(b), binary.LittleEndian, sides); err != nil {
		return nil
	}
	return sides
}

// cleanName turns a fixed-width NUL-padded name field into a string.
// The name stops at the first NUL; bytes outside printable ASCII are
// dropped rather than failing the record.
func cleanName(b []byte) string {
	if i := bytes.IndexByte(b, 0); i != -1 {
		b = b[:i]
	}
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			out = append(out, c)
		}
	}
	return string(bytes.TrimSpace(out))
}

// decodeEntityText converts the entities lump to text. Trailing NULs
// are stripped and non-ASCII bytes dropped, mirroring the tolerant
// decode of the other name fields.
func decodeEntityText(b []byte) string {
	b = bytes.TrimRight(b, "\x00")
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c == '\t' || c == '\n' || c == '\r' || (c >= 0x20 && c < 0x7f) {
			out = append(out, c)
		}
	}
	return string(out)
}
