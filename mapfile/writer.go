// SPDX-License-Identifier: GPL-2.0-or-later

// Package mapfile emits the brace-block map grammar understood by
// qbsp-family compilers (Valve 220 texture projection).
package mapfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	vec3d "github.com/flywave/go3d/float64/vec3"

	"bsp2map/texdef"
)

// Face is one emitted brush face: three points fixing the plane and
// winding, plus its texture directive.
type Face struct {
	P1, P2, P3 vec3d.T
	Tex        texdef.Ref
}

// Writer serializes one map file. Write errors stick; Flush reports
// the first one.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Comment writes a single // comment line.
func (w *Writer) Comment(text string) {
	w.line("// " + text)
}

// BlankLine separates the comment header from the worldspawn block.
func (w *Writer) BlankLine() {
	w.line("")
}

// BeginWorldspawn opens the worldspawn entity and writes its fixed
// and merged key/value lines. extra lines come from the source
// worldspawn, already filtered by the caller.
func (w *Writer) BeginWorldspawn(extra []string) {
	w.line("{")
	w.line(`"classname" "worldspawn"`)
	w.line(`"mapversion" "220"`)
	for _, l := range extra {
		w.line(l)
	}
}

// EndWorldspawn closes the worldspawn block opened by
// BeginWorldspawn.
func (w *Writer) EndWorldspawn() {
	w.line("}")
}

// WriteBrush emits one brush sub-block, one line per face.
func (w *Writer) WriteBrush(faces []Face) {
	w.line("{")
	for i := range faces {
		w.face(&faces[i])
	}
	w.line("}")
}

// WriteEntity re-emits a passthrough entity block verbatim.
func (w *Writer) WriteEntity(lines []string) {
	w.line("{")
	for _, l := range lines {
		w.line(l)
	}
	w.line("}")
}

func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *Writer) line(s string) {
	if w.err != nil {
		return
	}
	if _, err := w.w.WriteString(s + "\n"); err != nil {
		w.err = err
	}
}

// The trailing "0 1 1" is rotation and scale: zero rotation, unit
// scale, passed through as compiler defaults.
func (w *Writer) face(f *Face) {
	if w.err != nil {
		return
	}
	_, err := fmt.Fprintf(w.w, "%s %s %s %s %s %s 0 1 1\n",
		point(f.P1), point(f.P2), point(f.P3),
		f.Tex.Name,
		axis(f.Tex.UAxis, f.Tex.UOffset),
		axis(f.Tex.VAxis, f.Tex.VOffset))
	if err != nil {
		w.err = err
	}
}

func point(p vec3d.T) string {
	return "( " + ftoa(p[0]) + " " + ftoa(p[1]) + " " + ftoa(p[2]) + " )"
}

func axis(a vec3d.T, offset float64) string {
	return "[ " + ftoa(a[0]) + " " + ftoa(a[1]) + " " + ftoa(a[2]) + " " + ftoa(offset) + " ]"
}

// ftoa uses the shortest decimal form so the output is deterministic
// and free of float noise after rounding.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
