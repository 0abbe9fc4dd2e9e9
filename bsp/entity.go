// SPDX-License-Identifier: GPL-2.0-or-later
package bsp

import (
	"bytes"
)

// Entity is one brace-delimited key/value block from the entities
// lump. The original line order is kept so blocks can be re-emitted
// verbatim.
type Entity struct {
	properties map[string]string
	lines      []string
}

func NewEntity(p []byte) *Entity {
	e := &Entity{properties: make(map[string]string)}
	// parse the entity line by line
	// looking for something of the form
	// "key" "value"
	for _, l := range bytes.Split(p, []byte("\n")) {
		l = bytes.TrimSpace(l)
		key, value, ok := splitKeyValue(l)
		if !ok {
			continue
		}
		e.properties[key] = value
		e.lines = append(e.lines, string(l))
	}
	return e
}

func splitKeyValue(l []byte) (key, value string, ok bool) {
	q := bytes.IndexByte(l, '"')
	if q == -1 {
		return "", "", false
	}
	r := l[q+1:]
	q = bytes.IndexByte(r, '"')
	if q == -1 {
		return "", "", false
	}
	key = string(r[:q])
	r = r[q+1:]
	q = bytes.IndexByte(r, '"')
	if q == -1 {
		return "", "", false
	}
	r = r[q+1:]
	q = bytes.IndexByte(r, '"')
	if q == -1 {
		return "", "", false
	}
	return key, string(r[:q]), true
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

// Lines returns the entity's key/value lines, trimmed, in source
// order, without the surrounding braces.
func (e *Entity) Lines() []string {
	return e.lines
}

// ParseEntities splits the entities text into its top level blocks.
// The data looks like:
//
//	{
//	  "name" "value"
//	  "name2" "value2"
//	}
//
// Braces and quotes inside quoted values do not open or close blocks.
func ParseEntities(data []byte) []*Entity {
	es := []*Entity{}
	var ob, q int
	start := -1
	for i, b := range data {
		switch b {
		case '{':
			if q != 0 {
				break
			}
			if start == -1 {
				start = i
			} else {
				ob++
			}
		case '}':
			if q != 0 {
				break
			}
			if start == -1 {
				// Bad input
				return nil
			}
			if ob == 0 {
				es = append(es, NewEntity(data[start:i+1]))
				start = -1
			} else {
				ob--
			}
		case '"':
			if q == 0 {
				q++
			} else {
				q--
			}
		}
	}
	return es
}
