// SPDX-License-Identifier: MIT
// Package record provides a Surface that remembers the calls made to it
// instead of producing pixels. Recorded frames can be inspected, serialized
// for remote viewers or replayed into any other Surface.
package record

import "grapher/internal/canvas"

// OpKind names a recorded drawing primitive.
type OpKind string

const (
	OpClear OpKind = "clear"
	OpLine  OpKind = "line"
)

// Op is one recorded call. Start and End are zero for OpClear.
type Op struct {
	Kind  OpKind     `json:"kind"`
	Color uint32     `json:"color"`
	Start canvas.Pos `json:"start"`
	End   canvas.Pos `json:"end"`
}

// Recorder is a canvas.Surface backed by an op list. The zero value is a
// surface with no area.
type Recorder struct {
	width  int
	height int
	ops    []Op
}

var _ canvas.Surface = (*Recorder)(nil)

// New returns a Recorder reporting the given size.
func New(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

// Clear records a fill.
func (r *Recorder) Clear(c canvas.Color) {
	r.ops = append(r.ops, Op{Kind: OpClear, Color: c.Pack()})
}

// DrawLine records a segment.
func (r *Recorder) DrawLine(c canvas.Color, start, end canvas.Pos) {
	r.ops = append(r.ops, Op{Kind: OpLine, Color: c.Pack(), Start: start, End: end})
}

// Size returns the size set by New or Resize.
func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

// Resize changes the reported size. Recorded ops are kept.
func (r *Recorder) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Reset drops all recorded ops, keeping the allocated capacity.
func (r *Recorder) Reset() {
	r.ops = r.ops[:0]
}

// Ops returns the recorded calls in order. The slice is owned by the
// Recorder until the next Reset.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// Lines returns only the OpLine entries drawn in color c.
func (r *Recorder) Lines(c canvas.Color) []Op {
	var lines []Op
	packed := c.Pack()
	for _, op := range r.ops {
		if op.Kind == OpLine && op.Color == packed {
			lines = append(lines, op)
		}
	}
	return lines
}

// Replay issues ops against s in order. Unknown kinds are skipped.
func Replay(ops []Op, s canvas.Surface) {
	for _, op := range ops {
		switch op.Kind {
		case OpClear:
			s.Clear(canvas.Unpack(op.Color))
		case OpLine:
			s.DrawLine(canvas.Unpack(op.Color), op.Start, op.End)
		}
	}
}
