package splice

import (
	"bytes"
	"fmt"
	"sort"
)

// TextEdit replaces the bytes in [Start, End) with NewText. An edit with
// Start == End is a pure insertion.
type TextEdit struct {
	Start   int
	End     int
	NewText string
}

// ApplyEdits applies non-overlapping edits to content. Edits are applied in
// offset order; insertions at the same offset keep their input order.
func ApplyEdits(content []byte, edits []TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	delta := 0
	cursor := 0
	for _, e := range sorted {
		if e.Start < cursor || e.Start > e.End || e.End > len(content) {
			return nil, fmt.Errorf("%w: edit %d..%d in text of length %d", ErrInvalidRange, e.Start, e.End, len(content))
		}
		cursor = e.End
		delta += len(e.NewText) - (e.End - e.Start)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor = 0
	for _, e := range sorted {
		out.Write(content[cursor:e.Start])
		out.WriteString(e.NewText)
		cursor = e.End
	}
	out.Write(content[cursor:])

	return out.Bytes(), nil
}
