package charset

import (
	"bytes"
	"fmt"
	"sort"
)

type runeSlice []rune

var _ sort.Interface = (runeSlice)(nil)

func (x runeSlice) Len() int           { return len(x) }
func (x runeSlice) Less(i, j int) bool { return x[i] < x[j] }
func (x runeSlice) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }

type rangeSlice []Range

var _ sort.Interface = (rangeSlice)(nil)

func (x rangeSlice) Len() int           { return len(x) }
func (x rangeSlice) Less(i, j int) bool { return x[i].Lo < x[j].Lo }
func (x rangeSlice) Swap(i, j int)      { x[i], x[j] = x[j], x[i] }

// fitsDense reports whether every member of a Bounded matcher lies in
// [0, denseLimit), making it safe to rasterize with asDense without
// silently dropping members outside the bitmap's domain.
func fitsDense(m Matcher) bool {
	ok := true
	m.ForEach(func(r rune) {
		if r < 0 || r >= denseLimit {
			ok = false
		}
	})
	return ok
}

func genericString(m Matcher) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	if m.Bounded() {
		first := true
		m.ForEach(func(r rune) {
			if !first {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%U", r)
			first = false
		})
	} else {
		buf.WriteString("...")
	}
	buf.WriteByte(']')
	return buf.String()
}
