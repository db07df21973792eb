package seq

import (
	"io"
	"strconv"
	"strings"
)

const (
	renderSeparator = " -> "
	renderEnd       = "NULL"
	renderAbsent    = "List is NULL"
)

// Print writes the elements from head to tail, each followed by " -> ", then
// the NULL marker and a newline. A nil sequence prints "List is NULL".
func (s *Sequence) Print(w io.Writer) error {
	_, err := io.WriteString(w, s.Render())

	return err
}

// Render returns what Print writes.
func (s *Sequence) Render() string {
	return s.String() + "\n"
}

// String returns the rendering without the trailing newline.
func (s *Sequence) String() string {
	if s == nil {
		return renderAbsent
	}

	var b strings.Builder

	buf := make([]byte, 0, 12)
	for ref := s.head; ref != nilRef; ref = s.pool.get(ref).next {
		buf = strconv.AppendInt(buf[:0], int64(s.pool.get(ref).value), 10)
		b.Write(buf)
		b.WriteString(renderSeparator)
	}

	b.WriteString(renderEnd)

	return b.String()
}
