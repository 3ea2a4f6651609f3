package report

import (
	"fmt"
	"io"
)

// Sink receives rendered report lines.
type Sink interface {
	WriteLine(line string)
}

// WriterSink writes each line to an io.Writer.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteLine(line string) {
	fmt.Fprintln(s.w, line)
}
