package strategy

import "io"

// Appender decides how a message is serialized into the open current file.
// Cost must return exactly the number of bytes Append will write, including
// any delimiter, so that the engine's size accounting matches the on-disk
// size.
type Appender interface {
	Cost(msg []byte) uint64
	Append(w io.Writer, msg []byte) error
}

// SeparatorAppender writes the payload followed by a single separator byte.
type SeparatorAppender struct {
	Separator byte
}

// DefaultAppender returns a newline-separated appender.
func DefaultAppender() SeparatorAppender {
	return SeparatorAppender{Separator: '\n'}
}

// Cost implements Appender.
func (a SeparatorAppender) Cost(msg []byte) uint64 {
	return uint64(len(msg)) + 1
}

// Append implements Appender. The write is all-or-nothing from the caller's
// perspective: any error means the engine must not account for the message.
func (a SeparatorAppender) Append(w io.Writer, msg []byte) error {
	buf := make([]byte, 0, len(msg)+1)
	buf = append(buf, msg...)
	buf = append(buf, a.Separator)
	_, err := w.Write(buf)
	return err
}
