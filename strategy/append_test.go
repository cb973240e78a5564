package strategy

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparatorAppender_CostMatchesAppend(t *testing.T) {
	appender := DefaultAppender()

	for _, msg := range [][]byte{nil, []byte(""), []byte("x"), []byte("hello world")} {
		var buf bytes.Buffer
		require.NoError(t, appender.Append(&buf, msg))
		assert.Equal(t, appender.Cost(msg), uint64(buf.Len()))
	}
}

func TestSeparatorAppender_Separator(t *testing.T) {
	appender := DefaultAppender()

	var buf bytes.Buffer
	require.NoError(t, appender.Append(&buf, []byte("foo")))
	require.NoError(t, appender.Append(&buf, []byte("bar")))
	assert.Equal(t, "foo\nbar\n", buf.String())
}

func TestSeparatorAppender_CustomSeparator(t *testing.T) {
	appender := SeparatorAppender{Separator: 0}

	var buf bytes.Buffer
	require.NoError(t, appender.Append(&buf, []byte("ab")))
	assert.Equal(t, []byte{'a', 'b', 0}, buf.Bytes())
	assert.Equal(t, uint64(3), appender.Cost([]byte("ab")))
}

// Concatenating appended messages must reproduce the exact byte sequence the
// processor will read back from a finalized file.
func TestSeparatorAppender_ConcatenationLaw(t *testing.T) {
	appender := DefaultAppender()
	messages := [][]byte{[]byte("foo"), []byte("bar"), []byte("baz")}

	var file bytes.Buffer
	for _, msg := range messages {
		require.NoError(t, appender.Append(&file, msg))
	}

	var want bytes.Buffer
	for _, msg := range messages {
		want.Write(msg)
		want.WriteByte('\n')
	}
	assert.Equal(t, want.Bytes(), file.Bytes())
}
