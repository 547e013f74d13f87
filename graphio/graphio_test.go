package graphio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mschimek/KaGen/core"
	"github.com/mschimek/KaGen/graphio"
)

var sample = []core.Edge{{From: 0, To: 1}, {From: 1, To: 0}, {From: 2, To: 7}}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, graphio.WriteText(&buf, sample, 8, 3, true))

	// On-disk ids are 1-based.
	assert.Equal(t, "p 8 3\ne 1 2\ne 2 1\ne 3 8\n", buf.String())

	edges, n, m, err := graphio.ReadText(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample, edges)
	assert.Equal(t, uint64(8), n)
	assert.Equal(t, uint64(3), m)
}

func TestTextNoHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, graphio.WriteText(&buf, sample, 8, 3, false))

	edges, n, m, err := graphio.ReadText(&buf)
	require.NoError(t, err)
	assert.Equal(t, sample, edges)
	assert.Zero(t, n)
	assert.Zero(t, m)
}

func TestTextMalformed(t *testing.T) {
	t.Parallel()

	_, _, _, err := graphio.ReadText(strings.NewReader("x 1 2\n"))
	assert.ErrorIs(t, err, graphio.ErrBadRecord)

	_, _, _, err = graphio.ReadText(strings.NewReader("p nope\n"))
	assert.ErrorIs(t, err, graphio.ErrBadHeader)

	// A zero id cannot come from the 1-based on-disk form.
	_, _, _, err = graphio.ReadText(strings.NewReader("e 0 2\n"))
	assert.ErrorIs(t, err, graphio.ErrBadRecord)
}

func TestBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	for _, header := range []bool{true, false} {
		var buf bytes.Buffer
		require.NoError(t, graphio.WriteBinary(&buf, sample, 8, 3, header))

		wantLen := len(sample) * 16
		if header {
			wantLen += 16
		}
		assert.Equal(t, wantLen, buf.Len())

		edges, n, m, err := graphio.ReadBinary(&buf, header)
		require.NoError(t, err)
		assert.Equal(t, sample, edges)
		if header {
			assert.Equal(t, uint64(8), n)
			assert.Equal(t, uint64(3), m)
		}
	}
}

func TestBinaryTruncated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, graphio.WriteBinary(&buf, sample, 8, 3, false))
	truncated := buf.Bytes()[:buf.Len()-5]

	_, _, _, err := graphio.ReadBinary(bytes.NewReader(truncated), false)
	assert.ErrorIs(t, err, graphio.ErrBadRecord)
}

func TestFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "out", graphio.Filename("out", 3, true))
	assert.Equal(t, "out_3", graphio.Filename("out", 3, false))
}
