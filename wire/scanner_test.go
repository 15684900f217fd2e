package wire_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/tglite/internal/testutil"
	"github.com/prilive-com/tglite/tg"
	"github.com/prilive-com/tglite/wire"
)

func TestScan_Objects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		rest  string
	}{
		{"flat", `{"ok":true}`, `{"ok":true}`, ""},
		{"nested", `{"a":{"b":{}}}`, `{"a":{"b":{}}}`, ""},
		{"brace in string", `{"t":"}{"}`, `{"t":"}{"}`, ""},
		{"escaped quote", `{"t":"a\"}b"}`, `{"t":"a\"}b"}`, ""},
		{"escaped backslash", `{"t":"a\\"}`, `{"t":"a\\"}`, ""},
		{"leading bytes kept", "HTTP junk\r\n{\"ok\":true}", "HTTP junk\r\n{\"ok\":true}", ""},
		{"trailing bytes unread", `{"ok":true}{"next":1}`, `{"ok":true}`, `{"next":1}`},
		{"array result", `{"result":[{"a":1},{"b":2}]}`, `{"result":[{"a":1},{"b":2}]}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testutil.NewChunkSource(tt.input)
			got, err := wire.Scan(src)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("Scan mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.rest, src.Rest())
		})
	}
}

func TestScan_EverySplitPoint(t *testing.T) {
	const input = `{"ok":true,"result":{"text":"x\"}{","n":[1,{}]}}`

	for i := 0; i <= len(input); i++ {
		src := testutil.NewChunkSource(input[:i], input[i:])
		got, err := wire.Scan(src)
		require.NoError(t, err, "split at %d", i)
		assert.Equal(t, input, string(got), "split at %d", i)
	}
}

func TestScan_Truncated(t *testing.T) {
	for _, input := range []string{"", "no json here", `{"ok":true`, `{"t":"}`} {
		got, err := wire.Scan(testutil.NewChunkSource(input))
		assert.Nil(t, got, "input %q", input)
		require.Error(t, err)
		assert.ErrorIs(t, err, tg.ErrNoJSON)
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestScan_ReadError(t *testing.T) {
	boom := errors.New("connection reset")
	src := &failingSource{data: `{"a":`, err: boom}

	_, err := wire.Scan(src)
	assert.ErrorIs(t, err, tg.ErrNoJSON)
	assert.ErrorIs(t, err, boom)
}

func TestScanner_StrayClosingBrace(t *testing.T) {
	s := wire.NewScanner()
	var depths []int
	for _, c := range []byte("}{{}") {
		s.Feed(c)
		depths = append(depths, s.State().Depth)
	}

	if diff := cmp.Diff([]int{-2, -1, 1, 0}, depths); diff != "" {
		t.Errorf("depth trace mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.Done())
}

func TestScanner_State(t *testing.T) {
	s := wire.NewScanner()
	assert.Equal(t, wire.ScanState{Depth: -1}, s.State())

	s.Feed('{')
	s.Feed('"')
	assert.Equal(t, wire.ScanState{Depth: 1, InString: true}, s.State())

	s.Feed('\\')
	assert.True(t, s.State().PendingEscape)
	s.Feed('"')
	assert.Equal(t, wire.ScanState{Depth: 1, InString: true}, s.State())

	s.Feed('"')
	assert.False(t, s.State().InString)
	assert.True(t, s.Feed('}'))
	assert.Equal(t, `{"\""}`, string(s.Bytes()))

	// A finished scanner ignores further input.
	assert.True(t, s.Feed('{'))
	assert.Equal(t, `{"\""}`, string(s.Bytes()))

	s.Reset()
	assert.False(t, s.Done())
	assert.Empty(t, s.Bytes())
	assert.Equal(t, wire.ScanState{Depth: -1}, s.State())
}

func TestScanner_BackslashOutsideString(t *testing.T) {
	// The byte after a backslash is never interpreted, even outside strings.
	s := wire.NewScanner()
	for _, c := range []byte(`{\}`) {
		assert.False(t, s.Feed(c))
	}
	assert.Equal(t, 1, s.State().Depth)
	assert.True(t, s.Feed('}'))
}

type failingSource struct {
	data string
	err  error
}

func (s *failingSource) ReadByte() (byte, error) {
	if s.data == "" {
		return 0, s.err
	}
	c := s.data[0]
	s.data = s.data[1:]
	return c, nil
}
