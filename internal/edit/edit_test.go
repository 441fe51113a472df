package edit

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/kbase/internal/store"
)

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		input      string
		start, end int
		errMsg     string
	}{
		{input: "5:10", start: 5, end: 10},
		{input: "1:1", start: 1, end: 1},
		{input: ":10", end: 10},
		{input: "5:", start: 5},
		{input: ":", errMsg: "at least start or end line required"},
		{input: "5", errMsg: "expected start:end"},
		{input: "1:2:3", errMsg: "expected start:end"},
		{input: "abc:10", errMsg: "invalid start line"},
		{input: "5:xyz", errMsg: "invalid end line"},
		{input: "0:10", errMsg: "start line must be >= 1"},
		{input: "1:0", errMsg: "end line must be >= 1"},
		{input: "9:3", errMsg: "greater than end line"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, end, err := ParseLineRange(tt.input)
			if tt.errMsg != "" {
				require.ErrorIs(t, err, ErrInvalidLineRange)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestReplace(t *testing.T) {
	got, err := Replace("a TODO b TODO", "TODO", "done", false)
	require.NoError(t, err)
	assert.Equal(t, "a done b TODO", got, "only the first occurrence")

	got, err = Replace("Hello World", "hello", "Bye", true)
	require.NoError(t, err)
	assert.Equal(t, "Bye World", got)

	_, err = Replace("abc", "x", "y", false)
	assert.ErrorIs(t, err, ErrTextNotFound)
}

func TestReplaceLines(t *testing.T) {
	body := "one\ntwo\nthree\nfour"

	got, err := ReplaceLines(body, 2, 3, "TWO\nTHREE\n")
	require.NoError(t, err)
	assert.Equal(t, "one\nTWO\nTHREE\nfour", got)

	got, err = ReplaceLines(body, 3, 99, "")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo", got, "end is clamped, empty replacement deletes")

	_, err = ReplaceLines(body, 9, 0, "x")
	assert.ErrorIs(t, err, ErrInvalidLineRange)
}

func TestApply(t *testing.T) {
	got, err := Apply("one\ntwo", Options{Lines: "2:", New: "2"})
	require.NoError(t, err)
	assert.Equal(t, "one\n2", got)

	_, err = Apply("x", Options{})
	assert.ErrorIs(t, err, ErrNoEdit)
}

type fakeEditor struct{ body string }

func (f *fakeEditor) EditNote(ctx context.Context, userID, id string, opts Options) (*store.Note, *store.Note, error) {
	next, err := Apply(f.body, opts)
	if err != nil {
		return nil, nil, err
	}
	before := &store.Note{ID: id, Body: f.body}
	f.body = next
	return before, &store.Note{ID: id, Body: next}, nil
}

func TestRun(t *testing.T) {
	var b strings.Builder
	ed := &fakeEditor{body: "alpha\nbeta"}

	r, err := Run(context.Background(), &b, ed, "u", "n1", Options{Old: "beta", New: "gamma"}, true, false)
	require.NoError(t, err)
	assert.Contains(t, r.Diff, "- beta")
	assert.Contains(t, r.Diff, "+ gamma")
	assert.Contains(t, b.String(), "--- before")

	b.Reset()
	_, err = Run(context.Background(), &b, ed, "u", "n1", Options{Old: "gamma", New: "delta"}, false, false)
	require.NoError(t, err)
	assert.Equal(t, "Edited n1\n", b.String())
}
