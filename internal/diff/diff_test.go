package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	r := Compute("a\nb\nc\n", "a\nB\nc\n", "old", "new")
	assert.True(t, r.Changed())
	assert.Equal(t, "  a\n- b\n+ B\n  c\n", r.Diff)

	same := Compute("x\n", "x\n", "old", "new")
	assert.False(t, same.Changed())
}

func TestCompute_CollapsesLongUnchangedRuns(t *testing.T) {
	var lines []string
	for i := range 10 {
		lines = append(lines, strings.Repeat("x", i+1))
	}
	old := strings.Join(lines, "\n") + "\nend\n"
	r := Compute(old, strings.Join(lines, "\n")+"\nEND\n", "old", "new")
	assert.Contains(t, r.Diff, "  ...\n")
	assert.Contains(t, r.Diff, "- end\n+ END\n")
}

func TestFormat(t *testing.T) {
	r := Result{Old: "before", New: "after", Diff: "- a\n+ b\n"}
	assert.Equal(t, "--- before\n+++ after\n- a\n+ b\n", r.Format(false))
	assert.Contains(t, r.Format(true), "\033[31m- a\033[0m")
}
