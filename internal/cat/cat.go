// Package cat prints a note's body, optionally numbered or limited to a
// line range.
//
// The line range lets MCP clients read part of a long note without pulling
// the whole body into their context.
package cat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jpl-au/kbase/internal/service"
	"github.com/jpl-au/kbase/internal/store"
)

// minLineNumWidth is the minimum column width for line numbers.
const minLineNumWidth = 6

// maxScanLine bounds a single line when scanning a body.
const maxScanLine = 10 * 1024 * 1024

// Options configures a cat operation.
type Options struct {
	LineNumbers bool // Number output lines
	Title       bool // Print "# <title>" before the body
	StartLine   int  // First line to show (1-indexed, 0 = start)
	EndLine     int  // Last line to show (1-indexed, 0 = end)
}

// Result contains the note read.
type Result struct {
	Note *store.Note
}

// Run reads a note and writes its body to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, userID, id string, opts Options) (Result, error) {
	n, err := svc.Note(ctx, userID, id)
	if err != nil {
		return Result{}, err
	}
	r := Result{Note: n}

	if opts.Title {
		fmt.Fprintf(w, "# %s\n\n", n.Title)
	}

	if opts.StartLine == 0 && opts.EndLine == 0 && !opts.LineNumbers {
		fmt.Fprint(w, n.Body)
		return r, nil
	}

	total := strings.Count(n.Body, "\n") + 1
	trailing := strings.HasSuffix(n.Body, "\n")
	if trailing {
		total--
	}

	start, end := 1, total
	if opts.StartLine > 0 {
		start = opts.StartLine
	}
	if opts.EndLine > 0 && opts.EndLine < end {
		end = opts.EndLine
	}
	width := max(len(strconv.Itoa(end)), minLineNumWidth)

	sc := bufio.NewScanner(strings.NewReader(n.Body))
	sc.Buffer(make([]byte, 64*1024), maxScanLine)
	line := 0
	for sc.Scan() {
		line++
		if line < start {
			continue
		}
		if line > end {
			break
		}
		if opts.LineNumbers {
			fmt.Fprintf(w, "%*d\t", width, line)
		}
		fmt.Fprint(w, sc.Text())
		if line < end || trailing {
			fmt.Fprintln(w)
		}
	}
	return r, sc.Err()
}
