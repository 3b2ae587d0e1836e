package audit

import (
	"context"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// fenceMarker is a line that opens or closes a fenced code block.
type fenceMarker struct {
	char   byte
	length int
	info   string
}

// openFence tracks the block currently awaiting its closing fence.
type openFence struct {
	char   byte
	length int
	line   int
}

// checkCodeFences verifies every fenced code block is well-formed standalone:
// an opening run of at least three backticks or tildes matched by a closing
// run of the same character, at least as long, with nothing after it. The
// scan follows CommonMark line rules (up to three spaces of indentation, no
// backticks in a backtick fence info string).
func (s *Service) checkCodeFences(ctx context.Context, run *runState) error {
	var open *openFence
	for i, line := range splitLines(run.body) {
		number := i + 1
		marker, ok := parseFenceMarker(line)
		if !ok {
			continue
		}
		if open == nil {
			if marker.char == '`' && strings.ContainsRune(marker.info, '`') {
				// Not a fence opener per CommonMark; the line is prose.
				continue
			}
			open = &openFence{char: marker.char, length: marker.length, line: number}
			run.fences++
			continue
		}
		if marker.char != open.char || marker.length < open.length {
			// Literal content inside the block.
			continue
		}
		if marker.info != "" {
			run.report(interfaces.SeverityError, number,
				"closing fence for the code block opened at line %d carries trailing text %q", open.line, marker.info)
			// Treat the block as closed so later fences still pair up.
			open = nil
			continue
		}
		open = nil
	}
	if open != nil {
		run.report(interfaces.SeverityError, open.line, "code fence opened here is never closed")
	}
	return nil
}

// parseFenceMarker reports whether a line is a fence marker: at most three
// spaces of indentation followed by a run of three or more backticks or
// tildes.
func parseFenceMarker(line string) (fenceMarker, bool) {
	indent := 0
	for indent < len(line) && line[indent] == ' ' {
		indent++
	}
	if indent > 3 {
		return fenceMarker{}, false
	}
	rest := line[indent:]
	if len(rest) < 3 {
		return fenceMarker{}, false
	}
	char := rest[0]
	if char != '`' && char != '~' {
		return fenceMarker{}, false
	}
	length := 0
	for length < len(rest) && rest[length] == char {
		length++
	}
	if length < 3 {
		return fenceMarker{}, false
	}
	return fenceMarker{
		char:   char,
		length: length,
		info:   strings.TrimSpace(rest[length:]),
	}, true
}

func splitLines(body []byte) []string {
	lines := strings.Split(string(body), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
