package latex

import (
	"strings"
)

// Toggle comments out (activate=false) or restores (activate=true) every line of the block in
// place. Deactivation prefixes "% " to lines not already commented; activation removes one
// marker after the indentation together with the single space deactivation adds. Toggling
// twice with the same value is a no-op and len(lines) never changes.
func Toggle(lines []string, block Block, activate bool) {
	end := min(block.End, len(lines))

	for j := max(block.Start, 0); j < end; j++ {
		if activate {
			lines[j] = uncommentLine(lines[j])
			continue
		}
		if !IsCommented(lines[j]) {
			lines[j] = CommentMarker + " " + lines[j]
		}
	}
}

// ToggleAll applies Toggle to every block and returns how many lines changed.
func ToggleAll(lines []string, blocks []Block, activate bool) (changed int) {
	for _, b := range blocks {
		before := append([]string(nil), lines[b.Start:min(b.End, len(lines))]...)
		Toggle(lines, b, activate)
		for k, prev := range before {
			if lines[b.Start+k] != prev {
				changed++
			}
		}
	}
	return changed
}

// uncommentLine removes one comment marker found after the indentation.
func uncommentLine(line string) (out string) {
	indent, rest := splitIndent(line)
	if !strings.HasPrefix(rest, CommentMarker) {
		out = line
		return out
	}
	rest = rest[len(CommentMarker):]
	rest = strings.TrimPrefix(rest, " ")
	out = indent + rest
	return out
}
