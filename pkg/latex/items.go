package latex

import (
	"strings"
)

// ItemCommand opens an inline bullet.
const ItemCommand = `\resumeItem{`

// ExtractItems returns the argument of the first \resumeItem{...} on each line, commented or
// not. Braces are counted so nested groups like \textbf{Go} stay inside the capture; a line
// whose argument never closes yields nothing.
func ExtractItems(lines []string) (items []string) {
	items = make([]string, 0)

	for _, line := range lines {
		text := uncomment(line)

		start := strings.Index(text, ItemCommand)
		if start < 0 {
			continue
		}
		start += len(ItemCommand)

		body, ok := braceArgument(text, start)
		if ok {
			items = append(items, body)
		}
	}

	return items
}

// braceArgument returns text[start:close] where close is the brace that balances the one
// just before start.
func braceArgument(text string, start int) (body string, ok bool) {
	depth := 1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				body = text[start:i]
				ok = true
				return body, ok
			}
		}
	}
	return body, ok
}

// uncomment drops one leading comment marker and the whitespace around it.
func uncomment(line string) (text string) {
	_, text = splitIndent(line)
	if strings.HasPrefix(text, CommentMarker) {
		text = strings.TrimLeft(text[len(CommentMarker):], " \t")
		return text
	}
	text = line
	return text
}
