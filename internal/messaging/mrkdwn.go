package messaging

import (
	"regexp"
	"strings"
)

var (
	mdBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	mdHeading = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
)

// ToMrkdwn converts common markdown constructs to Slack's mrkdwn dialect.
// Headings become bold lines, **bold** becomes *bold*, and links use the
// <url|text> form.
func ToMrkdwn(md string) string {
	out := mdHeading.ReplaceAllString(md, "*$1*")
	out = mdBold.ReplaceAllString(out, "*$1*")
	out = mdLink.ReplaceAllString(out, "<$2|$1>")
	return strings.TrimSpace(out)
}

// TruncateHeader shortens a header to max runes, appending an ellipsis
// when anything was cut. Slack rejects header blocks over 150 characters.
func TruncateHeader(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// splitBlocks splits mrkdwn text into chunks that fit Slack's section
// block limit, breaking on paragraph boundaries where possible.
func splitBlocks(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	current := ""
	for _, para := range strings.Split(text, "\n\n") {
		candidate := para
		if current != "" {
			candidate = current + "\n\n" + para
		}
		if len(candidate) <= limit {
			current = candidate
			continue
		}
		if current != "" {
			chunks = append(chunks, current)
		}
		// A single oversized paragraph gets hard-split.
		for len(para) > limit {
			chunks = append(chunks, para[:limit])
			para = para[limit:]
		}
		current = para
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
