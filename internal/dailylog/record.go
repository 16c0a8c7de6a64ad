package dailylog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
)

// Record is one structured entry in a daily log artifact. Artifacts may
// carry additional language-tagged summary keys (summary_ko, summary_ja)
// which readers that only need the English reduction can ignore.
type Record struct {
	Authors   []string `json:"authors"`
	SummaryEN string   `json:"summary_en"`
	Source    []string `json:"source,omitempty"`
}

// NormalizeLines validates and compacts each JSONL line of a model
// response. Valid JSON objects are rewritten in compact form; invalid
// lines are preserved verbatim so no model output is silently lost, and
// flagged through the logger.
func NormalizeLines(text string, logger *slog.Logger) string {
	if logger == nil {
		logger = slog.Default()
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !json.Valid([]byte(trimmed)) {
			logger.Warn("daily log line is not valid JSON, keeping as-is",
				"line", truncateLine(trimmed))
			out = append(out, trimmed)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(trimmed)); err != nil {
			out = append(out, trimmed)
			continue
		}
		out = append(out, buf.String())
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// ParseRecords decodes the records in a daily log artifact, skipping
// lines that do not decode.
func ParseRecords(data []byte) []Record {
	var records []Record
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.SummaryEN == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func truncateLine(s string) string {
	const limit = 120
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// CleanResponse drops stray markdown code fences from a model response
// while keeping the text around them. A fence marker discards itself, its
// language tag, and the rest of its line.
func CleanResponse(text string) string {
	text = strings.TrimSpace(text)
	if !strings.Contains(text, "```") {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, "```"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// CleanJSONL strips code fences and any prose before the first JSON
// object line of a model response. Lines after the first object are kept
// so NormalizeLines can flag the suspect ones.
func CleanJSONL(text string) string {
	var out []string
	started := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "```") {
			continue
		}
		if !started {
			if !strings.HasPrefix(line, "{") {
				continue
			}
			started = true
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
