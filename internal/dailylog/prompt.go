package dailylog

import (
	"fmt"
	"strings"
)

// languageNames maps supported language codes to the name used in
// prompt instructions.
var languageNames = map[string]string{
	"en":    "English",
	"ko":    "Korean",
	"ja":    "Japanese",
	"zh_CN": "Simplified Chinese",
	"zh_TW": "Traditional Chinese",
}

const defaultPromptTemplate = `You are building a structured research activity log for {date} ({weekday}).
You will receive change summaries of shared research documents, possibly
followed by additional content sections.

Produce one JSON object per line (JSONL), one line per distinct activity,
with exactly these keys:
  "authors": array of canonical English names responsible for the change, [] if unknown
  "summary_en": one or two concise English sentences capturing the key updates, outcomes, and next steps in active voice{summary_key_instruction}

Rules:
- Output JSONL only. No code fences, no commentary, no surrounding text.
- Merge related document edits into a single entry when they clearly
  belong together.
- Skip trivial edits such as typo or formatting fixes.
- Keep technical terminology in English so downstream systems can link it.
- If there is nothing worth logging, output nothing.`

// BuildPrompt renders the daily log prompt for a language and date. A
// non-empty override replaces the built-in template; both use {date},
// {weekday}, {language}, and {summary_key_instruction} placeholders.
func BuildPrompt(override, language, date, weekday string) string {
	tpl := defaultPromptTemplate
	if override != "" {
		tpl = override
	}
	name, ok := languageNames[language]
	if !ok {
		name = "English"
		language = "en"
	}
	keyInstruction := ""
	if language != "en" {
		keyInstruction = fmt.Sprintf(
			"\n  %q: the same summary translated to %s, keeping names and technical terms in English",
			"summary_"+language, name)
	}
	r := strings.NewReplacer(
		"{date}", date,
		"{weekday}", weekday,
		"{language}", name,
		"{summary_key_instruction}", keyInstruction,
	)
	return r.Replace(tpl)
}
