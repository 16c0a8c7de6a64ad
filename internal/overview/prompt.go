package overview

import "strings"

var languageNames = map[string]string{
	"en":    "English",
	"ko":    "Korean",
	"ja":    "Japanese",
	"zh_CN": "Simplified Chinese",
	"zh_TW": "Traditional Chinese",
}

const defaultPromptTemplate = `You are {persona}, the research communication assistant for {team_info}.

You will receive day-by-day activity logs of the team's shared documents,
possibly followed by additional content sections, covering {summary_range}.

Write a friendly overview message in {language} that the team will read
this morning. The message should:
- Open with a short greeting in your voice.
- Summarize the notable activities of {summary_range}, grouping related
  work and naming the people involved.
- Pick the single most valuable contributor of {summary_range} and honor
  them in one line at the end of the summary, judging by impact on the
  team's goals rather than by sheer volume of edits.
- Close with a playful, humorous one-liner with emojis that cheers the
  team on toward {forthcoming_range}, speaking in your own first-person
  voice.

Rules:
- Plain markdown only. No code fences.
- Keep it readable in two or three minutes.
- Do not invent activities that are not in the input.
- Skip days that have no entries instead of mentioning the gap.
{context}`

// PromptParams fills the overview prompt template.
type PromptParams struct {
	Persona          string
	TeamInfo         string
	Language         string
	SummaryRange     string
	ForthcomingRange string
	Context          string
}

// BuildPrompt renders the overview system prompt. A non-empty override
// replaces the built-in template; both use {persona}, {team_info},
// {language}, {summary_range}, {forthcoming_range}, and {context}
// placeholders.
func BuildPrompt(override string, p PromptParams) string {
	tpl := defaultPromptTemplate
	if override != "" {
		tpl = override
	}
	name, ok := languageNames[p.Language]
	if !ok {
		name = "English"
	}
	context := ""
	if p.Context != "" {
		context = "\n" + p.Context
	}
	r := strings.NewReplacer(
		"{persona}", p.Persona,
		"{team_info}", p.TeamInfo,
		"{language}", name,
		"{summary_range}", p.SummaryRange,
		"{forthcoming_range}", p.ForthcomingRange,
		"{context}", context,
	)
	return strings.TrimSpace(r.Replace(tpl))
}
