package summary

// diffPrompt instructs the model to summarize one document's diff. The
// response is used verbatim as a section body, so the prompt pins the
// output to plain prose.
const diffPrompt = `You are summarizing an edit made to a shared research note.
You will receive a unified diff of one markdown document.

Write a concise summary of what changed, in English, as one short
paragraph or a few bullet points. Focus on the substance of the edit:
what was added, removed, or revised, and what it means for the work.

Rules:
- Do not mention the diff format, line numbers, or markdown syntax.
- Do not repeat the document title.
- Do not wrap the response in code fences.
- If the change is trivial (typo fixes, formatting), say so in one line.`
