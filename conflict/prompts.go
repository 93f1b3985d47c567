package conflict

import (
	"fmt"
	"strings"

	"github.com/poiesic/docintel/core"
)

const adjudicationPromptTemplate = `You compare two documents and decide whether they contradict each other.

Output ONLY valid JSON. Do not include any preamble or explanation. Start your response directly with the
opening brace { and end with the closing brace }. Use exactly this shape:

{
  "has_conflicts": true,
  "conflicts": [
    {"type": "version|procedural|data|factual", "confidence": 0.0, "doc1_snippet": "...", "doc2_snippet": "..."}
  ]
}

Rules:
- Report a conflict only when both documents make incompatible statements about the same subject.
- Different levels of detail, or one document covering more topics, are not conflicts.
- Snippets must be copied verbatim from the documents and kept short.
- Confidence is a number from 0 (unsure) to 1 (certain).
- If there is no conflict, return {"has_conflicts": false, "conflicts": []}.

Automated checks flagged these possible conflicts:
%s

Document 1 (%s):
"""
%s
"""

Document 2 (%s):
"""
%s
"""`

func buildAdjudicationPrompt(a, b *core.Document, window int, evidence []string) string {
	lines := make([]string, len(evidence))
	for i, e := range evidence {
		lines[i] = "- " + e
	}
	return fmt.Sprintf(adjudicationPromptTemplate,
		strings.Join(lines, "\n"),
		documentLabel(a), a.Window(window),
		documentLabel(b), b.Window(window))
}

func documentLabel(d *core.Document) string {
	if d.SourceTitle != "" {
		return d.SourceTitle
	}
	return d.DocID()
}
