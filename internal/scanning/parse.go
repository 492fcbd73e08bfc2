package scanning

import (
	"strings"
)

// transcriptionPrompt is the shared prompt used by all LLM providers. The
// models act as plain OCR engines; structure is recovered by the extraction
// pipeline, not by the model.
const transcriptionPrompt = `You are an OCR engine. Transcribe every line of text in this invoice image exactly as printed.

Rules:
- Keep the original line breaks and reading order, top to bottom, left to right.
- Put each table row on its own line and keep the cells of a row separated by spaces.
- Copy numbers, codes, dates and accented French characters exactly; do not translate, correct or reformat them.
- Do not summarize, explain or add any text of your own.
- Do not use markdown.
- If the image contains no legible text, reply with exactly: NO_TEXT`

// noTextReply is what the prompt asks for when nothing is legible
const noTextReply = "NO_TEXT"

// CleanTranscript strips what language models wrap around a transcription
// and returns plain text with "\n" line endings
func CleanTranscript(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	// Remove a surrounding markdown code block, with or without a language tag
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	if strings.EqualFold(text, noTextReply) {
		return ""
	}
	return text
}
