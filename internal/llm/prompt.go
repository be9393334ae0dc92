package llm

import (
	"strings"
	"unicode/utf8"
)

// maxPromptChars caps the rendered document text embedded in the user
// prompt. CVs are short; anything past this is boilerplate or noise.
const maxPromptChars = 12000

// BuildSystemPrompt composes the system message: the HR data-entry persona
// plus strict-but-practical formatting rules for the structured output.
func BuildSystemPrompt() string {
	parts := []string{
		"Eres un prolijo y laborioso data entry del sector de recursos humanos.",
		"Tu tarea es extraer muy detalladamente toda la información relevante de los curriculum vitae recibidos y devolverla en el formato dado.",
		"Return ONLY JSON that matches the provided JSON Schema.",
		"Keep dates exactly as they appear on the CV; do not invent or reformat them.",
		"Keep names, companies, and institutions in their original language.",
		"Never output null. If a field is not present, omit it.",
		"If the CV lists no experience, return an empty 'experiencia' array.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the file path hint and the rendered document text.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	if f := strings.TrimSpace(req.FilenameHint); f != "" {
		b.WriteString("Filename: ")
		b.WriteString(f)
		b.WriteString("\n")
	}
	if f := strings.TrimSpace(req.FolderHint); f != "" {
		b.WriteString("Folder path: ")
		b.WriteString(f)
		b.WriteString("\n")
	}

	doc := strings.TrimSpace(req.DocumentText)
	b.WriteString("\nDocument text:\n")
	if len(doc) > maxPromptChars {
		b.WriteString(truncateRunes(doc, maxPromptChars))
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(doc)
	}
	return b.String()
}

// truncateRunes cuts s to at most n bytes without splitting a multi-byte
// rune; Spanish CVs are full of them.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
