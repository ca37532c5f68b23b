package scoring

import (
	"strings"
	"testing"
)

func TestInstructionsInterpolation(t *testing.T) {
	got := Instructions("Frontend Developer", "Build React apps with TypeScript.")

	if !strings.Contains(got, "Job Title: Frontend Developer") {
		t.Errorf("missing job title line:\n%s", got)
	}
	if !strings.Contains(got, "Job Description: Build React apps with TypeScript.") {
		t.Errorf("missing job description line:\n%s", got)
	}
	if !strings.Contains(got, "interface Feedback {") {
		t.Errorf("missing schema block")
	}
	if !strings.Contains(got, "Do NOT include extra text, markdown, or explanations outside the JSON object.") {
		t.Errorf("missing JSON-only instruction")
	}
	if strings.Contains(got, "{{") {
		t.Errorf("unreplaced placeholder remains:\n%s", got)
	}
}

func TestInstructionsStripsControlCharacters(t *testing.T) {
	got := Instructions("Eng\x00ineer\x07", "line one\nline\ttwo\x1b[31m")

	if !strings.Contains(got, "Job Title: Engineer") {
		t.Errorf("control chars not stripped from title:\n%s", got)
	}
	if !strings.Contains(got, "line one\nline\ttwo[31m") {
		t.Errorf("newline/tab should survive, escape byte should not:\n%s", got)
	}
}

func TestInstructionsTruncatesLongFields(t *testing.T) {
	longTitle := strings.Repeat("t", 500)
	longDesc := strings.Repeat("d", 10000)

	got := Instructions(longTitle, longDesc)

	if strings.Contains(got, strings.Repeat("t", 201)) {
		t.Errorf("title not truncated to 200 runes")
	}
	if !strings.Contains(got, strings.Repeat("t", 200)) {
		t.Errorf("truncated title missing")
	}
	if strings.Contains(got, strings.Repeat("d", 8001)) {
		t.Errorf("description not truncated to 8000 runes")
	}
}

func TestInstructionsEmptyFields(t *testing.T) {
	got := Instructions("", "")

	if !strings.Contains(got, "Job Title: \n") {
		t.Errorf("empty title line malformed:\n%s", got)
	}
}

func TestSanitizeFieldRuneBoundary(t *testing.T) {
	// Truncation counts runes, not bytes.
	in := strings.Repeat("é", 300)
	out := sanitizeField(in, 200)
	if got := len([]rune(out)); got != 200 {
		t.Errorf("rune count = %d, want 200", got)
	}
}
