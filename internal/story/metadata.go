package story

import (
	"strings"
	"unicode/utf8"
)

const (
	// readingSpeedWPM is the assumed reading pace used for the read-time
	// estimate.
	readingSpeedWPM = 200

	titleMaxLen   = 120
	fallbackTitle = "Bedtime Story"
	defaultTheme  = "bedtime"
)

// Metadata is derived purely from a story's raw text.
type Metadata struct {
	Title                string
	LengthChars          int
	LengthWords          int
	EstimatedReadTimeMin int
	PrimaryTheme         string
}

type themeRule struct {
	keyword string
	theme   string
}

// themeRules is scanned in order; the first keyword found in the text wins.
var themeRules = []themeRule{
	{keyword: "kindness", theme: "kindness"},
	{keyword: "stars", theme: "night sky"},
	{keyword: "sky", theme: "night sky"},
	{keyword: "adventure", theme: "adventure"},
}

// ExtractMetadata derives the ledger fields from raw story text.
//
// Title is the first non-empty line, trimmed and capped at 120 characters;
// empty input falls back to a fixed placeholder. Read time is the word count
// divided by the reading pace, rounded up and never below one minute.
func ExtractMetadata(text string) Metadata {
	title := fallbackTitle
	for _, line := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			title = s
			break
		}
	}
	// Cap by runes, not bytes; slicing mid-character would produce an
	// invalid-UTF-8 title the database rejects.
	if utf8.RuneCountInString(title) > titleMaxLen {
		title = string([]rune(title)[:titleMaxLen])
	}

	words := len(strings.Fields(text))
	minutes := (words + readingSpeedWPM - 1) / readingSpeedWPM
	if minutes < 1 {
		minutes = 1
	}

	return Metadata{
		Title:                title,
		LengthChars:          utf8.RuneCountInString(text),
		LengthWords:          words,
		EstimatedReadTimeMin: minutes,
		PrimaryTheme:         classifyTheme(text),
	}
}

func classifyTheme(text string) string {
	lowered := strings.ToLower(text)
	for _, rule := range themeRules {
		if strings.Contains(lowered, rule.keyword) {
			return rule.theme
		}
	}
	return defaultTheme
}
