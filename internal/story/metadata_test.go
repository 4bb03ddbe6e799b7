package story

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractMetadataTitleFirstNonEmptyLine(t *testing.T) {
	meta := ExtractMetadata("Hello\n\nworld")
	if meta.Title != "Hello" {
		t.Fatalf("title: want=%q got=%q", "Hello", meta.Title)
	}
}

func TestExtractMetadataTitleSkipsBlankLines(t *testing.T) {
	meta := ExtractMetadata("\n   \n  The Sleepy Fox  \nbody text")
	if meta.Title != "The Sleepy Fox" {
		t.Fatalf("title: want=%q got=%q", "The Sleepy Fox", meta.Title)
	}
}

func TestExtractMetadataEmptyTextFallback(t *testing.T) {
	meta := ExtractMetadata("")
	if meta.Title != "Bedtime Story" {
		t.Fatalf("title fallback: want=%q got=%q", "Bedtime Story", meta.Title)
	}
	if meta.LengthChars != 0 || meta.LengthWords != 0 {
		t.Fatalf("empty text counts: got chars=%d words=%d", meta.LengthChars, meta.LengthWords)
	}
}

func TestExtractMetadataTitleCapped(t *testing.T) {
	long := strings.Repeat("a", 300)
	meta := ExtractMetadata(long)
	if len(meta.Title) != 120 {
		t.Fatalf("title cap: want len=120 got len=%d", len(meta.Title))
	}
}

func TestExtractMetadataTitleCapKeepsValidUTF8(t *testing.T) {
	// The 120th character is multi-byte; a byte-based cap would slice it in
	// half and leave a dangling continuation byte.
	title := strings.Repeat("a", 119) + "é and then some more words"
	meta := ExtractMetadata(title)
	if !utf8.ValidString(meta.Title) {
		t.Fatalf("capped title is not valid UTF-8: %q", meta.Title)
	}
	if got := utf8.RuneCountInString(meta.Title); got != 120 {
		t.Fatalf("title cap: want 120 runes got %d", got)
	}
	if !strings.HasSuffix(meta.Title, "é") {
		t.Fatalf("cap dropped the 120th character: %q", meta.Title)
	}
}

func TestExtractMetadataCountsRunesNotBytes(t *testing.T) {
	meta := ExtractMetadata("café")
	if meta.LengthChars != 4 {
		t.Fatalf("chars for %q: want=4 got=%d", "café", meta.LengthChars)
	}
}

func TestExtractMetadataCounts(t *testing.T) {
	text := "One two\tthree\nfour  five"
	meta := ExtractMetadata(text)
	if meta.LengthChars != len(text) {
		t.Fatalf("chars: want=%d got=%d", len(text), meta.LengthChars)
	}
	if want := len(strings.Fields(text)); meta.LengthWords != want {
		t.Fatalf("words: want=%d got=%d", want, meta.LengthWords)
	}
}

func TestExtractMetadataReadTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{1, 1},
		{199, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tc := range cases {
		text := strings.TrimSpace(strings.Repeat("word ", tc.words))
		meta := ExtractMetadata(text)
		if meta.LengthWords != tc.words {
			t.Fatalf("words=%d: counted=%d", tc.words, meta.LengthWords)
		}
		if meta.EstimatedReadTimeMin != tc.want {
			t.Fatalf("words=%d: read time want=%d got=%d", tc.words, tc.want, meta.EstimatedReadTimeMin)
		}
	}
}

func TestExtractMetadataReadTimeAtLeastOne(t *testing.T) {
	if got := ExtractMetadata("hi").EstimatedReadTimeMin; got < 1 {
		t.Fatalf("read time for tiny text: want >=1 got=%d", got)
	}
}

func TestClassifyThemeFirstMatchWins(t *testing.T) {
	// "sky" appears first in the text but "kindness" comes first in the
	// rule table; table order decides.
	text := "The sky was dark but her kindness shone through."
	meta := ExtractMetadata(text)
	if meta.PrimaryTheme != "kindness" {
		t.Fatalf("theme: want=%q got=%q", "kindness", meta.PrimaryTheme)
	}
}

func TestClassifyTheme(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"The stars twinkled above.", "night sky"},
		{"Look at the SKY tonight.", "night sky"},
		{"What an adventure it was!", "adventure"},
		{"Once upon a time there was a mouse.", "bedtime"},
	}
	for _, tc := range cases {
		if got := ExtractMetadata(tc.text).PrimaryTheme; got != tc.want {
			t.Fatalf("theme for %q: want=%q got=%q", tc.text, tc.want, got)
		}
	}
}
