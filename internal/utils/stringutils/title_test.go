package stringutils

import "testing"

func TestSanitizeTitleContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "strips urls",
			content: "Exam schedule at https://example.edu/exams now posted",
			want:    "Exam schedule at now posted",
		},
		{
			name:    "strips markdown links",
			content: "See [the syllabus](https://example.edu/syllabus) for details",
			want:    "See the syllabus for details",
		},
		{
			name:    "collapses whitespace and trailing punctuation",
			content: "  Midterm   moved!!  ",
			want:    "Midterm moved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitleContent(tt.content); got != tt.want {
				t.Errorf("SanitizeTitleContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapWords(t *testing.T) {
	got := CapWords("one two three four five six seven eight nine", 7)
	want := "one two three four five six seven"
	if got != want {
		t.Errorf("CapWords() = %q, want %q", got, want)
	}

	if got := CapWords("short title", 7); got != "short title" {
		t.Errorf("CapWords() = %q, want unchanged", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"exam moved to friday", "Exam Moved To Friday"},
		{"CS101 lab report", "CS101 Lab Report"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	long := "An Extremely Long Announcement Title That Keeps Going And Going"
	got := TruncateTitle(long, 30)
	if len(got) > 30 {
		t.Errorf("TruncateTitle() length = %d, want <= 30", len(got))
	}

	short := "Quiz"
	if got := TruncateTitle(short, 30); got != short {
		t.Errorf("TruncateTitle() = %q, want unchanged", got)
	}
}
