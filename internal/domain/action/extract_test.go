package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseName(t *testing.T) {
	assert.Equal(t, "CS101", CourseName("post to [CS101] an announcement"))
	assert.Equal(t, "Intro to Go", CourseName("[Intro to Go] quiz please"))
	assert.Empty(t, CourseName("no course here"))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Midterm Review", Title("create a quiz title: Midterm Review\nfrom chapter 3"))
	assert.Equal(t, "Week 4", Title("Title:   Week 4"))
	assert.Empty(t, Title("no marker"))
}

func TestQuotedText(t *testing.T) {
	assert.Equal(t, "Class is cancelled Friday.", QuotedText(`post Text: "Class is cancelled Friday." to [CS101]`))
	assert.Empty(t, QuotedText(`Text: unquoted body`))
}

func TestPoints(t *testing.T) {
	assert.Equal(t, 25, Points("points should be 25"))
	assert.Equal(t, 100, Points("worth 100 Points"))
	assert.Equal(t, 100, Points("no score mentioned"))
}

func TestDueDate(t *testing.T) {
	got := DueDate("due date should be 9/15/2026 11:59 PM")
	require.NotNil(t, got)
	assert.Equal(t, "2026-09-15T23:59:00Z", *got)

	got = DueDate("due date should be 1/2/2026 9:05 AM")
	require.NotNil(t, got)
	assert.Equal(t, "2026-01-02T09:05:00Z", *got)

	assert.Nil(t, DueDate("due sometime next week"))
	assert.Nil(t, DueDate("due date should be 13/45/2026 11:59 PM"))
}

func TestSubmissionTypes(t *testing.T) {
	assert.Equal(t, []string{"online_url"}, SubmissionTypes("the submission type should be URL"))
	assert.Equal(t, []string{"online_upload"}, SubmissionTypes("students submit a file"))
	assert.Equal(t, []string{"online_text_entry"}, SubmissionTypes("a normal written assignment"))
}

func TestLink(t *testing.T) {
	assert.Equal(t, "https://example.com/syllabus", Link("make a page from link: https://example.com/syllabus please"))
	assert.Empty(t, Link("no url marker"))
}

func TestParse(t *testing.T) {
	p := Parse("create an assignment in [CS101] title: Homework 3\n" +
		`Text: "Solve all exercises." points should be 50 due date should be 10/1/2026 5:00 PM submission type should be url`)
	assert.Equal(t, "CS101", p.CourseName)
	assert.Equal(t, "Homework 3", p.Title)
	assert.Equal(t, "Solve all exercises.", p.QuotedText)
	assert.Equal(t, 50, p.Points)
	require.NotNil(t, p.DueAt)
	assert.Equal(t, "2026-10-01T17:00:00Z", *p.DueAt)
	assert.Equal(t, []string{"online_url"}, p.SubmissionTypes)
}

func TestDecisions(t *testing.T) {
	for _, msg := range []string{"yes", "Yes", " post it ", "POST", "yes post it"} {
		assert.True(t, IsConfirmation(msg), msg)
	}
	assert.False(t, IsConfirmation("yes please change the title"))
	assert.False(t, IsConfirmation("yes, post it"))

	for _, msg := range []string{"no", "Cancel", "dont post", "Don't post", "no."} {
		assert.True(t, IsCancellation(msg), msg)
	}
	assert.False(t, IsCancellation("no wait, change the course"))
}
