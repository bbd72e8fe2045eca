package document

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "CS101", "syllabus.pdf", "pdf",
		"Grading policy: homework counts for 40 percent, the midterm for 25 percent and the final exam for 35 percent.")
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "CS101", "week1.txt", "txt",
		"Week one covers variables and control flow. Homework 1 is due Friday.")
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "", "notes.txt", "txt", "Untitled scratch notes.")
	require.NoError(t, err)
	return svc
}

func TestIngestRequiresText(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	_, err := svc.Ingest(context.Background(), "CS101", "empty.pdf", "pdf", "   ")
	assert.Error(t, err)
}

func TestIngestDefaultsFolder(t *testing.T) {
	svc := seedService(t)
	folders, err := svc.ListFolders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"CS101", "General"}, folders)
}

func TestSearchRanksByTermFrequency(t *testing.T) {
	svc := seedService(t)

	results, err := svc.Search(context.Background(), "CS101", "homework grading")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "syllabus.pdf", results[0].Document.FileName)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	assert.True(t, strings.Contains(strings.ToLower(results[0].Snippet), "homework") ||
		strings.Contains(strings.ToLower(results[0].Snippet), "grading"))
}

func TestSearchNoMatches(t *testing.T) {
	svc := seedService(t)
	results, err := svc.Search(context.Background(), "CS101", "quantum chromodynamics")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchEmptyQuery(t *testing.T) {
	svc := seedService(t)
	_, err := svc.Search(context.Background(), "CS101", "  a ")
	assert.Error(t, err)
}

func TestSearchDefaultFolder(t *testing.T) {
	svc := seedService(t)
	results, err := svc.Search(context.Background(), "", "scratch notes")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "notes.txt", results[0].Document.FileName)
}

func TestSnippetKeepsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 200)
	got := snippet(text, 241)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "short", snippet("short", 2))
}
