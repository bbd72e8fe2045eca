package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	label string
	err   error
	calls int
}

func (s *stubModel) Classify(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.label, s.err
}

func (s *stubModel) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not used")
}

func TestClassifyFastPaths(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		hasUpload bool
		want      Intent
	}{
		{"folder listing", "Show available documents", false, ListDocumentFolders},
		{"folder listing beats search", "show available documents please", false, ListDocumentFolders},
		{"document search prefix", "search documents[CS101] grading rubric", false, SearchDocuments},
		{"upload announcement", "post this to my announcement with the file uploaded", true, PostAnnouncement},
		{"upload default kind", "post this to [CS101] with the file uploaded", true, PostAnnouncement},
		{"upload quiz", "post this as a quiz with the file uploaded", true, CreateQuiz},
		{"upload assignment", "post this as an assignment with the file uploaded", true, CreateAssignment},
		{"upload page", "post this as a page with the file uploaded", true, CreatePage},
	}

	model := &stubModel{label: "general"}
	c := NewClassifier(model)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(context.Background(), tt.message, "", tt.hasUpload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Zero(t, model.calls, "fast paths must not call the model")
}

func TestClassifyUploadPhraseWithoutUpload(t *testing.T) {
	model := &stubModel{label: "general"}
	c := NewClassifier(model)

	got, err := c.Classify(context.Background(), "post an announcement with the file uploaded", "", false)
	require.NoError(t, err)
	assert.Equal(t, General, got)
	assert.Equal(t, 1, model.calls)
}

func TestClassifyModelLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Intent
	}{
		{"post_announcement", PostAnnouncement},
		{"  Create_Quiz \n", CreateQuiz},
		{"web_search", WebSearch},
		{"something_unknown", General},
		{"", General},
	}
	for _, tt := range tests {
		c := NewClassifier(&stubModel{label: tt.label})
		got, err := c.Classify(context.Background(), "tell me about chapter 3", "", false)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestClassifyModelError(t *testing.T) {
	c := NewClassifier(&stubModel{err: errors.New("llm down")})
	got, err := c.Classify(context.Background(), "hello there", "", false)
	assert.Error(t, err)
	assert.Equal(t, General, got)
}
