// Package capability declares the external service contracts the
// conversation core depends on but does not implement. Infrastructure
// packages provide the real clients; tests substitute fakes.
package capability

import "context"

// TextModel is the language-model port. Classify answers closed-vocabulary
// prompts with a single label; Generate produces free text.
type TextModel interface {
	Classify(ctx context.Context, prompt string) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Course is one enrollment-visible course on the LMS.
type Course struct {
	ID           string
	Name         string
	Code         string
	StudentCount int
}

// Attachment carries an already-read uploaded file toward the LMS.
type Attachment struct {
	FileName string
	Content  []byte
}

// AnnouncementInput is the payload for CreateAnnouncement.
type AnnouncementInput struct {
	CourseID   string
	Title      string
	Body       string
	Attachment *Attachment
}

// AssignmentInput is the payload for CreateAssignment.
type AssignmentInput struct {
	CourseID        string
	Name            string
	Description     string
	Points          int
	DueAt           *string // ISO-8601 UTC, nil when no due date was given
	SubmissionTypes []string
	Attachment      *Attachment
}

// QuizInput is the payload for CreateQuiz.
type QuizInput struct {
	CourseID    string
	Title       string
	Description string
}

// PageInput is the payload for CreatePage.
type PageInput struct {
	CourseID string
	Title    string
	Body     string
}

// ExecutionResult is the outcome of committing a staged action.
type ExecutionResult struct {
	OK        bool
	Detail    string
	CreatedID string
}

// CourseBackend is the LMS port.
type CourseBackend interface {
	ResolveCourse(ctx context.Context, displayName string) (string, error)
	ListCourses(ctx context.Context) ([]Course, error)
	CreateAnnouncement(ctx context.Context, input AnnouncementInput) (ExecutionResult, error)
	CreateAssignment(ctx context.Context, input AssignmentInput) (ExecutionResult, error)
	CreateQuiz(ctx context.Context, input QuizInput) (ExecutionResult, error)
	CreatePage(ctx context.Context, input PageInput) (ExecutionResult, error)
}

// ExtractedDocument is plain text pulled out of an uploaded file.
type ExtractedDocument struct {
	FileName string
	FileType string
	Text     string
}

// DocumentExtractor is the file-ingestion port.
type DocumentExtractor interface {
	Extract(ctx context.Context, content []byte, fileName string) (ExtractedDocument, error)
}

// FetchResult is the readable text of a web page.
type FetchResult struct {
	URL  string
	Text string
}

// WebFetcher is the web-content retrieval port.
type WebFetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}
