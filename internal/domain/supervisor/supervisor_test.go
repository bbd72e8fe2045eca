package supervisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursegpt-server/internal/domain/capability"
	"coursegpt-server/internal/domain/conversation"
	"coursegpt-server/internal/domain/document"
	"coursegpt-server/internal/domain/intent"
)

type fakeModel struct {
	classifyLabel string
	generateText  string
	generateErr   error
	prompts       []string
}

func (f *fakeModel) Classify(ctx context.Context, prompt string) (string, error) {
	return f.classifyLabel, nil
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.generateText, f.generateErr
}

type fakeBackend struct {
	courses       []capability.Course
	announcements []capability.AnnouncementInput
	quizzes       []capability.QuizInput
	assignments   []capability.AssignmentInput
	pages         []capability.PageInput
	err           error
}

func (f *fakeBackend) ResolveCourse(ctx context.Context, name string) (string, error) {
	return name, f.err
}

func (f *fakeBackend) ListCourses(ctx context.Context) ([]capability.Course, error) {
	return f.courses, f.err
}

func (f *fakeBackend) CreateAnnouncement(ctx context.Context, in capability.AnnouncementInput) (capability.ExecutionResult, error) {
	if f.err != nil {
		return capability.ExecutionResult{}, f.err
	}
	f.announcements = append(f.announcements, in)
	return capability.ExecutionResult{OK: true}, nil
}

func (f *fakeBackend) CreateQuiz(ctx context.Context, in capability.QuizInput) (capability.ExecutionResult, error) {
	if f.err != nil {
		return capability.ExecutionResult{}, f.err
	}
	f.quizzes = append(f.quizzes, in)
	return capability.ExecutionResult{OK: true}, nil
}

func (f *fakeBackend) CreateAssignment(ctx context.Context, in capability.AssignmentInput) (capability.ExecutionResult, error) {
	if f.err != nil {
		return capability.ExecutionResult{}, f.err
	}
	f.assignments = append(f.assignments, in)
	return capability.ExecutionResult{OK: true}, nil
}

func (f *fakeBackend) CreatePage(ctx context.Context, in capability.PageInput) (capability.ExecutionResult, error) {
	if f.err != nil {
		return capability.ExecutionResult{}, f.err
	}
	f.pages = append(f.pages, in)
	return capability.ExecutionResult{OK: true}, nil
}

type fakeExtractor struct{}

func (fakeExtractor) Extract(ctx context.Context, content []byte, fileName string) (capability.ExtractedDocument, error) {
	return capability.ExtractedDocument{
		FileName: fileName,
		FileType: "txt",
		Text:     string(content),
	}, nil
}

func newTestSupervisor(model *fakeModel, backend *fakeBackend) *Supervisor {
	return New(
		conversation.NewStore(),
		intent.NewClassifier(model),
		model,
		backend,
		fakeExtractor{},
		nil,
		document.NewService(document.NewMemoryRepository()),
		nil,
		5,
		zerolog.Nop(),
	)
}

func TestAnnouncementStageConfirm(t *testing.T) {
	model := &fakeModel{classifyLabel: "post_announcement"}
	backend := &fakeBackend{}
	sup := newTestSupervisor(model, backend)
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{
		Message: `post an announcement to [CS101] title: Class Update` + "\n" + `Text: "Class is cancelled Friday."`,
	})
	assert.Equal(t, AgentCanvasPost, resp.Agent)
	assert.Equal(t, conversation.ActionAnnouncement, resp.PendingKind)
	assert.Contains(t, resp.Text, "[CS101]")
	assert.Contains(t, resp.Text, "Class Update")
	assert.Contains(t, resp.Text, "Class is cancelled Friday.")
	assert.Contains(t, resp.Text, "(yes/no)")
	assert.Empty(t, backend.announcements, "nothing posted before confirmation")

	resp = sup.Handle(ctx, Request{ConversationID: resp.ConversationID, Message: "yes"})
	assert.Equal(t, AgentCanvasPost, resp.Agent)
	assert.Empty(t, resp.PendingKind)
	require.Len(t, backend.announcements, 1)
	assert.Equal(t, "CS101", backend.announcements[0].CourseID)
	assert.Equal(t, "Class Update", backend.announcements[0].Title)
	assert.Contains(t, backend.announcements[0].Body, "Class is cancelled Friday.")
}

func TestCancellationDiscardsPending(t *testing.T) {
	model := &fakeModel{classifyLabel: "post_announcement"}
	backend := &fakeBackend{}
	sup := newTestSupervisor(model, backend)
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{Message: `announce to [CS101] Text: "Hello."`})
	require.Equal(t, conversation.ActionAnnouncement, resp.PendingKind)

	resp = sup.Handle(ctx, Request{ConversationID: resp.ConversationID, Message: "don't post"})
	assert.Contains(t, resp.Text, "was not posted")
	assert.Empty(t, resp.PendingKind)
	assert.Empty(t, backend.announcements)
}

func TestCancellationWithoutPending(t *testing.T) {
	model := &fakeModel{classifyLabel: "general"}
	sup := newTestSupervisor(model, &fakeBackend{})

	resp := sup.Handle(context.Background(), Request{Message: "cancel"})
	assert.Equal(t, "Nothing to cancel.", resp.Text)
}

func TestConfirmationWithoutPendingRoutesNormally(t *testing.T) {
	model := &fakeModel{classifyLabel: "general", generateText: "Sure, what do you need?"}
	sup := newTestSupervisor(model, &fakeBackend{})

	resp := sup.Handle(context.Background(), Request{Message: "yes"})
	assert.Equal(t, AgentGeneral, resp.Agent)
	assert.Equal(t, "Sure, what do you need?", resp.Text)
}

func TestLastStagedWins(t *testing.T) {
	backend := &fakeBackend{}
	model := &fakeModel{classifyLabel: "post_announcement"}
	sup := newTestSupervisor(model, backend)
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{Message: `announce to [CS101] Text: "First draft."`})
	convID := resp.ConversationID
	require.Equal(t, conversation.ActionAnnouncement, resp.PendingKind)

	model.classifyLabel = "create_quiz"
	resp = sup.Handle(ctx, Request{
		ConversationID: convID,
		Message: "make a quiz for [CS101] title: Chapter 3 Quiz\nQuestions\n1. What is Go?\nOptions:\nA. A language\nB. A game\nC. A fish\nD. A car\n(Correct Answer: A)",
	})
	assert.Equal(t, conversation.ActionQuiz, resp.PendingKind)
	assert.Contains(t, resp.Text, "previously staged announcement was discarded")

	resp = sup.Handle(ctx, Request{ConversationID: convID, Message: "post it"})
	assert.Empty(t, backend.announcements)
	require.Len(t, backend.quizzes, 1)
	assert.Equal(t, "Chapter 3 Quiz", backend.quizzes[0].Title)
}

type stallingModel struct {
	started chan struct{}
	release chan struct{}
}

func (m *stallingModel) Classify(ctx context.Context, prompt string) (string, error) {
	return "general", nil
}

func (m *stallingModel) Generate(ctx context.Context, prompt string) (string, error) {
	close(m.started)
	<-m.release
	return "done", nil
}

func TestSlowTurnDoesNotStallOtherConversations(t *testing.T) {
	model := &stallingModel{started: make(chan struct{}), release: make(chan struct{})}
	sup := New(
		conversation.NewStore(),
		intent.NewClassifier(model),
		model,
		&fakeBackend{},
		fakeExtractor{},
		nil,
		document.NewService(document.NewMemoryRepository()),
		nil,
		5,
		zerolog.Nop(),
	)
	ctx := context.Background()

	stalled := make(chan Response, 1)
	go func() {
		stalled <- sup.Handle(ctx, Request{ConversationID: "conv_a", Message: "what is covered in unit 3?"})
	}()
	<-model.started

	other := make(chan Response, 1)
	go func() {
		other <- sup.Handle(ctx, Request{ConversationID: "conv_b", Message: "cancel"})
	}()

	select {
	case resp := <-other:
		assert.Equal(t, "Nothing to cancel.", resp.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("turn on conv_b blocked behind conv_a's model call")
	}

	close(model.release)
	resp := <-stalled
	assert.Equal(t, "done", resp.Text)
}

func TestAnnouncementGenerationFallsBackToMessage(t *testing.T) {
	model := &fakeModel{classifyLabel: "post_announcement", generateErr: errors.New("model down")}
	sup := newTestSupervisor(model, &fakeBackend{})

	resp := sup.Handle(context.Background(), Request{Message: "post an announcement to [CS101] about office hours"})
	assert.Equal(t, conversation.ActionAnnouncement, resp.PendingKind)
	assert.Contains(t, resp.Text, "about office hours")
}

func TestCourseRequiredForStaging(t *testing.T) {
	model := &fakeModel{classifyLabel: "post_announcement"}
	sup := newTestSupervisor(model, &fakeBackend{})

	resp := sup.Handle(context.Background(), Request{Message: `post an announcement Text: "No course given."`})
	assert.Contains(t, resp.Text, "square brackets")
	assert.Empty(t, resp.PendingKind)
}

func TestAssignmentStagingCarriesDetails(t *testing.T) {
	model := &fakeModel{classifyLabel: "create_assignment"}
	backend := &fakeBackend{}
	sup := newTestSupervisor(model, backend)
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{
		Message: `create an assignment in [CS101] title: Homework 2` + "\n" +
			`Text: "Solve exercises 1 through 5." points should be 50 due date should be 10/1/2026 5:00 PM submission type should be url`,
	})
	assert.Equal(t, conversation.ActionAssignment, resp.PendingKind)
	assert.Contains(t, resp.Text, "Points: 50")
	assert.Contains(t, resp.Text, "2026-10-01T17:00:00Z")
	assert.Contains(t, resp.Text, "online_url")

	resp = sup.Handle(ctx, Request{ConversationID: resp.ConversationID, Message: "yes post it"})
	require.Len(t, backend.assignments, 1)
	a := backend.assignments[0]
	assert.Equal(t, 50, a.Points)
	require.NotNil(t, a.DueAt)
	assert.Equal(t, "2026-10-01T17:00:00Z", *a.DueAt)
	assert.Equal(t, []string{"online_url"}, a.SubmissionTypes)
}

func TestAssignmentMarkerUsedVerbatim(t *testing.T) {
	model := &fakeModel{classifyLabel: "create_assignment"}
	sup := newTestSupervisor(model, &fakeBackend{})

	resp := sup.Handle(context.Background(), Request{
		Message: "[Bio201] points should be 50 due date should be 13/40/2099 25:99 AM Assignment: Lab report",
	})
	assert.Equal(t, conversation.ActionAssignment, resp.PendingKind)
	assert.Contains(t, resp.Text, "Title: Assignment")
	assert.Contains(t, resp.Text, "Lab report")
	assert.Contains(t, resp.Text, "Points: 50")
	assert.NotContains(t, resp.Text, "Due:")
	assert.Empty(t, model.prompts, "marker content must not go through the model")
}

func TestListCourses(t *testing.T) {
	model := &fakeModel{classifyLabel: "list_courses"}
	backend := &fakeBackend{courses: []capability.Course{
		{ID: "1", Name: "Intro to Go", Code: "CS101", StudentCount: 32},
		{ID: "2", Name: "Databases", Code: "CS240"},
	}}
	sup := newTestSupervisor(model, backend)

	resp := sup.Handle(context.Background(), Request{Message: "what courses do I teach?"})
	assert.Equal(t, AgentCanvasList, resp.Agent)
	assert.Contains(t, resp.Text, "Intro to Go (CS101): 32 students")
	assert.Contains(t, resp.Text, "Databases (CS240)")
}

func TestUploadFlowStagesAnnouncementFromFile(t *testing.T) {
	model := &fakeModel{classifyLabel: "general"}
	backend := &fakeBackend{}
	sup := newTestSupervisor(model, backend)
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{
		Message: "post an announcement to [CS101] with the file uploaded",
		Upload: &conversation.Upload{
			FileName: "update.txt",
			Content:  []byte("Office hours move to Wednesday at 3pm."),
		},
	})
	assert.Equal(t, conversation.ActionAnnouncement, resp.PendingKind)
	assert.Contains(t, resp.Text, "Office hours move to Wednesday")

	folders := sup.docs
	list, err := folders.ListFolders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS101"}, list)
}

func TestDocumentFastPaths(t *testing.T) {
	model := &fakeModel{classifyLabel: "general"}
	sup := newTestSupervisor(model, &fakeBackend{})
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{Message: "show available documents"})
	assert.Equal(t, AgentDocumentFolders, resp.Agent)
	assert.Contains(t, resp.Text, "No documents have been uploaded yet.")

	_, err := sup.docs.Ingest(ctx, "CS101", "syllabus.txt", "txt", "Grading policy: homework counts for 40 percent.")
	require.NoError(t, err)

	resp = sup.Handle(ctx, Request{Message: "show available documents"})
	assert.Contains(t, resp.Text, "CS101")

	resp = sup.Handle(ctx, Request{Message: "search documents[CS101] grading policy"})
	assert.Equal(t, AgentDocumentSearch, resp.Agent)
	assert.Contains(t, resp.Text, "syllabus.txt")

	resp = sup.Handle(ctx, Request{Message: "search documents[CS101] nonexistent topic"})
	assert.Contains(t, resp.Text, "No documents matched")
}

func TestGeneralUsesContextWindow(t *testing.T) {
	model := &fakeModel{classifyLabel: "general", generateText: "Covered in lecture 2."}
	sup := newTestSupervisor(model, &fakeBackend{})
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{Message: "what did we discuss about slices?"})
	convID := resp.ConversationID

	sup.Handle(ctx, Request{ConversationID: convID, Message: "and what about maps?"})
	last := model.prompts[len(model.prompts)-1]
	assert.Contains(t, last, "Previous conversation:")
	assert.Contains(t, last, "what did we discuss about slices?")
	assert.Contains(t, last, "Current message: and what about maps?")
}

func TestExecutionFailureReportsError(t *testing.T) {
	model := &fakeModel{classifyLabel: "post_announcement"}
	backend := &fakeBackend{}
	sup := newTestSupervisor(model, backend)
	ctx := context.Background()

	resp := sup.Handle(ctx, Request{Message: `announce to [CS101] Text: "Hi."`})
	backend.err = errors.New("canvas 502")

	resp = sup.Handle(ctx, Request{ConversationID: resp.ConversationID, Message: "yes"})
	assert.Equal(t, AgentError, resp.Agent)
	assert.Contains(t, resp.Text, "canvas 502")
	assert.Empty(t, resp.PendingKind, "a failed confirmation does not restage")
}

func TestGenerateTitleBoundsLength(t *testing.T) {
	model := &fakeModel{generateText: strings.Repeat("Hippopotomonstrosesquippedaliophobia ", 5)}
	sup := newTestSupervisor(model, &fakeBackend{})

	title := sup.generateTitle(context.Background(), "some content")
	assert.LessOrEqual(t, len(title), 80)
	assert.True(t, strings.HasSuffix(title, "..."))
}

func TestSearchQueryStripsPrefixAndFolder(t *testing.T) {
	assert.Equal(t, "grading policy", searchQuery("search documents[CS101] grading policy"))
	assert.Equal(t, "midterm dates", searchQuery("Search Documents midterm dates"))
}

func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://example.com/page", firstURL("summarize https://example.com/page."))
	assert.Empty(t, firstURL("no links here"))
	assert.True(t, strings.HasPrefix(firstURL("see http://a.b/c, thanks"), "http://a.b/c"))
}
