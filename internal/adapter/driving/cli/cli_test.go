package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mb3rlab/pilotdesk/internal/application"
	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

type fakeDispatcher struct {
	cmds []application.Command
}

func (f *fakeDispatcher) Dispatch(_ context.Context, cmd application.Command) application.View {
	f.cmds = append(f.cmds, cmd)
	if _, ok := cmd.(application.SubmitCredential); ok {
		return application.View{State: model.LockStateUnlocked, StatusKey: i18n.KeyAccessGranted}
	}
	return application.View{State: model.LockStateLocked, OverlayKey: i18n.KeyOverlayLocked, PromptVisible: true}
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origLn, orig := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	printFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn, printFn = origLn, orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.Join([]string{"help", "login", "refresh", "", "reset", "bogus", "quit", "refresh"}, "\n")
	d := &fakeDispatcher{}
	password := func() (string, error) { return "secret", nil }

	runREPL(context.Background(), d, language.English, bufio.NewScanner(strings.NewReader(input)), password)

	require.Len(t, d.cmds, 4)
	assert.Equal(t, application.StartSession{}, d.cmds[0])
	assert.Equal(t, application.SubmitCredential{Credential: "secret"}, d.cmds[1])
	assert.Equal(t, application.Refresh{}, d.cmds[2])
	assert.Equal(t, application.ResetCredential{}, d.cmds[3])

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "Access granted.")
	assert.Contains(t, joined, "Unknown command: bogus")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_PasswordReadFailure(t *testing.T) {
	out := captureOutput(t)

	password := func() (string, error) { return "", errors.New("not a terminal") }

	d := &fakeDispatcher{}
	runREPL(context.Background(), d, language.English, bufio.NewScanner(strings.NewReader("login\n")), password)

	assert.Len(t, d.cmds, 1, "only the start command is dispatched")
	assert.Contains(t, strings.Join(*out, ""), "not a terminal")
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	captureOutput(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &fakeDispatcher{}
	runREPL(ctx, d, language.English, bufio.NewScanner(strings.NewReader("refresh\n")), nil)

	assert.Len(t, d.cmds, 1)
}

func TestRunAdmin_ReadsPasswordFromInput(t *testing.T) {
	out := captureOutput(t)

	d := &fakeDispatcher{}
	RunAdmin(context.Background(), d, language.English, strings.NewReader("login\nsecret\nquit\n"))

	require.Len(t, d.cmds, 2)
	assert.Equal(t, application.SubmitCredential{Credential: "secret"}, d.cmds[1])
	assert.Contains(t, *out, "Password: ")
	assert.Contains(t, *out, "pilotctl> ", "prompt is printed without a newline")
}

func TestRunAdmin_LoginAtEOF(t *testing.T) {
	out := captureOutput(t)

	d := &fakeDispatcher{}
	RunAdmin(context.Background(), d, language.English, strings.NewReader("login\n"))

	assert.Len(t, d.cmds, 1)
	assert.Contains(t, strings.Join(*out, ""), "unexpected EOF")
}

func TestPasswordSource_TerminalReadsWithoutEcho(t *testing.T) {
	captureOutput(t)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close(); _ = w.Close() })

	origTerm, origRead := isTerminal, readPassword
	isTerminal = func(int) bool { return true }
	readPassword = func(fd int) ([]byte, error) {
		assert.Equal(t, int(r.Fd()), fd)
		return []byte("hunter2"), nil
	}
	t.Cleanup(func() { isTerminal, readPassword = origTerm, origRead })

	got, err := passwordSource(r, bufio.NewScanner(r))()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}

func TestRenderView(t *testing.T) {
	created := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	rows := []model.Submission{{
		ID: "local-1", Email: "lead@example.com", Company: "Acme",
		Comment: "line one\nline two", CreatedAt: created, Source: model.SourceLocal,
	}}

	t.Run("locked", func(t *testing.T) {
		got := renderView(language.English, application.View{
			State:         model.LockStateLocked,
			OverlayKey:    i18n.KeyOverlayLocked,
			PromptVisible: true,
		})
		assert.Contains(t, got, "[locked]")
		assert.Contains(t, got, i18n.T(language.English, i18n.KeyOverlayLocked))
		assert.Contains(t, got, "(login)")
		assert.NotContains(t, got, "Email")
	})

	t.Run("degraded shows cached rows", func(t *testing.T) {
		got := renderView(language.English, application.View{
			State:         model.LockStateLocked,
			Rows:          rows,
			Degraded:      true,
			OverlayKey:    i18n.KeyOverlayDegraded,
			ServerMessage: "maintenance",
		})
		assert.Contains(t, got, "[offline]")
		assert.Contains(t, got, "> maintenance")
		assert.Contains(t, got, "lead@example.com")
		assert.Contains(t, got, "line one line two")
		assert.Contains(t, got, "2026-05-01 10:30:00")
	})

	t.Run("unlocked empty", func(t *testing.T) {
		got := renderView(language.English, application.View{State: model.LockStateUnlocked})
		assert.Contains(t, got, "[unlocked]")
		assert.Contains(t, got, i18n.T(language.English, i18n.KeyTableEmpty))
	})
}

func TestCell_Truncates(t *testing.T) {
	got := cell(strings.Repeat("x", 100))
	assert.Equal(t, maxCommentCells, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "-", cell("  "))
}

type fakeForm struct {
	res application.FormResult
	err error
}

func (f fakeForm) Submit(context.Context, model.SubmissionInput) (application.FormResult, error) {
	return f.res, f.err
}

func TestSubmit(t *testing.T) {
	t.Run("saved offline", func(t *testing.T) {
		var buf bytes.Buffer
		form := fakeForm{res: application.FormResult{
			Submission: model.Submission{ID: "local-1", Source: model.SourceLocal},
			Outcome:    application.FormSavedLocally,
			MessageKey: i18n.KeySubmitOffline,
		}}

		require.NoError(t, Submit(context.Background(), form, language.English, model.SubmissionInput{}, &buf))
		assert.Contains(t, buf.String(), i18n.T(language.English, i18n.KeySubmitOffline))
		assert.Contains(t, buf.String(), "source=local")
	})

	t.Run("server validation is printed verbatim", func(t *testing.T) {
		var buf bytes.Buffer
		form := fakeForm{err: &application.ValidationError{MessageKey: i18n.KeySubmitFailed, Message: "Domain is blocked"}}

		err := Submit(context.Background(), form, language.English, model.SubmissionInput{}, &buf)
		require.Error(t, err)
		assert.Equal(t, "Domain is blocked\n", buf.String())
	})

	t.Run("other failure", func(t *testing.T) {
		var buf bytes.Buffer
		form := fakeForm{err: errors.New("boom")}

		err := Submit(context.Background(), form, language.English, model.SubmissionInput{}, &buf)
		require.Error(t, err)
		assert.Contains(t, buf.String(), i18n.T(language.English, i18n.KeySubmitFailed))
	})
}

type listCache struct {
	rows []model.Submission
	err  error
}

func (c listCache) Record(context.Context, ...model.Submission) error { return nil }
func (c listCache) List(context.Context) ([]model.Submission, error) {
	return c.rows, c.err
}

func TestListCache(t *testing.T) {
	var buf bytes.Buffer
	err := ListCache(context.Background(), listCache{rows: []model.Submission{{ID: "local-9", Email: "x@y.io"}}}, language.English, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "local-9")

	err = ListCache(context.Background(), listCache{err: errors.New("gone")}, language.English, &buf)
	assert.ErrorContains(t, err, "list local cache")
}
