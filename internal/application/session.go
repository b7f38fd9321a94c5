package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
	"github.com/mb3rlab/pilotdesk/internal/i18n"
)

// View is the admin table as it should be rendered after a command.
type View struct {
	State    model.LockState
	Rows     []model.Submission
	Degraded bool // Rows come from the local cache, not the service.
	Failure  model.FailureKind

	OverlayKey    string // i18n key for the table overlay; empty when unlocked.
	StatusKey     string // i18n key for the password form status line.
	ServerMessage string // Message returned by the service, shown verbatim.
	PromptVisible bool

	Seq uint64 // Sequence number of the fetch that produced this view.
}

// Command is a user action consumed by SessionController.Dispatch.
type Command interface {
	command()
}

// StartSession evaluates the initial state of a new session.
type StartSession struct{}

// SubmitCredential tries a candidate admin password.
type SubmitCredential struct {
	Credential string
}

// Refresh reloads the table with the stored credential.
type Refresh struct{}

// ResetCredential forgets the stored credential.
type ResetCredential struct{}

func (StartSession) command()     {}
func (SubmitCredential) command() {}
func (Refresh) command()          {}
func (ResetCredential) command()  {}

// sessionState is everything a session remembers. It lives only as long as
// the controller; nothing here is persisted.
type sessionState struct {
	credential string
	verified   string // Last credential the service accepted.
	latestSeq  uint64
	view       View
}

// SessionController owns the admin session: the credential gate, the table
// lock, and the choice between remote data and the local fallback cache.
// It is safe for concurrent use. The lock is released during network calls;
// each fetch carries a sequence number and responses older than the latest
// dispatched fetch are discarded.
type SessionController struct {
	fetcher driven.RemoteFetcher
	cache   driven.LocalCache
	logger  *slog.Logger

	mu      sync.Mutex
	session sessionState
}

// NewSessionController creates a controller in the LOCKED state with the
// password prompt visible. cache may be nil, which disables the fallback.
func NewSessionController(fetcher driven.RemoteFetcher, cache driven.LocalCache, logger *slog.Logger) *SessionController {
	c := &SessionController{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
	c.session.view = lockedView(0, model.FailureNone, true)
	return c
}

// Dispatch applies cmd and returns the resulting view.
func (c *SessionController) Dispatch(ctx context.Context, cmd Command) View {
	switch cmd := cmd.(type) {
	case StartSession:
		return c.Start(ctx)
	case SubmitCredential:
		return c.SubmitCredential(ctx, cmd.Credential)
	case Refresh:
		return c.Refresh(ctx)
	case ResetCredential:
		return c.Reset()
	default:
		return c.View()
	}
}

// View returns the current view.
func (c *SessionController) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneView(c.session.view)
}

// Start shows the prompt for a fresh session, or reloads silently when a
// credential is already held.
func (c *SessionController) Start(ctx context.Context) View {
	c.mu.Lock()
	credential := c.session.credential
	c.mu.Unlock()

	if credential == "" {
		return c.View()
	}
	return c.load(ctx, credential, false)
}

// SubmitCredential authenticates with candidate. On success the credential is
// kept for the session and the table unlocks; on 401/403 any stored
// credential is discarded and the prompt reopens.
func (c *SessionController) SubmitCredential(ctx context.Context, candidate string) View {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.session.latestSeq++
		c.applyAuthFailureLocked(c.session.latestSeq, &driven.RemoteError{Kind: model.FailureUnauthorized})
		return cloneView(c.session.view)
	}
	return c.load(ctx, candidate, true)
}

// Refresh reloads the table with the stored credential. Without one it only
// reopens the prompt.
func (c *SessionController) Refresh(ctx context.Context) View {
	c.mu.Lock()
	credential := c.session.credential
	if credential == "" {
		c.session.view.PromptVisible = true
		view := cloneView(c.session.view)
		c.mu.Unlock()
		return view
	}
	c.mu.Unlock()

	return c.load(ctx, credential, false)
}

// Reset clears the credential and the session's trust, locks the table and
// shows the prompt. Fetches still in flight are discarded when they return.
func (c *SessionController) Reset() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.credential = ""
	c.session.verified = ""
	c.session.latestSeq++
	c.session.view = lockedView(c.session.latestSeq, model.FailureNone, true)

	c.logger.Info("admin credential reset")
	return cloneView(c.session.view)
}

// load fetches with credential and applies the outcome unless a newer fetch
// or a reset was dispatched in the meantime.
func (c *SessionController) load(ctx context.Context, credential string, interactive bool) View {
	c.mu.Lock()
	c.session.latestSeq++
	seq := c.session.latestSeq
	trusted := c.trustedLocked(credential)
	c.mu.Unlock()

	rows, err := c.fetcher.ListSubmissions(ctx, credential)

	var cached []model.Submission
	kind := driven.FailureKindOf(err)
	if err != nil && kind.FallbackEligible() && trusted {
		cached = c.readCache(ctx)
	}

	c.mu.Lock()
	if seq != c.session.latestSeq {
		view := cloneView(c.session.view)
		c.mu.Unlock()
		c.logger.Debug("discarding superseded fetch", "seq", seq)
		return view
	}

	switch {
	case err == nil:
		c.applySuccessLocked(seq, credential, rows, interactive)
	case kind.IsAuthFailure():
		c.applyAuthFailureLocked(seq, err)
	case kind.FallbackEligible() && trusted:
		c.applyDegradedLocked(seq, kind, err, cached)
	default:
		c.applyLoadFailureLocked(seq, kind, err)
	}
	view := cloneView(c.session.view)
	c.mu.Unlock()

	if err == nil {
		c.mirror(ctx, rows)
	}
	return view
}

// trustedLocked reports whether credential is the one the service last
// accepted in this session. Only then may cached data be shown.
func (c *SessionController) trustedLocked(credential string) bool {
	verified := c.session.verified
	if verified == "" || credential == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(verified), []byte(credential)) == 1
}

func (c *SessionController) applySuccessLocked(seq uint64, credential string, rows []model.Submission, interactive bool) {
	c.session.credential = credential
	c.session.verified = credential

	view := View{
		State: model.LockStateUnlocked,
		Rows:  cloneRows(rows),
		Seq:   seq,
	}
	if interactive {
		view.StatusKey = i18n.KeyAccessGranted
	}
	c.session.view = view

	c.logger.Info("admin table unlocked", "rows", len(rows), "seq", seq)
}

func (c *SessionController) applyAuthFailureLocked(seq uint64, err error) {
	kind := driven.FailureKindOf(err)

	c.session.credential = ""
	c.session.verified = ""

	view := lockedView(seq, kind, true)
	view.StatusKey = authStatusKey(kind)
	view.ServerMessage = serverMessage(err)
	c.session.view = view

	c.logger.Warn("admin authentication failed", "kind", kind, "seq", seq)
}

func (c *SessionController) applyDegradedLocked(seq uint64, kind model.FailureKind, err error, cached []model.Submission) {
	view := View{
		State:         model.LockStateLocked,
		Rows:          cached,
		Degraded:      true,
		Failure:       kind,
		OverlayKey:    OverlayMessageKey(model.LockStateLocked, kind, true),
		ServerMessage: serverMessage(err),
		Seq:           seq,
	}
	c.session.view = view

	c.logger.Warn("applications service unavailable, showing local cache",
		"kind", kind, "cached_rows", len(cached), "seq", seq, "error", err)
}

func (c *SessionController) applyLoadFailureLocked(seq uint64, kind model.FailureKind, err error) {
	view := lockedView(seq, kind, c.session.credential == "")
	view.ServerMessage = serverMessage(err)
	c.session.view = view

	c.logger.Warn("failed to load submissions", "kind", kind, "seq", seq, "error", err)
}

// readCache returns the cached records. Unreadable storage reads as empty.
func (c *SessionController) readCache(ctx context.Context) []model.Submission {
	if c.cache == nil {
		return []model.Submission{}
	}
	rows, err := c.cache.List(ctx)
	if err != nil {
		c.logger.Warn("unable to read local cache", "error", err)
		return []model.Submission{}
	}
	if rows == nil {
		rows = []model.Submission{}
	}
	return rows
}

// mirror copies freshly fetched remote rows that the local cache does not
// hold yet, so a later outage can still show them.
func (c *SessionController) mirror(ctx context.Context, rows []model.Submission) {
	if c.cache == nil || len(rows) == 0 {
		return
	}

	existing, err := c.cache.List(ctx)
	if err != nil {
		c.logger.Warn("unable to read local cache", "error", err)
		existing = nil
	}
	seen := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		seen[s.ID] = struct{}{}
	}

	if len(rows) > driven.LocalCacheCap {
		rows = rows[:driven.LocalCacheCap]
	}

	// rows are newest first; record oldest first so the newest ends up on top.
	missing := make([]model.Submission, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		if _, ok := seen[rows[i].ID]; ok {
			continue
		}
		missing = append(missing, rows[i])
	}
	if len(missing) == 0 {
		return
	}

	if err := c.cache.Record(ctx, missing...); err != nil {
		c.logger.Warn("unable to mirror submissions into local cache", "error", err)
	}
}

func lockedView(seq uint64, kind model.FailureKind, prompt bool) View {
	return View{
		State:         model.LockStateLocked,
		Failure:       kind,
		OverlayKey:    OverlayMessageKey(model.LockStateLocked, kind, false),
		PromptVisible: prompt,
		Seq:           seq,
	}
}

func serverMessage(err error) string {
	var re *driven.RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return ""
}

func cloneView(v View) View {
	v.Rows = cloneRows(v.Rows)
	return v
}

func cloneRows(rows []model.Submission) []model.Submission {
	if rows == nil {
		return nil
	}
	out := make([]model.Submission, len(rows))
	copy(out, rows)
	return out
}
