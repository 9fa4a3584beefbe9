package pipeline

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/docsum/internal/doctree"
	"github.com/dgallion1/docsum/internal/summarize"
)

// Status is the state of a session's current or last run.
type Status string

const (
	StatusIdle        Status = "idle"
	StatusExtracting  Status = "extracting"
	StatusQueued      Status = "queued"
	StatusChunking    Status = "chunking"
	StatusSummarizing Status = "summarizing"
	StatusRefining    Status = "refining"
	StatusDone        Status = "done"
	StatusError       Status = "error"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRunInProgress   = errors.New("a run is already in progress for this session")
	ErrNoDocument      = errors.New("session has no extracted text")
	ErrNoSummary       = errors.New("session has no summary yet")
)

// Session holds everything one uploaded document accumulates: its text, the
// settings and results of the last run, and the run's progress. Sessions
// share no state with each other.
type Session struct {
	mu sync.Mutex

	ID        string
	Filename  string
	CreatedAt time.Time
	UpdatedAt time.Time

	status   Status
	text     string
	pages    int
	hash     string
	settings summarize.Settings
	progress Progress
	results  []summarize.Result
	final    *summarize.Result
	errors   []string
	running  bool
	failedIn Status

	// Restored when a claimed run never reaches a worker.
	prevStatus   Status
	prevSettings summarize.Settings
}

// Progress tracks the map phase of a run.
type Progress struct {
	TotalChunks  int `json:"total_chunks"`
	ChunksDone   int `json:"chunks_done"`
	FailedChunks int `json:"failed_chunks"`
}

// NewSession returns an idle session with a fresh ID.
func NewSession(filename string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
		status:    StatusIdle,
	}
}

// SetDocument installs newly extracted text and clears any previous run.
func (s *Session) SetDocument(tree *doctree.DocTree) {
	text := tree.Text()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.pages = tree.PageCount()
	s.hash = ContentHashHex([]byte(text))
	s.results = nil
	s.final = nil
	s.errors = nil
	s.failedIn = ""
	s.progress = Progress{}
	s.status = StatusIdle
	s.UpdatedAt = time.Now()
}

// Text returns the extracted document text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Settings returns the settings of the current or last run.
func (s *Session) Settings() summarize.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Status returns the run status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetStatus updates the run status.
func (s *Session) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.UpdatedAt = time.Now()
}

// AddError records an error message against the session.
func (s *Session) AddError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
	s.UpdatedAt = time.Now()
}

// Fail records err, moves the session to StatusError and ends the run. The
// summary of the last completed run is kept.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err.Error())
	s.failedIn = s.status
	s.status = StatusError
	s.running = false
	s.UpdatedAt = time.Now()
}

// BeginRun claims the session for a new run with settings and queues it.
// Results of the previous run stay visible until StartRun.
func (s *Session) BeginRun(settings summarize.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunInProgress
	}
	if s.text == "" {
		return ErrNoDocument
	}
	s.running = true
	s.prevStatus = s.status
	s.prevSettings = s.settings
	s.settings = settings
	s.status = StatusQueued
	s.UpdatedAt = time.Now()
	return nil
}

// ReleaseRun gives up a claim taken by BeginRun before any work started,
// restoring the status and settings the session had before.
func (s *Session) ReleaseRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.status = s.prevStatus
	s.settings = s.prevSettings
	s.UpdatedAt = time.Now()
}

// StartRun moves a claimed session to StatusChunking and drops the per-chunk
// results and errors of the previous run. The final summary is replaced only
// by Finish.
func (s *Session) StartRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.errors = nil
	s.failedIn = ""
	s.progress = Progress{}
	s.status = StatusChunking
	s.UpdatedAt = time.Now()
}

// Running reports whether a run holds the session.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetTotalChunks records the chunk count of the current run.
func (s *Session) SetTotalChunks(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.TotalChunks = n
	s.UpdatedAt = time.Now()
}

// SetChunksDone records map phase progress. It matches
// summarize.ProgressFunc.
func (s *Session) SetChunksDone(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress.ChunksDone = done
	s.progress.TotalChunks = total
	s.UpdatedAt = time.Now()
}

// SetResults stores the per-chunk results in chunk order.
func (s *Session) SetResults(results []summarize.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append([]summarize.Result(nil), results...)
	s.progress.FailedChunks = summarize.CountFailed(results)
	s.UpdatedAt = time.Now()
}

// Finish stores the refined summary and completes the run.
func (s *Session) Finish(final summarize.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.final = &final
	s.status = StatusDone
	s.running = false
	s.UpdatedAt = time.Now()
}

// FinalSummary returns the display form of the last completed run's summary,
// even while a newer run is in flight.
func (s *Session) FinalSummary() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.final == nil {
		return "", ErrNoSummary
	}
	return s.final.Display(), nil
}

// ChunkResult is the JSON form of one map phase result.
type ChunkResult struct {
	Chunk   int    `json:"chunk"`
	OK      bool   `json:"ok"`
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID           string             `json:"session_id"`
	Filename     string             `json:"filename"`
	Status       Status             `json:"status"`
	Pages        int                `json:"pages"`
	Characters   int                `json:"characters"`
	ContentHash  string             `json:"content_hash,omitempty"`
	Preview      string             `json:"preview"`
	Settings     summarize.Settings `json:"settings"`
	Progress     Progress           `json:"progress"`
	Chunks       []ChunkResult      `json:"chunks"`
	FinalSummary string             `json:"final_summary,omitempty"`
	RefineFailed bool               `json:"refine_failed,omitempty"`
	FailedIn     Status             `json:"failed_in,omitempty"`
	Errors       []string           `json:"errors"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks := make([]ChunkResult, len(s.results))
	for i, r := range s.results {
		chunks[i] = ChunkResult{
			Chunk:   r.Index + 1,
			OK:      !r.Failed(),
			Summary: r.Display(),
			Error:   r.Reason(),
		}
	}
	errs := append([]string{}, s.errors...)

	snap := Snapshot{
		ID:          s.ID,
		Filename:    s.Filename,
		Status:      s.status,
		Pages:       s.pages,
		Characters:  len([]rune(s.text)),
		ContentHash: s.hash,
		Preview:     Preview(s.text, PreviewChars),
		Settings:    s.settings,
		Progress:    s.progress,
		Chunks:      chunks,
		FailedIn:    s.failedIn,
		Errors:      errs,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if s.final != nil {
		snap.FinalSummary = s.final.Display()
		snap.RefineFailed = s.final.Failed()
	}
	return snap
}

// SessionStore is a thread-safe in-memory session registry with TTL
// eviction.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (st *SessionStore) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Get returns the session with id or ErrSessionNotFound.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete removes a session. It reports whether the session existed.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

// Len returns the number of stored sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup removes sessions idle for longer than the TTL. Sessions with a
// run in flight are kept.
func (st *SessionStore) Cleanup() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, s := range st.sessions {
		s.mu.Lock()
		expired := !s.running && now.Sub(s.UpdatedAt) > st.ttl
		s.mu.Unlock()
		if expired {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// PreviewChars is the length of the text preview shown after upload.
const PreviewChars = 1000

// Preview returns the first n runes of text, followed by "..." when text is
// longer.
func Preview(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i] + "..."
		}
		count++
	}
	return text
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
