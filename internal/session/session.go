// Package session owns the canonical roster of a running dashboard: who may
// log in, the drafts teachers are editing, and the commits that replace the
// roster.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"evaluation/internal/editor"
	"evaluation/internal/roster"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDraftNotFound      = errors.New("draft not found")
)

// Role is what a logged in user may do.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// User is the result of a successful login. StudentID is 0 for teachers.
type User struct {
	Role      Role   `json:"role"`
	StudentID int    `json:"student_id,omitempty"`
	Name      string `json:"name"`
}

// Config is everything a session needs at startup.
type Config struct {
	TeacherUsername string
	TeacherPassword string
	Seed            roster.SeedConfig
}

// Committed describes a roster that just replaced the canonical one.
type Committed struct {
	SessionID string        `json:"session_id"`
	Version   int64         `json:"version"`
	At        time.Time     `json:"at"`
	Roster    roster.Roster `json:"roster"`
}

// CommitFunc is notified after every commit.
type CommitFunc func(ctx context.Context, c Committed) error

// Session is safe for concurrent use. Concurrent drafts are last-writer-wins:
// each commit replaces the whole roster.
type Session struct {
	id  string
	cfg Config
	now func() time.Time

	mu        sync.RWMutex
	canonical roster.Roster
	version   int64
	drafts    map[string]*editor.Draft
	touched   map[string]time.Time
	onCommit  []CommitFunc
}

// New seeds a session from cfg.Seed.
func New(cfg Config) *Session {
	return WithRoster(cfg, roster.Seed(cfg.Seed))
}

// WithRoster starts a session from an existing roster.
func WithRoster(cfg Config, r roster.Roster) *Session {
	return &Session{
		id:        uuid.NewString(),
		cfg:       cfg,
		now:       time.Now,
		canonical: r.Clone(),
		version:   1,
		drafts:    make(map[string]*editor.Draft),
		touched:   make(map[string]time.Time),
	}
}

// ID identifies this session. Versions only compare within one session.
func (s *Session) ID() string {
	return s.id
}

// Login matches the teacher credentials, or a student's NIM used as both
// username and password.
func (s *Session) Login(username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	if username == s.cfg.TeacherUsername && password == s.cfg.TeacherPassword {
		return User{Role: RoleTeacher, Name: username}, nil
	}
	s.mu.RLock()
	st, ok := s.canonical.FindByNIM(username)
	s.mu.RUnlock()
	if ok && password == st.NIM {
		return User{Role: RoleStudent, StudentID: st.ID, Name: st.Name}, nil
	}
	return User{}, ErrInvalidCredentials
}

// Roster returns a copy of the canonical roster.
func (s *Session) Roster() roster.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.canonical.Clone()
}

// Version increases by one with every commit.
func (s *Session) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns the current version and a copy of the roster at that
// version.
func (s *Session) Snapshot() (int64, roster.Roster) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, s.canonical.Clone()
}

// Student returns a copy of one canonical student.
func (s *Session) Student(id int) (roster.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.canonical.Find(id)
	if !ok {
		return roster.Student{}, false
	}
	return st.Clone(), true
}

// OnCommit registers fn to run after each commit.
func (s *Session) OnCommit(fn CommitFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = append(s.onCommit, fn)
}

// BeginDraft opens a draft over the current canonical roster.
func (s *Session) BeginDraft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.drafts[id] = editor.Begin(s.canonical)
	s.touched[id] = s.now()
	return id
}

// OpenDrafts is the number of drafts neither committed nor discarded.
func (s *Session) OpenDrafts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}

// Edit runs fn against draft id.
func (s *Session) Edit(id string, fn func(*editor.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return errors.Wrapf(ErrDraftNotFound, "draft %s", id)
	}
	s.touched[id] = s.now()
	return fn(d)
}

// ExpireDrafts discards drafts not edited for longer than maxIdle and returns
// how many were dropped. A maxIdle of 0 keeps every draft.
func (s *Session) ExpireDrafts(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	n := 0
	for id, at := range s.touched {
		if at.Before(cutoff) {
			delete(s.drafts, id)
			delete(s.touched, id)
			n++
		}
	}
	return n
}

// Preview returns a copy of the students in draft id.
func (s *Session) Preview(id string) (roster.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, errors.Wrapf(ErrDraftNotFound, "draft %s", id)
	}
	return d.Students(), nil
}

// Discard drops draft id without touching the canonical roster.
func (s *Session) Discard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return errors.Wrapf(ErrDraftNotFound, "draft %s", id)
	}
	delete(s.drafts, id)
	delete(s.touched, id)
	return nil
}

// Commit promotes draft id to the canonical roster and notifies the commit
// callbacks. Callback errors are logged, the commit itself already happened.
func (s *Session) Commit(ctx context.Context, id string) (Committed, error) {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return Committed{}, errors.Wrapf(ErrDraftNotFound, "draft %s", id)
	}
	delete(s.drafts, id)
	delete(s.touched, id)
	s.canonical = d.Commit()
	s.version++
	c := Committed{SessionID: s.id, Version: s.version, At: time.Now().UTC(), Roster: s.canonical.Clone()}
	callbacks := append([]CommitFunc(nil), s.onCommit...)
	s.mu.Unlock()

	for _, fn := range callbacks {
		if err := fn(ctx, c); err != nil {
			log.Printf("commit callback for version %d: %v", c.Version, err)
		}
	}
	return c, nil
}
