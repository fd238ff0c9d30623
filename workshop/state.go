// Package workshop implements the session state model of the SQL workshop:
// progress flags, teacher mode, the sandbox buffer and the question board.
//
// Every operation takes the session's *models.SessionState explicitly. The
// caller owns that value for the duration of one request and is responsible
// for serializing access to it.
package workshop

import (
	"fmt"
	"strings"
	"time"

	"sqlworkshop-server/catalog"
	"sqlworkshop-server/models"
)

// Workshop binds the operations that need static content to a catalog.
type Workshop struct {
	catalog  *catalog.Catalog
	defaults models.ConnectionParams
	now      func() time.Time
}

// Option customizes a Workshop.
type Option func(*Workshop)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Workshop) { w.now = now }
}

// New creates a Workshop. defaults seeds the connection parameters of every
// new or reset session.
func New(c *catalog.Catalog, defaults models.ConnectionParams, opts ...Option) *Workshop {
	w := &Workshop{catalog: c, defaults: defaults, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Catalog returns the static content the workshop was built with.
func (w *Workshop) Catalog() *catalog.Catalog {
	return w.catalog
}

// NewState returns the state of a session on first access.
func (w *Workshop) NewState() *models.SessionState {
	now := w.now()
	st := &models.SessionState{
		CurrentView: models.ViewHome,
		CreatedAt:   now,
	}
	w.initProgress(st)
	st.UpdatedAt = now
	return st
}

// initProgress resets every field that a reset clears.
func (w *Workshop) initProgress(st *models.SessionState) {
	st.GuidedCompleted = falseMap(w.catalog.GuidedIDs())
	st.AutonomousCompleted = falseMap(w.catalog.ChallengeIDs())
	st.SolutionsRevealed = falseMap(w.catalog.GuidedIDs())
	st.ObjectivesCompleted = make(map[models.ObjectiveKey]bool, len(models.AllObjectives))
	for _, k := range models.AllObjectives {
		st.ObjectivesCompleted[k] = false
	}
	st.GuidedCode = make(map[string]string, len(w.catalog.Guided))
	st.SandboxCode = w.catalog.SandboxPlaceholder
	st.Questions = []models.QuestionRecord{}
	st.NextQuestionID = 0
	st.Connection = w.defaults
}

// Reset reinitializes the session except for teacher mode and the current
// view. Without confirmation it does nothing.
func (w *Workshop) Reset(st *models.SessionState, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}
	w.initProgress(st)
	st.UpdatedAt = w.now()
	return nil
}

// SelectView changes the current section and nothing else.
func SelectView(st *models.SessionState, name string) error {
	v, ok := models.ParseView(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	st.CurrentView = v
	return nil
}

// SetTeacherMode switches the global visibility of answers and notes.
func SetTeacherMode(st *models.SessionState, on bool) {
	st.TeacherMode = on
}

// SetCompletion sets one checkbox. Ids are catalog ids for guided and
// autonomous exercises and objective keys for objectives.
func SetCompletion(st *models.SessionState, kind models.CompletionKind, id string, done bool) error {
	switch kind {
	case models.KindGuided:
		return setKnown(st.GuidedCompleted, id, done)
	case models.KindAutonomous:
		return setKnown(st.AutonomousCompleted, id, done)
	case models.KindObjective:
		key := models.ObjectiveKey(id)
		if _, ok := st.ObjectivesCompleted[key]; !ok {
			return fmt.Errorf("%w: objective %q", ErrUnknownItem, id)
		}
		st.ObjectivesCompleted[key] = done
		return nil
	default:
		return fmt.Errorf("%w: completion kind %q", ErrUnknownItem, kind)
	}
}

// RevealSolution marks a guided solution as revealed. The mark is sticky:
// the solution stays visible after teacher mode is switched off.
func RevealSolution(st *models.SessionState, id string) error {
	if _, ok := st.SolutionsRevealed[id]; !ok {
		return fmt.Errorf("%w: exercise %q", ErrUnknownItem, id)
	}
	if !st.TeacherMode {
		return ErrPermissionDenied
	}
	st.SolutionsRevealed[id] = true
	return nil
}

// SolutionVisible combines the global switch with the sticky per-item bit.
func SolutionVisible(st *models.SessionState, id string) bool {
	return st.TeacherMode || st.SolutionsRevealed[id]
}

// SetGuidedCode keeps the editor contents of one guided exercise.
func (w *Workshop) SetGuidedCode(st *models.SessionState, id, code string) error {
	if _, ok := w.catalog.Exercise(id); !ok {
		return fmt.Errorf("%w: exercise %q", ErrUnknownItem, id)
	}
	if st.GuidedCode == nil {
		st.GuidedCode = make(map[string]string)
	}
	st.GuidedCode[id] = code
	return nil
}

// SetSandboxCode replaces the sandbox editor contents.
func SetSandboxCode(st *models.SessionState, code string) {
	st.SandboxCode = code
}

// LoadChallenge copies a challenge's starter snippet into the sandbox.
func (w *Workshop) LoadChallenge(st *models.SessionState, id string) error {
	ch, ok := w.catalog.Challenge(id)
	if !ok {
		return fmt.Errorf("%w: challenge %q", ErrUnknownItem, id)
	}
	st.SandboxCode = ch.Snippet
	return nil
}

// ClearSandbox restores the placeholder comment.
func (w *Workshop) ClearSandbox(st *models.SessionState) {
	st.SandboxCode = w.catalog.SandboxPlaceholder
}

// SetConnectionParam edits a display-only connection setting.
func SetConnectionParam(st *models.SessionState, name, value string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "host":
		st.Connection.Host = value
	case "port":
		st.Connection.Port = value
	case "database":
		st.Connection.Database = value
	case "user":
		st.Connection.User = value
	case "password":
		st.Connection.Password = value
	default:
		return fmt.Errorf("%w: connection parameter %q", ErrUnknownItem, name)
	}
	return nil
}

// Touch records a mutation time.
func (w *Workshop) Touch(st *models.SessionState) {
	st.UpdatedAt = w.now()
}

func setKnown(m map[string]bool, id string, done bool) error {
	if _, ok := m[id]; !ok {
		return fmt.Errorf("%w: exercise %q", ErrUnknownItem, id)
	}
	m[id] = done
	return nil
}

func falseMap(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = false
	}
	return m
}
