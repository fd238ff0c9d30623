package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sqlworkshop-server/models"
	"sqlworkshop-server/workshop"
)

// Manager creates sessions on first write and serializes the
// read-modify-write cycle of each one. Distinct sessions never share a lock.
// Stores implementing Transactor also guard the cycle across processes.
type Manager struct {
	store    Store
	workshop *workshop.Workshop

	mu    sync.Mutex
	locks map[string]*sessionLock
}

var tracer = otel.Tracer("sqlworkshop-server/sessions")

func startSpan(ctx context.Context, name, id string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("session.id", id)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager returns a Manager that builds fresh states with w.
func NewManager(store Store, w *workshop.Workshop) *Manager {
	return &Manager{
		store:    store,
		workshop: w,
		locks:    make(map[string]*sessionLock),
	}
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// load returns the stored state or a fresh one. created reports the latter.
func (m *Manager) load(ctx context.Context, id string) (st *models.SessionState, created bool, err error) {
	st, err = m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return m.workshop.NewState(), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load session %s: %w", id, err)
	}
	return st, false, nil
}

// View returns the state of a session. An unknown session yields a fresh
// state that is not stored until the first Update.
func (m *Manager) View(ctx context.Context, id string) (st *models.SessionState, err error) {
	ctx, span := startSpan(ctx, "sessions.View", id)
	defer func() { endSpan(span, err) }()

	unlock := m.lock(id)
	defer unlock()

	st, created, err := m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("session.created", created))
	return st, nil
}

// Update runs fn against the session state and saves the result. If fn
// fails, nothing is saved and its error is returned unchanged.
func (m *Manager) Update(ctx context.Context, id string, fn func(*models.SessionState) error) (st *models.SessionState, err error) {
	ctx, span := startSpan(ctx, "sessions.Update", id)
	defer func() { endSpan(span, err) }()

	unlock := m.lock(id)
	defer unlock()

	if tx, ok := m.store.(Transactor); ok {
		return m.transact(ctx, span, tx, id, fn)
	}

	st, _, err = m.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		span.SetAttributes(attribute.String("workshop.rejected", err.Error()))
		return nil, err
	}
	m.workshop.Touch(st)
	if err := m.store.Save(ctx, id, st); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	return st, nil
}

func (m *Manager) transact(ctx context.Context, span trace.Span, tx Transactor, id string, fn func(*models.SessionState) error) (*models.SessionState, error) {
	var (
		out      *models.SessionState
		rejected error
	)
	err := tx.Transact(ctx, id, func(current *models.SessionState) (*models.SessionState, error) {
		rejected = nil
		st := current
		if st == nil {
			st = m.workshop.NewState()
		}
		if err := fn(st); err != nil {
			rejected = err
			return nil, err
		}
		m.workshop.Touch(st)
		out = st
		return st, nil
	})
	if rejected != nil {
		span.SetAttributes(attribute.String("workshop.rejected", rejected.Error()))
		return nil, rejected
	}
	if err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}
	return out, nil
}

// End discards the session. The next access starts over.
func (m *Manager) End(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "sessions.End", id)
	defer func() { endSpan(span, err) }()

	unlock := m.lock(id)
	defer unlock()

	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("end session %s: %w", id, err)
	}
	return nil
}

// TeacherMode reports whether teacher mode is on. A missing session is a
// student session.
func (m *Manager) TeacherMode(ctx context.Context, id string) (bool, error) {
	st, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session %s: %w", id, err)
	}
	return st.TeacherMode, nil
}
