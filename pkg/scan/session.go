package scan

import (
	"MeatSafe-Backend/domain"
	"sync"
	"time"

	"github.com/google/uuid"
)

type sessionState string

const (
	stateClassifying sessionState = "classifying"
	stateClassified  sessionState = "classified"
	stateRefining    sessionState = "refining"
	stateFailed      sessionState = "failed"
)

const sessionTTL = time.Hour

// session is one scan attempt. It lives in memory only; discarding the photo
// discards the session. Every field is guarded by the registry mutex — the
// scan service only ever sees value copies.
type session struct {
	id        uuid.UUID
	userID    string
	state     sessionState
	verdict   domain.Verdict
	recordID  string
	imageURL  string
	createdAt time.Time
}

// sessionView is the read-only copy the registry hands out.
type sessionView struct {
	verdict  domain.Verdict
	recordID string
	imageURL string
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[uuid.UUID]*session)}
}

func (r *sessionRegistry) create(userID string) uuid.UUID {
	s := &session{
		id:        uuid.New(),
		userID:    userID,
		state:     stateClassifying,
		createdAt: time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()
	r.sessions[s.id] = s
	return s.id
}

// completeClassification records the verdict if the session is still waiting
// for one. A false return means the session was discarded while the oracle was
// thinking and the result must be dropped.
func (r *sessionRegistry) completeClassification(id uuid.UUID, verdict domain.Verdict) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.state != stateClassifying {
		return false
	}
	s.state = stateClassified
	s.verdict = verdict
	return true
}

func (r *sessionRegistry) fail(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.state == stateClassifying {
		s.state = stateFailed
	}
}

func (r *sessionRegistry) attachImage(id uuid.UUID, imageURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.imageURL = imageURL
	}
}

func (r *sessionRegistry) attachRecord(id uuid.UUID, recordID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		s.recordID = recordID
	}
}

// beginRefine atomically claims the session for one refinement attempt. Only a
// classified session can be claimed, so concurrent refinements serialize here
// instead of racing a separate check.
func (r *sessionRegistry) beginRefine(id uuid.UUID, userID string) (sessionView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return sessionView{}, domain.ErrSessionNotFound
	}
	if s.userID != userID {
		return sessionView{}, domain.ErrUserNotAllowed
	}
	switch s.state {
	case stateClassified:
	case stateClassifying, stateRefining:
		return sessionView{}, domain.ErrScanInProgress
	default:
		return sessionView{}, domain.ErrNoActiveScan
	}

	s.state = stateRefining
	return sessionView{
		verdict:  s.verdict,
		recordID: s.recordID,
		imageURL: s.imageURL,
	}, nil
}

func (r *sessionRegistry) stillRefining(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return ok && s.state == stateRefining
}

// completeRefine installs the refined verdict. A false return means the
// session was reset while the refinement was in flight.
func (r *sessionRegistry) completeRefine(id uuid.UUID, verdict domain.Verdict, recordID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.state != stateRefining {
		return false
	}
	s.state = stateClassified
	s.verdict = verdict
	if recordID != "" {
		s.recordID = recordID
	}
	return true
}

// abortRefine returns a claimed session to classified after a failed attempt,
// leaving the prior verdict in place.
func (r *sessionRegistry) abortRefine(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok && s.state == stateRefining {
		s.state = stateClassified
	}
}

// reset discards the session. In-flight oracle results find it gone afterwards
// and are dropped instead of applied.
func (r *sessionRegistry) reset(id uuid.UUID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if s.userID != userID {
		return domain.ErrUserNotAllowed
	}
	delete(r.sessions, id)
	return nil
}

// prune drops abandoned sessions. Callers hold the lock.
func (r *sessionRegistry) prune() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, s := range r.sessions {
		if s.createdAt.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
