package highlight

import (
	"sync"

	"github.com/google/uuid"
	"github.com/park285/chess-heatmap/internal/domain"
)

// Store is the mutation boundary for highlight state. Every setter is
// last-write-wins; readers always get a deep copy.
type Store struct {
	mu     sync.RWMutex
	gameID uuid.UUID
	state  State
}

func NewStore() *Store {
	return &Store{}
}

// Reset binds the store to a game. Switching to a different game clears all
// sources; re-binding the same game keeps them.
func (s *Store) Reset(gameID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameID == gameID {
		return false
	}
	s.gameID = gameID
	s.state = State{}
	return true
}

func (s *Store) GameID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameID
}

// Highlights implements Source.
func (s *Store) Highlights() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) HoverSquare(h *HoveredSquare) {
	s.update(func(st *State) { st.HoveredSquare = h })
}

func (s *Store) HoverMove(h *HoveredMove) {
	s.update(func(st *State) { st.HoveredMove = h })
}

// HoverLegend sets the single hovered legend entry; nil clears it.
func (s *Store) HoverLegend(class *domain.PieceClass) {
	if class != nil && !class.Valid() {
		class = nil
	}
	s.update(func(st *State) { st.HighlightedPiece = class })
}

func (s *Store) HoverAnnotation(a *HoveredAnnotation) {
	s.update(func(st *State) { st.HoveredAnnotation = a })
}

// ToggleLock locks class, or unlocks it if already locked. Locking a third
// class evicts the oldest lock.
func (s *Store) ToggleLock(class domain.PieceClass) {
	if !class.Valid() {
		return
	}
	s.update(func(st *State) {
		for i, c := range st.LockedPieces {
			if c == class {
				st.LockedPieces = append(st.LockedPieces[:i:i], st.LockedPieces[i+1:]...)
				return
			}
		}
		st.LockedPieces = capLocks(append(st.LockedPieces, class))
	})
}

// SetLocks replaces the locks, dropping invalid and duplicate classes and
// keeping the most recent two.
func (s *Store) SetLocks(classes []domain.PieceClass) {
	var locks []domain.PieceClass
	for _, c := range classes {
		if !c.Valid() || containsClass(locks, c) {
			continue
		}
		locks = append(locks, c)
	}
	s.update(func(st *State) { st.LockedPieces = capLocks(locks) })
}

func (s *Store) SetCompareMode(on bool) {
	s.update(func(st *State) { st.CompareMode = on })
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
}

func capLocks(locks []domain.PieceClass) []domain.PieceClass {
	if len(locks) <= MaxLocks {
		return locks
	}
	return append([]domain.PieceClass(nil), locks[len(locks)-MaxLocks:]...)
}
