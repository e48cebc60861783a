package refine

import (
	"sync"
	"sync/atomic"
	"time"

	"menu-digitizer/internal/model"

	"github.com/rs/zerolog"
)

// State is an immutable snapshot of a session's refinement state.
// A published State is never modified; every change publishes a new one.
type State struct {
	Revision  uint64
	Step      model.Step
	Image     *model.UploadedImage
	Extracted *model.ExtractionResponse
	UpdatedAt time.Time
}

// Item returns item (c, i) of the current menu.
func (st *State) Item(c, i int) (model.MenuItem, error) {
	if st.Extracted == nil {
		return model.MenuItem{}, model.ErrNoMenuData
	}
	if err := checkItem(st.Extracted.Data, c, i); err != nil {
		return model.MenuItem{}, err
	}
	return st.Extracted.Data.Categories[c].Items[i].Clone(), nil
}

// Store holds the live refinement state of one session.
//
// Readers call Snapshot and never block. Writers are serialised and each
// one publishes a complete new State, so no observer sees an intermediate
// result.
type Store struct {
	mu       sync.Mutex
	state    atomic.Pointer[State]
	original *model.ExtractedMenuData
	drag     *Drag
	subs     map[int]func(*State)
	nextSub  int
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStore creates an empty store at the upload step.
func NewStore(logger zerolog.Logger) *Store {
	s := &Store{
		subs:   make(map[int]func(*State)),
		logger: logger.With().Str("component", "refine-store").Logger(),
		now:    time.Now,
	}
	s.state.Store(&State{Step: model.StepUpload, UpdatedAt: s.now()})
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() *State {
	return s.state.Load()
}

// Subscribe registers fn to be called with every newly published state.
// fn runs while the store is locked and must not call store mutators.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(*State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// publish must be called with mu held.
func (s *Store) publish(next State) *State {
	cur := s.state.Load()
	next.Revision = cur.Revision + 1
	next.UpdatedAt = s.now()
	ns := &next
	s.state.Store(ns)

	s.logger.Debug().
		Uint64("revision", ns.Revision).
		Str("step", string(ns.Step)).
		Msg("state published")

	for _, fn := range s.subs {
		fn(ns)
	}
	return ns
}

// SetStep moves the session to step.
func (s *Store) SetStep(step model.Step) error {
	if !step.Valid() {
		return model.ErrInvalidStep
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.state.Load()
	next.Step = step
	s.publish(next)
	return nil
}

// SetImage stores a newly uploaded menu image, discards any menu
// extracted from a previous image and moves the session to the
// process step.
func (s *Store) SetImage(img *model.UploadedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.state.Load()
	next.Image = img
	next.Extracted = nil
	next.Step = model.StepProcess
	s.original = nil
	s.drag = nil
	s.publish(next)
}

// SetExtracted replaces the menu with a fresh extraction result. The
// result is also kept as the baseline that Reset returns to.
func (s *Store) SetExtracted(resp model.ExtractionResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	baseline := resp.Data.Clone()
	s.original = &baseline
	s.drag = nil

	resp.Data = resp.Data.Clone()
	next := *s.state.Load()
	next.Extracted = &resp
	s.publish(next)
}

// Reset discards all edits made since the last extraction.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return model.ErrNoMenuData
	}
	s.drag = nil
	return s.replaceData(s.original.Clone())
}

// update applies fn to the current menu and publishes the result.
func (s *Store) update(fn func(model.ExtractedMenuData) (model.ExtractedMenuData, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	if cur.Extracted == nil {
		return model.ErrNoMenuData
	}

	data, err := fn(cur.Extracted.Data)
	if err != nil {
		return err
	}
	return s.replaceData(data)
}

// replaceData must be called with mu held.
func (s *Store) replaceData(data model.ExtractedMenuData) error {
	cur := s.state.Load()
	if cur.Extracted == nil {
		return model.ErrNoMenuData
	}

	resp := *cur.Extracted
	resp.Data = data
	next := *cur
	next.Extracted = &resp
	s.publish(next)
	return nil
}

// RenameCategory sets the name of category c.
func (s *Store) RenameCategory(c int, name string) error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		if err := checkCategory(d, c); err != nil {
			return d, err
		}
		return RenameCategory(d, c, name), nil
	})
}

// DeleteCategory removes category c.
func (s *Store) DeleteCategory(c int) error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		if err := checkCategory(d, c); err != nil {
			return d, err
		}
		return DeleteCategory(d, c), nil
	})
}

// AddCategory appends a placeholder category.
func (s *Store) AddCategory() error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		return AddCategory(d), nil
	})
}

// UpdateItem sets one field of item (c, i).
func (s *Store) UpdateItem(c, i int, field string, value any) error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		if err := checkItem(d, c, i); err != nil {
			return d, err
		}
		return UpdateItem(d, c, i, field, value)
	})
}

// DeleteItem removes item (c, i).
func (s *Store) DeleteItem(c, i int) error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		if err := checkItem(d, c, i); err != nil {
			return d, err
		}
		return DeleteItem(d, c, i), nil
	})
}

// AddItem appends a placeholder item to category c.
func (s *Store) AddItem(c int) error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		if err := checkCategory(d, c); err != nil {
			return d, err
		}
		return AddItem(d, c), nil
	})
}

// SetItemImage attaches an image to item (c, i).
func (s *Store) SetItemImage(c, i int, image string) error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		if err := checkItem(d, c, i); err != nil {
			return d, err
		}
		return SetItemImage(d, c, i, image), nil
	})
}

// Move moves the item at from to position to.
func (s *Store) Move(from, to model.ItemRef) error {
	return s.update(func(d model.ExtractedMenuData) (model.ExtractedMenuData, error) {
		if err := checkMove(d, from, to); err != nil {
			return d, err
		}
		return MoveItem(d, from, to, d.Categories[from.CategoryIndex].Items[from.ItemIndex]), nil
	})
}

// BeginDrag starts dragging the item identified by activeID. It records
// the item's value, its origin and the current revision, and returns the
// overlay copy to display during the gesture.
func (s *Store) BeginDrag(activeID string) (model.MenuItem, error) {
	origin, err := ParseItemID(activeID)
	if err != nil {
		return model.MenuItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.state.Load()
	if cur.Extracted == nil {
		return model.MenuItem{}, model.ErrNoMenuData
	}
	data := cur.Extracted.Data
	if err := checkItem(data, origin.CategoryIndex, origin.ItemIndex); err != nil {
		return model.MenuItem{}, err
	}

	s.drag = &Drag{
		Origin:   origin,
		Item:     data.Categories[origin.CategoryIndex].Items[origin.ItemIndex].Clone(),
		Revision: cur.Revision,
	}
	return s.drag.Overlay(), nil
}

// ActiveDrag returns the in-progress drag, if any.
func (s *Store) ActiveDrag() (Drag, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drag == nil {
		return Drag{}, false
	}
	return *s.drag, true
}

// CancelDrag abandons the in-progress drag without changing the menu.
func (s *Store) CancelDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = nil
}

// EndDrag drops the dragged item onto the position identified by overID.
// It reports whether the menu changed. Dropping with no drag in progress,
// with no target, or onto the origin itself changes nothing.
//
// A drop is rejected with ErrStaleDrag when any other change was
// published after the drag began, since the positions the gesture was
// rendered from no longer describe the current menu.
func (s *Store) EndDrag(overID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drag := s.drag
	s.drag = nil
	if drag == nil || overID == "" {
		return false, nil
	}

	target, err := ParseItemID(overID)
	if err != nil {
		return false, err
	}

	cur := s.state.Load()
	if cur.Extracted == nil {
		return false, model.ErrNoMenuData
	}
	if cur.Revision != drag.Revision {
		s.logger.Warn().
			Uint64("drag_revision", drag.Revision).
			Uint64("current_revision", cur.Revision).
			Msg("rejecting drop on a changed menu")
		return false, model.ErrStaleDrag
	}
	if drag.Origin == target {
		return false, nil
	}

	data := cur.Extracted.Data
	if err := checkMove(data, drag.Origin, target); err != nil {
		return false, err
	}

	if err := s.replaceData(MoveItem(data, drag.Origin, target, drag.Item)); err != nil {
		return false, err
	}
	return true, nil
}

func checkCategory(d model.ExtractedMenuData, c int) error {
	if c < 0 || c >= len(d.Categories) {
		return model.ErrInvalidIndex
	}
	return nil
}

func checkItem(d model.ExtractedMenuData, c, i int) error {
	if err := checkCategory(d, c); err != nil {
		return err
	}
	if i < 0 || i >= len(d.Categories[c].Items) {
		return model.ErrInvalidIndex
	}
	return nil
}

// checkMove allows a destination one past the last item so that items
// can be appended to a category.
func checkMove(d model.ExtractedMenuData, from, to model.ItemRef) error {
	if err := checkItem(d, from.CategoryIndex, from.ItemIndex); err != nil {
		return err
	}
	if err := checkCategory(d, to.CategoryIndex); err != nil {
		return err
	}
	if to.ItemIndex < 0 || to.ItemIndex > len(d.Categories[to.CategoryIndex].Items) {
		return model.ErrInvalidIndex
	}
	return nil
}
