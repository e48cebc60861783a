package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"menu-digitizer/internal/export"
	"menu-digitizer/internal/model"
	"menu-digitizer/internal/refine"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type session struct {
	id         string
	store      *refine.Store
	extracting atomic.Bool
	lastSeen   atomic.Int64
}

// sessionService implements SessionService.
type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	extractor ExtractionService
	images    ImageService
	exporter  export.Exporter

	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSessionService creates a session registry. Sessions idle for longer
// than ttl are evicted in the background; a zero ttl keeps them until
// they are deleted.
func NewSessionService(
	extractor ExtractionService,
	images ImageService,
	exporter export.Exporter,
	ttl time.Duration,
	logger zerolog.Logger,
) SessionService {
	s := &sessionService{
		sessions:  make(map[string]*session),
		extractor: extractor,
		images:    images,
		exporter:  exporter,
		ttl:       ttl,
		now:       time.Now,
		logger:    logger.With().Str("service", "session").Logger(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	if ttl > 0 {
		go s.janitor(max(min(ttl/2, time.Minute), time.Second))
	} else {
		close(s.done)
	}
	return s
}

func (s *sessionService) janitor(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

// evictIdle drops sessions not touched within the ttl.
func (s *sessionService) evictIdle() int {
	cutoff := s.now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() < cutoff {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Info().Int("evicted", evicted).Int("remaining", len(s.sessions)).Msg("idle sessions evicted")
	}
	return evicted
}

// Close stops the janitor and drops all sessions.
func (s *sessionService) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done

		s.mu.Lock()
		s.sessions = make(map[string]*session)
		s.mu.Unlock()
	})
	return nil
}

// Create starts a new session at the upload step.
func (s *sessionService) Create(ctx context.Context) (*model.SessionState, error) {
	id := uuid.New().String()
	sess := &session{
		id:    id,
		store: refine.NewStore(s.logger.With().Str("session_id", id).Logger()),
	}
	sess.lastSeen.Store(s.now().UnixNano())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info().Str("session_id", sess.id).Msg("session created")
	return stateOf(sess), nil
}

func (s *sessionService) get(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	sess.lastSeen.Store(s.now().UnixNano())
	return sess, nil
}

// Get returns the current state of a session.
func (s *sessionService) Get(ctx context.Context, id string) (*model.SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return stateOf(sess), nil
}

// Delete discards a session.
func (s *sessionService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.logger.Info().Str("session_id", id).Msg("session deleted")
	return nil
}

// mutate runs fn against the session's store and returns the new state.
func (s *sessionService) mutate(id string, fn func(st *refine.Store) error) (*model.SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess.store); err != nil {
		return nil, err
	}
	return stateOf(sess), nil
}

func (s *sessionService) SetStep(ctx context.Context, id string, step model.Step) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.SetStep(step) })
}

// UploadImage replaces the session's menu photo. It is refused while an
// extraction of the previous photo is running.
func (s *sessionService) UploadImage(ctx context.Context, id string, img *model.UploadedImage) (*model.SessionState, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, model.ErrImageRequired
	}
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if sess.extracting.Load() {
		return nil, model.ErrExtractionInProgress
	}

	sess.store.SetImage(img)
	s.logger.Info().
		Str("session_id", id).
		Str("file_name", img.FileName).
		Int("file_size", len(img.Data)).
		Msg("menu image uploaded")
	return stateOf(sess), nil
}

// Extract runs the extraction on the session's photo and stores the result.
// Only one extraction per session may run at a time.
func (s *sessionService) Extract(ctx context.Context, id, additionalText string) (*model.SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	img := sess.store.Snapshot().Image
	if img == nil {
		return nil, model.ErrImageRequired
	}

	if !sess.extracting.CompareAndSwap(false, true) {
		return nil, model.ErrExtractionInProgress
	}
	defer sess.extracting.Store(false)

	resp, err := s.extractor.Extract(ctx, ExtractInput{
		Image:          img.Data,
		FileName:       img.FileName,
		MimeType:       img.MimeType,
		AdditionalText: additionalText,
	})
	if err != nil {
		return nil, err
	}

	sess.store.SetExtracted(*resp)
	return stateOf(sess), nil
}

func (s *sessionService) Reset(ctx context.Context, id string) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.Reset() })
}

func (s *sessionService) AddCategory(ctx context.Context, id string) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.AddCategory() })
}

func (s *sessionService) RenameCategory(ctx context.Context, id string, c int, name string) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.RenameCategory(c, name) })
}

func (s *sessionService) DeleteCategory(ctx context.Context, id string, c int) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.DeleteCategory(c) })
}

func (s *sessionService) AddItem(ctx context.Context, id string, c int) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.AddItem(c) })
}

// UpdateItem sets one item field from a decoded JSON value.
func (s *sessionService) UpdateItem(ctx context.Context, id string, c, i int, field string, value any) (*model.SessionState, error) {
	typed, err := fieldValue(field, value)
	if err != nil {
		return nil, err
	}
	return s.mutate(id, func(st *refine.Store) error { return st.UpdateItem(c, i, field, typed) })
}

func (s *sessionService) DeleteItem(ctx context.Context, id string, c, i int) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.DeleteItem(c, i) })
}

// GenerateItemImage creates a picture for item (c, i) from its current
// name and attaches it to whatever item sits at (c, i) when it arrives.
func (s *sessionService) GenerateItemImage(ctx context.Context, id string, c, i int, additionalPrompt *string) (*model.SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	item, err := sess.store.Snapshot().Item(c, i)
	if err != nil {
		return nil, err
	}

	resp, err := s.images.Generate(ctx, &model.ImageRequest{
		ItemName:         item.Name,
		AdditionalPrompt: additionalPrompt,
	})
	if err != nil {
		return nil, err
	}

	if err := sess.store.SetItemImage(c, i, resp.Image); err != nil {
		return nil, err
	}
	return stateOf(sess), nil
}

func (s *sessionService) Move(ctx context.Context, id string, from, to model.ItemRef) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error { return st.Move(from, to) })
}

// BeginDrag returns the overlay copy of the dragged item.
func (s *sessionService) BeginDrag(ctx context.Context, id, activeID string) (*model.MenuItem, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	overlay, err := sess.store.BeginDrag(activeID)
	if err != nil {
		return nil, err
	}
	return &overlay, nil
}

func (s *sessionService) EndDrag(ctx context.Context, id, overID string) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error {
		_, err := st.EndDrag(overID)
		return err
	})
}

func (s *sessionService) CancelDrag(ctx context.Context, id string) (*model.SessionState, error) {
	return s.mutate(id, func(st *refine.Store) error {
		st.CancelDrag()
		return nil
	})
}

// Export writes the session's refined menu to the exporter.
func (s *sessionService) Export(ctx context.Context, id string) (*model.ExportResult, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	snap := sess.store.Snapshot()
	if snap.Extracted == nil {
		return nil, model.ErrNoMenuData
	}

	doc, err := snap.Extracted.Data.MarshalIndent()
	if err != nil {
		return nil, fmt.Errorf("failed to encode menu: %w", err)
	}

	at := s.now()
	location, err := s.exporter.Export(ctx, export.Key(id, at), doc)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("menu export failed")
		return nil, fmt.Errorf("%w: %w", model.ErrExportFailed, err)
	}

	s.logger.Info().
		Str("session_id", id).
		Str("location", location).
		Int("items", snap.Extracted.Data.ItemCount()).
		Msg("menu exported")

	return &model.ExportResult{
		Location:   location,
		Format:     "json",
		ExportedAt: at,
	}, nil
}

func stateOf(sess *session) *model.SessionState {
	snap := sess.store.Snapshot()
	out := &model.SessionState{
		ID:        sess.id,
		Revision:  snap.Revision,
		Step:      snap.Step,
		Extracted: snap.Extracted,
		UpdatedAt: snap.UpdatedAt,
	}
	if snap.Image != nil {
		meta := snap.Image.Metadata()
		out.Image = &meta
	}
	return out
}

// fieldValue converts a JSON-decoded value to the type the item field
// holds. Description, image and price accept null.
func fieldValue(field string, value any) (any, error) {
	switch field {
	case refine.FieldName:
		v, ok := value.(string)
		if !ok {
			return nil, model.ErrInvalidField
		}
		return v, nil
	case refine.FieldDescription, refine.FieldImage:
		if value == nil {
			return (*string)(nil), nil
		}
		v, ok := value.(string)
		if !ok {
			return nil, model.ErrInvalidField
		}
		return model.String(v), nil
	case refine.FieldPrice:
		if value == nil {
			return (*float64)(nil), nil
		}
		v, ok := value.(float64)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, model.ErrInvalidField
		}
		return model.Float(v), nil
	}
	return nil, model.ErrInvalidField
}
