package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pkoster/drawcell/pkg/diagram"
	"github.com/pkoster/drawcell/pkg/errors"
	"github.com/pkoster/drawcell/pkg/mxml"
	"github.com/pkoster/drawcell/pkg/session"
)

// =============================================================================
// Service - Session-Scoped Operation Dispatch
// =============================================================================

// Config holds the service dependencies.
type Config struct {
	Store       session.Store
	TTL         time.Duration // Session lifetime; DefaultTTL when zero
	DefaultName string        // Name for documents created without one
	Logger      *log.Logger   // Defaults to the package-level logger
}

// Service exposes the document operation surface over session state.
//
// Each session holds one active document. Operations address the session;
// the document is swapped wholesale by create-document and set-raw-xml.
// Documents are cached in memory and written back to the session store as
// serialized XML after every mutating operation, so any store backend can
// resume a session after a restart.
type Service struct {
	store       session.Store
	ttl         time.Duration
	defaultName string
	log         *log.Logger

	mu   sync.Mutex
	docs map[string]*diagram.Document

	ops map[string]operation
}

// operation binds a handler to its dispatch metadata.
type operation struct {
	fn       func(ctx context.Context, st *state, raw json.RawMessage) (any, error)
	mutating bool
}

// state is the per-call view of a session handed to operation handlers.
// Handlers replace doc to swap the session's document.
type state struct {
	id  string
	doc *diagram.Document
}

// New creates a service on top of the given session store.
func New(cfg Config) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = session.DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Service{
		store:       cfg.Store,
		ttl:         cfg.TTL,
		defaultName: cfg.DefaultName,
		log:         cfg.Logger,
		docs:        make(map[string]*diagram.Document),
	}
	s.ops = map[string]operation{
		"create-document":  {s.opCreateDocument, true},
		"add-shape":        {s.opAddShape, true},
		"add-connection":   {s.opAddConnection, true},
		"get-cell":         {s.opGetCell, false},
		"update-cell":      {s.opUpdateCell, true},
		"delete-cell":      {s.opDeleteCell, true},
		"list-cells":       {s.opListCells, false},
		"get-raw-xml":      {s.opGetRawXML, false},
		"set-raw-xml":      {s.opSetRawXML, true},
		"apply-operations": {s.opApplyOperations, true},
		"export":           {s.opExport, false},
	}
	return s
}

// Operations returns the names of all dispatchable operations.
func (s *Service) Operations() []string {
	out := make([]string, 0, len(s.ops))
	for name := range s.ops {
		out = append(out, name)
	}
	return out
}

// CreateSession starts a new session with an empty document.
func (s *Service) CreateSession(ctx context.Context, name string) (*session.Session, error) {
	if name == "" {
		name = s.defaultName
	}
	if name != "" {
		if err := errors.ValidateDiagramName(name); err != nil {
			return nil, err
		}
	}

	doc := diagram.New(name)
	xml, err := mxml.Marshal(doc)
	if err != nil {
		return nil, err
	}

	sess := session.New(doc.Name(), string(xml), s.ttl)
	if err := s.store.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}

	s.mu.Lock()
	s.docs[sess.ID] = doc
	s.mu.Unlock()

	s.log.Info("session created", "session", sess.ID, "name", doc.Name())
	return sess, nil
}

// DeleteSession ends a session and discards its document.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.docs, sessionID)
	s.mu.Unlock()

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete session")
	}
	return nil
}

// Dispatch runs one named operation against a session's document.
//
// The result is the operation's JSON-serializable payload. On any error the
// session's document is left in its pre-call state; mutating operations
// persist the updated document to the session store before returning.
func (s *Service) Dispatch(ctx context.Context, sessionID, name string, raw json.RawMessage) (any, error) {
	op, ok := s.ops[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeOperationNotFound, "unknown operation %q", name)
	}

	doc, err := s.document(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	st := &state{id: sessionID, doc: doc}
	result, err := op.fn(ctx, st, raw)
	if err != nil {
		return nil, err
	}

	if op.mutating {
		if err := s.persist(ctx, st); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// document resolves a session's active document, loading and parsing the
// stored XML on cache miss.
func (s *Service) document(ctx context.Context, sessionID string) (*diagram.Document, error) {
	s.mu.Lock()
	doc, ok := s.docs[sessionID]
	s.mu.Unlock()
	if ok {
		return doc, nil
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "no session with id %q", sessionID)
	}

	doc, err = mxml.Parse([]byte(sess.XML))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.docs[sessionID] = doc
	s.mu.Unlock()
	return doc, nil
}

// persist writes the session's document back to the store and refreshes the
// in-memory cache. Dangling connection endpoints are logged, never repaired.
func (s *Service) persist(ctx context.Context, st *state) error {
	for _, inc := range mxml.DanglingEndpoints(st.doc) {
		s.log.Warn("dangling endpoint", "session", st.id, "detail", inc.String())
	}

	xml, err := mxml.Marshal(st.doc)
	if err != nil {
		return err
	}

	sess, err := s.store.Get(ctx, st.id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "load session")
	}
	if sess == nil {
		return errors.New(errors.ErrCodeSessionNotFound, "no session with id %q", st.id)
	}
	sess.Name = st.doc.Name()
	sess.XML = string(xml)
	sess.Touch(s.ttl)
	if err := s.store.Set(ctx, sess); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store session")
	}

	s.mu.Lock()
	s.docs[st.id] = st.doc
	s.mu.Unlock()
	return nil
}

// decodeParams unmarshals operation parameters. An empty body means no
// parameters.
func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode operation parameters")
	}
	return nil
}
