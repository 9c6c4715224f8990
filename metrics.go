package memoboard

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOpsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "memoboard",
		Subsystem: "store",
		Name:      "ops_total",
		Help:      "Store operations by backend, operation and outcome.",
	}, []string{"backend", "op", "outcome"})

	syncCommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "memoboard",
		Subsystem: "sync",
		Name:      "commits_total",
		Help:      "Board commits by outcome (created, updated, stale, validation, error).",
	}, []string{"outcome"})

	sessionInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "memoboard",
		Subsystem: "session",
		Name:      "invalidations_total",
		Help:      "Sessions cleared after the backend rejected their token.",
	})
)

// instrumentedStore counts every operation against the wrapped store.
type instrumentedStore struct {
	backend Backend
	next    Store
}

// instrumentStore wraps a store with per-operation counters.
func instrumentStore(backend Backend, next Store) Store {
	return &instrumentedStore{backend: backend, next: next}
}

func (s *instrumentedStore) count(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	storeOpsTotal.WithLabelValues(string(s.backend), op, outcome).Inc()
}

func (s *instrumentedStore) ListMemos(ctx context.Context) ([]Memo, error) {
	out, err := s.next.ListMemos(ctx)
	s.count("listMemos", err)
	return out, err
}

func (s *instrumentedStore) GetMemo(ctx context.Context, id ID) (*Memo, error) {
	out, err := s.next.GetMemo(ctx, id)
	s.count("getMemo", err)
	return out, err
}

func (s *instrumentedStore) CreateMemo(ctx context.Context, draft MemoDraft) (*Memo, error) {
	out, err := s.next.CreateMemo(ctx, draft)
	s.count("createMemo", err)
	return out, err
}

func (s *instrumentedStore) UpdateMemo(ctx context.Context, id ID, draft MemoDraft) (*Memo, error) {
	out, err := s.next.UpdateMemo(ctx, id, draft)
	s.count("updateMemo", err)
	return out, err
}

func (s *instrumentedStore) DeleteMemo(ctx context.Context, id ID) error {
	err := s.next.DeleteMemo(ctx, id)
	s.count("deleteMemo", err)
	return err
}

func (s *instrumentedStore) ListComments(ctx context.Context, memoID ID) ([]Comment, error) {
	out, err := s.next.ListComments(ctx, memoID)
	s.count("listComments", err)
	return out, err
}

func (s *instrumentedStore) AddComment(ctx context.Context, memoID ID, draft CommentDraft) (*Comment, error) {
	out, err := s.next.AddComment(ctx, memoID, draft)
	s.count("addComment", err)
	return out, err
}

func (s *instrumentedStore) UpdateComment(ctx context.Context, memoID, commentID ID, text string) error {
	err := s.next.UpdateComment(ctx, memoID, commentID, text)
	s.count("updateComment", err)
	return err
}

func (s *instrumentedStore) DeleteComment(ctx context.Context, memoID, commentID ID) error {
	err := s.next.DeleteComment(ctx, memoID, commentID)
	s.count("deleteComment", err)
	return err
}
