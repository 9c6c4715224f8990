package memoboard

import (
	"context"
	"errors"
	"sync"
	"time"

	apierr "github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

// GatePolicy controls how the board treats mutating calls from an
// unauthenticated session.
type GatePolicy int

const (
	// GateAdvisory lets mutations through; the caller is expected to
	// surface login prompts itself.
	GateAdvisory GatePolicy = iota

	// GateEnforced rejects mutating calls with an Unauthorized error
	// before any store call is made.
	GateEnforced
)

// AuthGate is the slice of Session the board needs.
type AuthGate interface {
	IsAuthenticated() bool
}

type boardEntry struct {
	memo      Memo
	committed *Memo     // last store-confirmed field values; nil while provisional
	comments  []Comment // cached canonical comments; nil until first fetch
}

// Board is the optimistic sync engine. It owns the canonical in-memory
// memo collection (insertion/fetch order) and reconciles it against the
// backing store: drafts appear immediately under provisional
// identifiers, commits promote them to store-confirmed entities, and
// deletes apply locally only after the store agrees.
//
// Two racing edits to the same memo resolve last-write-wins; the board
// does not lock per entity. Callers that need ordering serialize their
// own calls.
type Board struct {
	store  Store
	auth   AuthGate
	policy GatePolicy

	// optimisticComments inserts mutation results directly into the
	// cache instead of re-fetching the list after every write.
	optimisticComments bool

	mu      sync.Mutex
	entries []*boardEntry
	index   map[ID]*boardEntry
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithAuthGate installs the session gate and its enforcement policy.
func WithAuthGate(gate AuthGate, policy GatePolicy) BoardOption {
	return func(b *Board) {
		b.auth = gate
		b.policy = policy
	}
}

// WithOptimisticComments switches comment mutations from refresh-on-write
// to optimistic insertion. Refresh-on-write is the default: comment
// identifiers and timestamps are store-assigned, so re-fetching keeps the
// cache canonical without promotion bookkeeping.
func WithOptimisticComments() BoardOption {
	return func(b *Board) { b.optimisticComments = true }
}

// NewBoard constructs an empty board over the given store.
func NewBoard(store Store, opts ...BoardOption) *Board {
	b := &Board{store: store, index: make(map[ID]*boardEntry)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// gateCheck applies the configured policy to a store-mutating call.
func (b *Board) gateCheck(op string) error {
	if b.policy == GateEnforced && b.auth != nil && !b.auth.IsAuthenticated() {
		return apierr.New(op, apierr.Unauthorized, errors.New("login required"))
	}
	return nil
}

// Memos returns the collection in order.
func (b *Board) Memos() []Memo {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Memo, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.memo)
	}
	return out
}

// Get returns one memo by identifier.
func (b *Board) Get(id ID) (Memo, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.index[id]
	if !ok {
		return Memo{}, false
	}
	return e.memo, true
}

// Refresh replaces the board contents with the store's current
// collection. Unsaved provisional drafts survive and keep their relative
// order after the fetched memos. Comment caches are dropped; they are
// re-fetched on demand.
func (b *Board) Refresh(ctx context.Context) error {
	fetched, err := b.store.ListMemos(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var drafts []*boardEntry
	for _, e := range b.entries {
		if e.memo.Provisional {
			drafts = append(drafts, e)
		}
	}

	b.entries = b.entries[:0]
	b.index = make(map[ID]*boardEntry, len(fetched)+len(drafts))
	for _, m := range fetched {
		committed := m
		e := &boardEntry{memo: m, committed: &committed}
		b.entries = append(b.entries, e)
		b.index[m.ID] = e
	}
	for _, e := range drafts {
		b.entries = append(b.entries, e)
		b.index[e.memo.ID] = e
	}
	return nil
}

// CreateDraft allocates a provisional memo and appends it to the
// collection immediately. No store call is made until Commit.
func (b *Board) CreateDraft() Memo {
	m := Memo{
		ID:          types.NewProvisionalID(),
		Date:        time.Now().UTC(),
		Provisional: true,
	}
	e := &boardEntry{memo: m}
	b.mu.Lock()
	b.entries = append(b.entries, e)
	b.index[m.ID] = e
	b.mu.Unlock()
	return m
}

// Commit validates and persists the draft fields for the memo with the
// given identifier. A provisional memo is created in the store and, on
// success, swapped for the confirmed entity in one step: after Commit
// returns, exactly one entry with the permanent identifier exists and
// none with the temporary one. A committed memo is updated in place,
// identifier held fixed.
//
// Validation failures and gate rejections leave the collection untouched
// and make no store call. If the entry was removed while the store call
// was in flight, the response is discarded rather than applied to stale
// state; the store-confirmed memo is still returned so the caller can
// Refresh.
func (b *Board) Commit(ctx context.Context, id ID, draft MemoDraft) (Memo, error) {
	const op = "commit"
	if err := types.ValidateTitle(draft.Title); err != nil {
		syncCommitsTotal.WithLabelValues("validation").Inc()
		return Memo{}, apierr.New(op, apierr.Validation, err)
	}
	if err := b.gateCheck(op); err != nil {
		return Memo{}, err
	}

	b.mu.Lock()
	e, ok := b.index[id]
	if !ok {
		b.mu.Unlock()
		return Memo{}, apierr.NotFoundf(op, "memo %s is not on the board", id)
	}
	provisional := e.memo.Provisional
	b.mu.Unlock()

	if provisional {
		confirmed, err := b.store.CreateMemo(ctx, draft)
		if err != nil {
			syncCommitsTotal.WithLabelValues("error").Inc()
			return Memo{}, err
		}

		b.mu.Lock()
		defer b.mu.Unlock()
		e, ok := b.index[id]
		if !ok {
			// Draft discarded mid-flight; drop the response.
			syncCommitsTotal.WithLabelValues("stale").Inc()
			return *confirmed, nil
		}
		delete(b.index, id)
		e.memo = *confirmed
		snap := *confirmed
		e.committed = &snap
		b.index[e.memo.ID] = e
		syncCommitsTotal.WithLabelValues("created").Inc()
		return e.memo, nil
	}

	updated, err := b.store.UpdateMemo(ctx, id, draft)
	if err != nil {
		syncCommitsTotal.WithLabelValues("error").Inc()
		return Memo{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok = b.index[id]
	if !ok {
		syncCommitsTotal.WithLabelValues("stale").Inc()
		return *updated, nil
	}
	e.memo = *updated
	snap := *updated
	e.committed = &snap
	syncCommitsTotal.WithLabelValues("updated").Inc()
	return e.memo, nil
}

// Discard cancels local edits. A provisional memo is removed outright
// with no store call. A committed memo has its last store-confirmed
// field values restored; the store is not contacted either way.
func (b *Board) Discard(id ID) (Memo, error) {
	const op = "discard"
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.index[id]
	if !ok {
		return Memo{}, apierr.NotFoundf(op, "memo %s is not on the board", id)
	}
	if e.memo.Provisional {
		b.removeLocked(id)
		return e.memo, nil
	}
	if e.committed != nil {
		e.memo = *e.committed
	}
	return e.memo, nil
}

// SetDraftFields stages edits on a memo without contacting the store.
// The staged values are what Discard rolls back.
func (b *Board) SetDraftFields(id ID, draft MemoDraft) error {
	const op = "edit"
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.index[id]
	if !ok {
		return apierr.NotFoundf(op, "memo %s is not on the board", id)
	}
	e.memo.Title = draft.Title
	e.memo.Content = draft.Content
	if draft.Author != "" {
		e.memo.Author = draft.Author
	}
	return nil
}

// Remove deletes a memo. Provisional memos vanish locally with no store
// call. Committed memos require confirmation: if confirm is non-nil and
// returns false the memo is kept and Remove returns nil. Otherwise the
// store delete runs first and the local entry is removed only after it
// succeeds — delete is not optimistic; a failed call leaves the
// collection unchanged.
func (b *Board) Remove(ctx context.Context, id ID, confirm func() bool) error {
	const op = "remove"
	b.mu.Lock()
	e, ok := b.index[id]
	if !ok {
		b.mu.Unlock()
		return apierr.NotFoundf(op, "memo %s is not on the board", id)
	}
	if e.memo.Provisional {
		b.removeLocked(id)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	if err := b.gateCheck(op); err != nil {
		return err
	}
	if confirm != nil && !confirm() {
		return nil
	}
	if err := b.store.DeleteMemo(ctx, id); err != nil {
		return err
	}

	b.mu.Lock()
	b.removeLocked(id)
	b.mu.Unlock()
	return nil
}

// removeLocked splices the entry out of the ordered list and the index.
// Caller holds b.mu.
func (b *Board) removeLocked(id ID) {
	delete(b.index, id)
	for i, e := range b.entries {
		if e.memo.ID == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// Comments fetches the comment list for a memo from the store and caches
// it. Provisional memos have no store-side comments and return an empty
// list without a store call.
func (b *Board) Comments(ctx context.Context, memoID ID) ([]Comment, error) {
	b.mu.Lock()
	e, ok := b.index[memoID]
	if ok && e.memo.Provisional {
		b.mu.Unlock()
		return nil, nil
	}
	b.mu.Unlock()

	list, err := b.store.ListComments(ctx, memoID)
	if err != nil {
		return nil, err
	}
	b.storeComments(memoID, list)
	return append([]Comment(nil), list...), nil
}

// CachedComments returns the last fetched list without a store call.
func (b *Board) CachedComments(memoID ID) []Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.index[memoID]
	if !ok {
		return nil
	}
	return append([]Comment(nil), e.comments...)
}

// AddComment persists a new comment and returns the updated list. In the
// default refresh-on-write mode the list is re-fetched from the store so
// identifiers and timestamps are canonical; in optimistic mode the
// confirmed comment is appended to the cache directly.
func (b *Board) AddComment(ctx context.Context, memoID ID, draft CommentDraft) ([]Comment, error) {
	const op = "addComment"
	if err := types.ValidateBody(draft.Text); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := b.gateCheck(op); err != nil {
		return nil, err
	}

	added, err := b.store.AddComment(ctx, memoID, draft)
	if err != nil {
		return nil, err
	}

	if b.optimisticComments {
		b.mu.Lock()
		defer b.mu.Unlock()
		e, ok := b.index[memoID]
		if !ok {
			return []Comment{*added}, nil
		}
		e.comments = append(e.comments, *added)
		return append([]Comment(nil), e.comments...), nil
	}
	return b.refetchComments(ctx, memoID)
}

// UpdateComment edits a comment body and returns the updated list.
func (b *Board) UpdateComment(ctx context.Context, memoID, commentID ID, text string) ([]Comment, error) {
	const op = "updateComment"
	if err := types.ValidateBody(text); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := b.gateCheck(op); err != nil {
		return nil, err
	}

	if err := b.store.UpdateComment(ctx, memoID, commentID, text); err != nil {
		return nil, err
	}

	if b.optimisticComments {
		b.mu.Lock()
		defer b.mu.Unlock()
		e, ok := b.index[memoID]
		if !ok {
			return nil, nil
		}
		for i := range e.comments {
			if e.comments[i].ID == commentID {
				e.comments[i].Text = text
				e.comments[i].Content = text
				e.comments[i].Date = time.Now().UTC()
				break
			}
		}
		return append([]Comment(nil), e.comments...), nil
	}
	return b.refetchComments(ctx, memoID)
}

// DeleteComment removes a comment and returns the updated list.
func (b *Board) DeleteComment(ctx context.Context, memoID, commentID ID) ([]Comment, error) {
	const op = "deleteComment"
	if err := b.gateCheck(op); err != nil {
		return nil, err
	}

	if err := b.store.DeleteComment(ctx, memoID, commentID); err != nil {
		return nil, err
	}

	if b.optimisticComments {
		b.mu.Lock()
		defer b.mu.Unlock()
		e, ok := b.index[memoID]
		if !ok {
			return nil, nil
		}
		for i := range e.comments {
			if e.comments[i].ID == commentID {
				e.comments = append(e.comments[:i], e.comments[i+1:]...)
				break
			}
		}
		return append([]Comment(nil), e.comments...), nil
	}
	return b.refetchComments(ctx, memoID)
}

// refetchComments implements the refresh-on-write half of the comment
// flow: the mutation has already succeeded, the cache is rebuilt from a
// fresh fetch.
func (b *Board) refetchComments(ctx context.Context, memoID ID) ([]Comment, error) {
	list, err := b.store.ListComments(ctx, memoID)
	if err != nil {
		return nil, err
	}
	b.storeComments(memoID, list)
	return append([]Comment(nil), list...), nil
}

// storeComments caches a fetched list if the memo is still on the board;
// a response for a memo that vanished mid-flight is discarded.
func (b *Board) storeComments(memoID ID, list []Comment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e, ok := b.index[memoID]; ok {
		e.comments = list
	}
}
