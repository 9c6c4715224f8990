package memoboard

import (
	"context"
	"sync"
	"time"

	apierr "github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

// defaultMockLatency simulates network conditions for demos and tests.
const defaultMockLatency = 300 * time.Millisecond

// MockStore is the ephemeral Store implementation: the same operation
// contract as the remote and local adapters, in memory only, with a
// fixed artificial latency per call.
type MockStore struct {
	latency time.Duration

	mu    sync.Mutex
	memos []types.RawMemo
}

var _ Store = (*MockStore)(nil)

// MockOption configures a MockStore.
type MockOption func(*MockStore)

// WithMockLatency overrides the per-call artificial delay. Zero disables
// it, which unit tests rely on.
func WithMockLatency(d time.Duration) MockOption {
	return func(m *MockStore) { m.latency = d }
}

// NewMockStore constructs the mock adapter seeded with the built-in
// dataset.
func NewMockStore(opts ...MockOption) *MockStore {
	m := &MockStore{latency: defaultMockLatency, memos: seedMemos()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// delay simulates one network round trip, honouring cancellation.
func (m *MockStore) delay(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ListMemos returns the normalized collection.
func (m *MockStore) ListMemos(ctx context.Context) ([]Memo, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	memos := make([]Memo, 0, len(m.memos))
	for i := range m.memos {
		memos = append(memos, types.NormalizeMemo(&m.memos[i]))
	}
	return memos, nil
}

// GetMemo returns one normalized memo.
func (m *MockStore) GetMemo(ctx context.Context, id ID) (*Memo, error) {
	const op = "getMemo"
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findRawMemo(m.memos, id)
	if i < 0 {
		return nil, apierr.NotFoundf(op, "memo %s not found", id)
	}
	memo := types.NormalizeMemo(&m.memos[i])
	return &memo, nil
}

// CreateMemo appends a new memo and assigns a permanent identifier.
func (m *MockStore) CreateMemo(ctx context.Context, draft MemoDraft) (*Memo, error) {
	const op = "createMemo"
	if err := types.ValidateTitle(draft.Title); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	author := draft.Author
	if author == "" {
		author = types.AnonymousAuthor
	}
	stored := types.RawMemo{
		ID:        newLocalID(),
		Title:     draft.Title,
		Content:   draft.Content,
		Author:    author,
		CreatedAt: nowStamp(),
	}
	m.mu.Lock()
	m.memos = append(m.memos, stored)
	m.mu.Unlock()
	memo := types.NormalizeMemo(&stored)
	return &memo, nil
}

// UpdateMemo rewrites the mutable fields of an existing memo.
func (m *MockStore) UpdateMemo(ctx context.Context, id ID, draft MemoDraft) (*Memo, error) {
	const op = "updateMemo"
	if err := types.ValidatePermanentID(id, "memoId"); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := types.ValidateTitle(draft.Title); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findRawMemo(m.memos, id)
	if i < 0 {
		return nil, apierr.NotFoundf(op, "memo %s not found", id)
	}
	m.memos[i].Title = draft.Title
	m.memos[i].Content = draft.Content
	if draft.Author != "" {
		m.memos[i].Author = draft.Author
	}
	m.memos[i].UpdatedAt = nowStamp()
	memo := types.NormalizeMemo(&m.memos[i])
	memo.ID = id
	return &memo, nil
}

// DeleteMemo removes a memo.
func (m *MockStore) DeleteMemo(ctx context.Context, id ID) error {
	const op = "deleteMemo"
	if err := types.ValidatePermanentID(id, "memoId"); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	if err := m.delay(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findRawMemo(m.memos, id)
	if i < 0 {
		return apierr.NotFoundf(op, "memo %s not found", id)
	}
	m.memos = append(m.memos[:i], m.memos[i+1:]...)
	return nil
}

// ListComments returns the normalized comments of one memo.
func (m *MockStore) ListComments(ctx context.Context, memoID ID) ([]Comment, error) {
	const op = "listComments"
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findRawMemo(m.memos, memoID)
	if i < 0 {
		return nil, apierr.NotFoundf(op, "memo %s not found", memoID)
	}
	return types.NormalizeComments(memoID, m.memos[i].Comments), nil
}

// AddComment appends a comment to a memo.
func (m *MockStore) AddComment(ctx context.Context, memoID ID, draft CommentDraft) (*Comment, error) {
	const op = "addComment"
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := types.ValidateBody(draft.Text); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := m.delay(ctx); err != nil {
		return nil, err
	}
	author := draft.Author
	if author == "" {
		author = types.AnonymousAuthor
	}
	stored := types.RawComment{
		ID:        newLocalID(),
		Content:   draft.Text,
		Author:    author,
		CreatedAt: nowStamp(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findRawMemo(m.memos, memoID)
	if i < 0 {
		return nil, apierr.NotFoundf(op, "memo %s not found", memoID)
	}
	m.memos[i].Comments = append(m.memos[i].Comments, stored)
	c := types.NormalizeComment(&stored)
	c.MemoID = memoID
	return &c, nil
}

// UpdateComment replaces a comment body.
func (m *MockStore) UpdateComment(ctx context.Context, memoID, commentID ID, text string) error {
	const op = "updateComment"
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	if err := types.ValidateBody(text); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	if err := m.delay(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findRawMemo(m.memos, memoID)
	if i < 0 {
		return apierr.NotFoundf(op, "memo %s not found", memoID)
	}
	for j := range m.memos[i].Comments {
		if m.memos[i].Comments[j].ID == commentID {
			m.memos[i].Comments[j].Content = text
			m.memos[i].Comments[j].Text = ""
			m.memos[i].Comments[j].UpdatedAt = nowStamp()
			return nil
		}
	}
	return apierr.NotFoundf(op, "comment %s not found on memo %s", commentID, memoID)
}

// DeleteComment removes a comment from a memo.
func (m *MockStore) DeleteComment(ctx context.Context, memoID, commentID ID) error {
	const op = "deleteComment"
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	if err := m.delay(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := findRawMemo(m.memos, memoID)
	if i < 0 {
		return apierr.NotFoundf(op, "memo %s not found", memoID)
	}
	comments := m.memos[i].Comments
	for j := range comments {
		if comments[j].ID == commentID {
			m.memos[i].Comments = append(comments[:j], comments[j+1:]...)
			return nil
		}
	}
	return apierr.NotFoundf(op, "comment %s not found on memo %s", commentID, memoID)
}
