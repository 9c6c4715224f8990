package memoboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeStore counts calls and serves canned data so board behaviour can
// be asserted without a backend.
type fakeStore struct {
	mu       sync.Mutex
	memos    []Memo
	comments map[ID][]Comment
	nextID   int

	calls map[string]int
	fail  error

	// onCreate runs inside CreateMemo before it returns, to exercise
	// in-flight races.
	onCreate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		comments: make(map[ID][]Comment),
		calls:    make(map[string]int),
		nextID:   100,
	}
}

func (f *fakeStore) count(op string) { f.calls[op]++ }

func (f *fakeStore) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) ListMemos(ctx context.Context) ([]Memo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("listMemos")
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]Memo(nil), f.memos...), nil
}

func (f *fakeStore) GetMemo(ctx context.Context, id ID) (*Memo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("getMemo")
	if f.fail != nil {
		return nil, f.fail
	}
	for _, m := range f.memos {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("memo %s not found", id)
}

func (f *fakeStore) CreateMemo(ctx context.Context, draft MemoDraft) (*Memo, error) {
	f.mu.Lock()
	f.count("createMemo")
	if f.fail != nil {
		f.mu.Unlock()
		return nil, f.fail
	}
	f.nextID++
	m := Memo{
		ID:      ID(fmt.Sprintf("%d", f.nextID)),
		Title:   draft.Title,
		Content: draft.Content,
		Author:  draft.Author,
		Date:    time.Now().UTC(),
	}
	f.memos = append(f.memos, m)
	hook := f.onCreate
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return &m, nil
}

func (f *fakeStore) UpdateMemo(ctx context.Context, id ID, draft MemoDraft) (*Memo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("updateMemo")
	if f.fail != nil {
		return nil, f.fail
	}
	for i := range f.memos {
		if f.memos[i].ID == id {
			f.memos[i].Title = draft.Title
			f.memos[i].Content = draft.Content
			cp := f.memos[i]
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("memo %s not found", id)
}

func (f *fakeStore) DeleteMemo(ctx context.Context, id ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("deleteMemo")
	if f.fail != nil {
		return f.fail
	}
	for i := range f.memos {
		if f.memos[i].ID == id {
			f.memos = append(f.memos[:i], f.memos[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("memo %s not found", id)
}

func (f *fakeStore) ListComments(ctx context.Context, memoID ID) ([]Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("listComments")
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]Comment(nil), f.comments[memoID]...), nil
}

func (f *fakeStore) AddComment(ctx context.Context, memoID ID, draft CommentDraft) (*Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("addComment")
	if f.fail != nil {
		return nil, f.fail
	}
	f.nextID++
	c := Comment{
		ID:      ID(fmt.Sprintf("%d", f.nextID)),
		MemoID:  memoID,
		Text:    draft.Text,
		Content: draft.Text,
		Author:  draft.Author,
		Date:    time.Now().UTC(),
	}
	f.comments[memoID] = append(f.comments[memoID], c)
	return &c, nil
}

func (f *fakeStore) UpdateComment(ctx context.Context, memoID, commentID ID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("updateComment")
	if f.fail != nil {
		return f.fail
	}
	for i := range f.comments[memoID] {
		if f.comments[memoID][i].ID == commentID {
			f.comments[memoID][i].Text = text
			f.comments[memoID][i].Content = text
			return nil
		}
	}
	return fmt.Errorf("comment %s not found", commentID)
}

func (f *fakeStore) DeleteComment(ctx context.Context, memoID, commentID ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("deleteComment")
	if f.fail != nil {
		return f.fail
	}
	list := f.comments[memoID]
	for i := range list {
		if list[i].ID == commentID {
			f.comments[memoID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment %s not found", commentID)
}

type fakeGate struct{ authed bool }

func (g *fakeGate) IsAuthenticated() bool { return g.authed }

func TestBoardCreateDraftVisibleImmediately(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	b := NewBoard(fs)

	draft := b.CreateDraft()
	if !draft.Provisional {
		t.Fatalf("expected provisional draft, got %+v", draft)
	}
	if !strings.HasPrefix(string(draft.ID), "temp-") {
		t.Fatalf("draft id %q should carry the temp- prefix", draft.ID)
	}

	memos := b.Memos()
	if len(memos) != 1 || memos[0].ID != draft.ID {
		t.Fatalf("draft not visible in collection: %+v", memos)
	}
	if fs.callCount("createMemo") != 0 {
		t.Fatalf("CreateDraft must not contact the store")
	}
}

func TestBoardCommitPromotesDraftExactlyOnce(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	b := NewBoard(fs)
	ctx := context.Background()

	draft := b.CreateDraft()
	m, err := b.Commit(ctx, draft.ID, MemoDraft{Title: "groceries", Content: "milk"})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if m.Provisional {
		t.Fatalf("committed memo still provisional: %+v", m)
	}
	if strings.HasPrefix(string(m.ID), "temp-") {
		t.Fatalf("committed memo kept provisional id %q", m.ID)
	}

	memos := b.Memos()
	if len(memos) != 1 {
		t.Fatalf("want exactly one entry after promotion, got %d", len(memos))
	}
	if memos[0].ID != m.ID {
		t.Fatalf("collection holds %q, want %q", memos[0].ID, m.ID)
	}
	if _, ok := b.Get(draft.ID); ok {
		t.Fatalf("provisional id %q still resolvable after promotion", draft.ID)
	}
	if got := fs.callCount("createMemo"); got != 1 {
		t.Fatalf("want one store create, got %d", got)
	}
}

func TestBoardCommitEmptyTitleLeavesDraftUntouched(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	b := NewBoard(fs)

	draft := b.CreateDraft()
	_, err := b.Commit(context.Background(), draft.ID, MemoDraft{Title: "   "})
	if !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	if fs.callCount("createMemo") != 0 {
		t.Fatalf("validation failure must not reach the store")
	}
	got, ok := b.Get(draft.ID)
	if !ok || !got.Provisional {
		t.Fatalf("draft must survive a failed commit, got %+v ok=%v", got, ok)
	}
}

func TestBoardCommitUpdateLastWriteWins(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "old", Content: "old body"}}
	b := NewBoard(fs)
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := b.Commit(ctx, "1", MemoDraft{Title: "first", Content: "a"}); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if _, err := b.Commit(ctx, "1", MemoDraft{Title: "second", Content: "b"}); err != nil {
		t.Fatalf("second commit: %v", err)
	}

	got, _ := b.Get("1")
	if got.Title != "second" || got.Content != "b" {
		t.Fatalf("last write did not win: %+v", got)
	}
	if got.ID != "1" {
		t.Fatalf("update must hold the id fixed, got %q", got.ID)
	}
}

func TestBoardDiscardDraftRemovesWithoutStoreCall(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	b := NewBoard(fs)

	draft := b.CreateDraft()
	if _, err := b.Discard(draft.ID); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if len(b.Memos()) != 0 {
		t.Fatalf("draft still on board after discard")
	}
	for op, n := range fs.calls {
		if n != 0 {
			t.Fatalf("discard of a draft called the store: %s=%d", op, n)
		}
	}
}

func TestBoardDiscardRestoresCommittedFields(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "stable", Content: "original"}}
	b := NewBoard(fs)
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := b.SetDraftFields("1", MemoDraft{Title: "edited", Content: "scratch"}); err != nil {
		t.Fatalf("SetDraftFields: %v", err)
	}
	if got, _ := b.Get("1"); got.Title != "edited" {
		t.Fatalf("staged edit not visible: %+v", got)
	}

	restored, err := b.Discard("1")
	if err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if restored.Title != "stable" || restored.Content != "original" {
		t.Fatalf("discard did not restore committed fields: %+v", restored)
	}
	if fs.callCount("updateMemo") != 0 {
		t.Fatalf("discard must not contact the store")
	}
}

func TestBoardRemoveDeclinedKeepsMemo(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "keep me"}}
	b := NewBoard(fs)
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := b.Remove(ctx, "1", func() bool { return false }); err != nil {
		t.Fatalf("Remove declined: %v", err)
	}
	if fs.callCount("deleteMemo") != 0 {
		t.Fatalf("declined removal must not call the store")
	}
	if _, ok := b.Get("1"); !ok {
		t.Fatalf("memo vanished despite declined confirmation")
	}
}

func TestBoardRemoveFailureLeavesCollectionUnchanged(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "sticky"}}
	b := NewBoard(fs)
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	fs.fail = fmt.Errorf("backend down")
	err := b.Remove(ctx, "1", nil)
	if err == nil {
		t.Fatalf("want delete error")
	}
	if _, ok := b.Get("1"); !ok {
		t.Fatalf("failed delete must not remove the local entry")
	}
}

func TestBoardRemoveConfirmedDeletes(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "doomed"}}
	b := NewBoard(fs)
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if err := b.Remove(ctx, "1", func() bool { return true }); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fs.callCount("deleteMemo") != 1 {
		t.Fatalf("want one store delete, got %d", fs.callCount("deleteMemo"))
	}
	if _, ok := b.Get("1"); ok {
		t.Fatalf("memo still on board after confirmed delete")
	}
}

func TestBoardCommitStaleResponseDiscarded(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	b := NewBoard(fs)
	ctx := context.Background()

	draft := b.CreateDraft()
	fs.onCreate = func() {
		// The user scraps the draft while the create is in flight.
		if _, err := b.Discard(draft.ID); err != nil {
			t.Errorf("mid-flight discard: %v", err)
		}
	}

	m, err := b.Commit(ctx, draft.ID, MemoDraft{Title: "late"})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if m.Title != "late" {
		t.Fatalf("caller must still receive the confirmed memo, got %+v", m)
	}
	if len(b.Memos()) != 0 {
		t.Fatalf("stale create response was applied to the board: %+v", b.Memos())
	}
}

func TestBoardRefreshPreservesDrafts(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "remote"}}
	b := NewBoard(fs)
	ctx := context.Background()

	draft := b.CreateDraft()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	memos := b.Memos()
	if len(memos) != 2 {
		t.Fatalf("want fetched memo plus draft, got %+v", memos)
	}
	if memos[0].ID != "1" || memos[1].ID != draft.ID {
		t.Fatalf("order wrong after refresh: %+v", memos)
	}
}

func TestBoardAddCommentRefreshesFromStore(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "memo"}}
	b := NewBoard(fs)
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	list, err := b.AddComment(ctx, "1", CommentDraft{Text: "hello", Author: "kim"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(list) != 1 || list[0].Text != "hello" {
		t.Fatalf("unexpected comment list: %+v", list)
	}
	if fs.callCount("listComments") != 1 {
		t.Fatalf("refresh-on-write must re-fetch, listComments=%d", fs.callCount("listComments"))
	}
	if got := b.CachedComments("1"); len(got) != 1 {
		t.Fatalf("cache not updated: %+v", got)
	}
}

func TestBoardOptimisticCommentsSkipRefetch(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "memo"}}
	b := NewBoard(fs, WithOptimisticComments())
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	list, err := b.AddComment(ctx, "1", CommentDraft{Text: "fast", Author: "lee"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if len(list) != 1 || list[0].Text != "fast" {
		t.Fatalf("unexpected comment list: %+v", list)
	}
	if fs.callCount("listComments") != 0 {
		t.Fatalf("optimistic mode must not re-fetch")
	}
}

func TestBoardEmptyCommentRejectedBeforeStore(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	b := NewBoard(fs)

	_, err := b.AddComment(context.Background(), "1", CommentDraft{Text: "  "})
	if !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	if fs.callCount("addComment") != 0 {
		t.Fatalf("empty comment must not reach the store")
	}
}

func TestBoardEnforcedGateRejectsMutations(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "guarded"}}
	gate := &fakeGate{authed: false}
	b := NewBoard(fs, WithAuthGate(gate, GateEnforced))
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := b.Commit(ctx, "1", MemoDraft{Title: "nope"}); !IsUnauthorized(err) {
		t.Fatalf("want unauthorized, got %v", err)
	}
	if _, err := b.AddComment(ctx, "1", CommentDraft{Text: "nope"}); !IsUnauthorized(err) {
		t.Fatalf("want unauthorized, got %v", err)
	}
	if fs.callCount("updateMemo")+fs.callCount("addComment") != 0 {
		t.Fatalf("enforced gate let a mutation through")
	}

	gate.authed = true
	if _, err := b.Commit(ctx, "1", MemoDraft{Title: "now fine"}); err != nil {
		t.Fatalf("authenticated commit: %v", err)
	}
}

func TestBoardAdvisoryGateLetsMutationsThrough(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	fs.memos = []Memo{{ID: "1", Title: "open"}}
	b := NewBoard(fs, WithAuthGate(&fakeGate{authed: false}, GateAdvisory))
	ctx := context.Background()
	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if _, err := b.Commit(ctx, "1", MemoDraft{Title: "still works"}); err != nil {
		t.Fatalf("advisory gate must not block: %v", err)
	}
}

func TestBoardCommentsOnProvisionalMemoEmpty(t *testing.T) {
	t.Parallel()
	fs := newFakeStore()
	b := NewBoard(fs)

	draft := b.CreateDraft()
	list, err := b.Comments(context.Background(), draft.ID)
	if err != nil {
		t.Fatalf("Comments: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("provisional memo cannot have store comments: %+v", list)
	}
	if fs.callCount("listComments") != 0 {
		t.Fatalf("provisional comment lookup must not hit the store")
	}
}
