package memoboard

import (
	"context"
	"testing"
)

func newTestLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	ls := NewLocalStore(t.TempDir())
	t.Cleanup(func() { _ = ls.Close() })
	return ls
}

func TestLocalStoreStartsFromSeed(t *testing.T) {
	t.Parallel()
	ls := newTestLocalStore(t)

	memos, err := ls.ListMemos(context.Background())
	if err != nil {
		t.Fatalf("ListMemos: %v", err)
	}
	if len(memos) != 2 {
		t.Fatalf("want the two seed memos, got %d", len(memos))
	}
	if memos[0].Title != "Meeting notes" || memos[0].Author != "Kim" {
		t.Fatalf("seed not normalized as expected: %+v", memos[0])
	}
}

func TestLocalStoreCreateRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()

	ls := NewLocalStore(dir)
	created, err := ls.CreateMemo(ctx, MemoDraft{Title: "persisted", Content: "survives restarts", Author: "kim"})
	if err != nil {
		t.Fatalf("CreateMemo: %v", err)
	}
	if created.ID == "" || created.Provisional {
		t.Fatalf("created memo lacks a permanent id: %+v", created)
	}
	if err := ls.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// A second store over the same directory sees the mutation.
	ls2 := NewLocalStore(dir)
	t.Cleanup(func() { _ = ls2.Close() })
	got, err := ls2.GetMemo(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetMemo after reopen: %v", err)
	}
	if got.Title != "persisted" || got.Content != "survives restarts" {
		t.Fatalf("snapshot did not survive reopen: %+v", got)
	}
}

func TestLocalStoreUpdateHoldsIDFixed(t *testing.T) {
	t.Parallel()
	ls := newTestLocalStore(t)
	ctx := context.Background()

	updated, err := ls.UpdateMemo(ctx, "1", MemoDraft{Title: "edited", Content: "new body"})
	if err != nil {
		t.Fatalf("UpdateMemo: %v", err)
	}
	if updated.ID != "1" {
		t.Fatalf("id changed across update: %q", updated.ID)
	}
	if updated.Title != "edited" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestLocalStoreDeleteUnknownNotFound(t *testing.T) {
	t.Parallel()
	ls := newTestLocalStore(t)

	err := ls.DeleteMemo(context.Background(), "does-not-exist")
	if !IsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
}

func TestLocalStoreRejectsProvisionalIDs(t *testing.T) {
	t.Parallel()
	ls := newTestLocalStore(t)

	_, err := ls.UpdateMemo(context.Background(), "temp-123", MemoDraft{Title: "x"})
	if !IsValidation(err) {
		t.Fatalf("provisional id must be rejected as a mutation target, got %v", err)
	}
	if err := ls.DeleteMemo(context.Background(), "temp-123"); !IsValidation(err) {
		t.Fatalf("provisional delete target must be rejected, got %v", err)
	}
}

func TestLocalStoreCommentLifecycle(t *testing.T) {
	t.Parallel()
	ls := newTestLocalStore(t)
	ctx := context.Background()

	added, err := ls.AddComment(ctx, "2", CommentDraft{Text: "see you there", Author: "lee"})
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if added.Text != "see you there" || added.MemoID != "2" {
		t.Fatalf("comment not stored canonically: %+v", added)
	}

	if err := ls.UpdateComment(ctx, "2", added.ID, "revised"); err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	list, err := ls.ListComments(ctx, "2")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(list) != 1 || list[0].Text != "revised" {
		t.Fatalf("update not visible: %+v", list)
	}

	if err := ls.DeleteComment(ctx, "2", added.ID); err != nil {
		t.Fatalf("DeleteComment: %v", err)
	}
	list, err = ls.ListComments(ctx, "2")
	if err != nil {
		t.Fatalf("ListComments after delete: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("comment survived delete: %+v", list)
	}
}

func TestLocalStoreEmptyCommentRejected(t *testing.T) {
	t.Parallel()
	ls := newTestLocalStore(t)

	_, err := ls.AddComment(context.Background(), "1", CommentDraft{Text: "   "})
	if !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestLocalStoreDegradedModeServesSeed(t *testing.T) {
	t.Parallel()
	// A directory path that cannot be created forces the in-memory
	// fallback; the store keeps working without persistence.
	ls := NewLocalStore("/dev/null/not-a-dir")
	t.Cleanup(func() { _ = ls.Close() })
	ctx := context.Background()

	memos, err := ls.ListMemos(ctx)
	if err != nil {
		t.Fatalf("ListMemos degraded: %v", err)
	}
	if len(memos) != 2 {
		t.Fatalf("degraded store must serve the seed, got %d memos", len(memos))
	}

	created, err := ls.CreateMemo(ctx, MemoDraft{Title: "volatile"})
	if err != nil {
		t.Fatalf("CreateMemo degraded: %v", err)
	}
	if _, err := ls.GetMemo(ctx, created.ID); err != nil {
		t.Fatalf("degraded mutation not visible: %v", err)
	}
}
