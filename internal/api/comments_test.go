package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

func TestListComments_HeterogeneousShapes(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/memos/1/comments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":101,"content":"hi","createdAt":"2025-04-01T00:00:00Z"},{"id":"c2","text":"yo","date":"2025-04-02"}]`))
	}))
	defer srv.Close()
	got, err := ListComments(context.Background(), srv.Client(), srv.URL, "1")
	if err != nil || len(got) != 2 {
		t.Fatalf("ListComments unexpected: got=%+v err=%v", got, err)
	}
	if got[0].Content != "hi" || got[1].Text != "yo" {
		t.Fatalf("raw aliases lost: %+v", got)
	}
}

func TestAddComment_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var draft types.CommentDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.RawComment{ID: "201", Content: draft.Text, CreatedAt: "2025-04-03T12:00:00Z"})
	}))
	defer srv.Close()
	got, err := AddComment(context.Background(), srv.Client(), srv.URL, "1", types.CommentDraft{Text: "nice"})
	if err != nil || got == nil || got.ID != "201" || got.Content != "nice" {
		t.Fatalf("AddComment unexpected: got=%+v err=%v", got, err)
	}
}

func TestAddComment_EmptyBodyRejected(t *testing.T) {
	t.Parallel()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	_, err := AddComment(context.Background(), srv.Client(), srv.URL, "1", types.CommentDraft{Text: " "})
	if !errors.IsValidation(err) || calls != 0 {
		t.Fatalf("expected local validation failure, err=%v calls=%d", err, calls)
	}
}

func TestUpdateComment_RouteAndBody(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/comments/5" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req types.UpdateCommentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Text != "edited" {
			t.Errorf("text = %q", req.Text)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	if err := UpdateComment(context.Background(), srv.Client(), srv.URL, "1", "5", "edited"); err != nil {
		t.Fatalf("UpdateComment error: %v", err)
	}
}

func TestDeleteComment_NotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	err := DeleteComment(context.Background(), srv.Client(), srv.URL, "1", "5")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestComments_ProvisionalMemoRejected(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	temp := types.NewProvisionalID()
	if _, err := ListComments(context.Background(), srv.Client(), srv.URL, temp); !errors.IsValidation(err) {
		t.Fatalf("ListComments: expected validation error, got %v", err)
	}
	if _, err := AddComment(context.Background(), srv.Client(), srv.URL, temp, types.CommentDraft{Text: "x"}); !errors.IsValidation(err) {
		t.Fatalf("AddComment: expected validation error, got %v", err)
	}
}
