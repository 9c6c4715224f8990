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

func TestListMemos_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":1,"title":"a","date":"2025-04-01"},{"id":"m2","title":"b","createdAt":"2025-04-02"}]`))
	}))
	defer srv.Close()
	got, err := ListMemos(context.Background(), srv.Client(), srv.URL)
	if err != nil || len(got) != 2 {
		t.Fatalf("ListMemos unexpected: got=%+v err=%v", got, err)
	}
	if got[0].ID != "1" || got[1].ID != "m2" {
		t.Fatalf("id decoding: %+v", got)
	}
}

func TestGetMemo_NotFound(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	_, err := GetMemo(context.Background(), srv.Client(), srv.URL, "9")
	if !errors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCreateMemo_Success(t *testing.T) {
	t.Parallel()
	want := types.RawMemo{ID: "10", Title: "t", Content: "c", CreatedAt: "2025-04-01T00:00:00Z"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/memos" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var draft types.MemoDraft
		_ = json.NewDecoder(r.Body).Decode(&draft)
		if draft.Title != "t" {
			t.Errorf("draft title = %q", draft.Title)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()
	got, err := CreateMemo(context.Background(), srv.Client(), srv.URL, types.MemoDraft{Title: "t", Content: "c"})
	if err != nil || got == nil || got.ID != "10" {
		t.Fatalf("CreateMemo unexpected: got=%+v err=%v", got, err)
	}
}

func TestCreateMemo_ValidationNoCall(t *testing.T) {
	t.Parallel()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	_, err := CreateMemo(context.Background(), srv.Client(), srv.URL, types.MemoDraft{Title: "  "})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("validation failure must not reach the store, calls=%d", calls)
	}
}

func TestUpdateMemo_RejectsProvisionalID(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err := UpdateMemo(context.Background(), srv.Client(), srv.URL, types.NewProvisionalID(), types.MemoDraft{Title: "t"})
	if !errors.IsValidation(err) {
		t.Fatalf("expected validation error for provisional update target, got %v", err)
	}
}

func TestDeleteMemo_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	if err := DeleteMemo(context.Background(), srv.Client(), srv.URL, "3"); err != nil {
		t.Fatalf("DeleteMemo error: %v", err)
	}
}

func TestDeleteMemo_ServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	err := DeleteMemo(context.Background(), srv.Client(), srv.URL, "3")
	if err == nil || !errors.IsKind(err, errors.Transport) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
