package memoboard

import (
	"context"

	"github.com/memoboard/memoboard-go/internal/types"
)

// Store is the uniform capability set over a backing memo store. Three
// implementations satisfy it: RemoteStore (HTTP API), LocalStore
// (persisted snapshot), and MockStore (in-memory with artificial
// latency). Which one is active is a startup decision made once in New;
// nothing selects a backend at call sites.
//
// Read paths return canonical, normalized records. Every failure is a
// structured *OpError carrying the operation name; adapters never
// swallow errors except the documented LocalStore load fallback.
type Store interface {
	ListMemos(ctx context.Context) ([]Memo, error)
	GetMemo(ctx context.Context, id ID) (*Memo, error)
	CreateMemo(ctx context.Context, draft MemoDraft) (*Memo, error)
	UpdateMemo(ctx context.Context, id ID, draft MemoDraft) (*Memo, error)
	DeleteMemo(ctx context.Context, id ID) error

	ListComments(ctx context.Context, memoID ID) ([]Comment, error)
	AddComment(ctx context.Context, memoID ID, draft CommentDraft) (*Comment, error)
	UpdateComment(ctx context.Context, memoID, commentID ID, text string) error
	DeleteComment(ctx context.Context, memoID, commentID ID) error
}

// Backend names a Store implementation in configuration.
type Backend string

const (
	BackendRemote Backend = "remote"
	BackendLocal  Backend = "local"
	BackendMock   Backend = "mock"
)

// seedMemos is the built-in dataset used when the local store cannot
// load its snapshot and as the mock store's initial state.
func seedMemos() []types.RawMemo {
	return []types.RawMemo{
		{
			ID:        "1",
			Title:     "Meeting notes",
			Content:   "Topics covered today:\n1. Project schedule review\n2. Owner assignments\n3. Next meeting date",
			Author:    "Kim",
			CreatedAt: "2025-04-01",
			Comments: []types.RawComment{
				{ID: "101", Content: "Thanks for writing these up!", Author: "Lee", CreatedAt: "2025-04-02"},
				{ID: "102", Content: "Next meeting confirmed for Friday 2pm.", Author: "Park", CreatedAt: "2025-04-03"},
			},
		},
		{
			ID:        "2",
			Title:     "Study group prep",
			Content:   "Topics for next week:\n- persistence contexts\n- entity mapping\n- query basics",
			Author:    "Choi",
			CreatedAt: "2025-04-03",
		},
	}
}
