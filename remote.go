package memoboard

import (
	"context"
	"net/http"

	"github.com/memoboard/memoboard-go/internal/api"
	apierr "github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

// RemoteStore maps every Store operation onto one HTTP request against
// the backing API. Read paths run through the normalizer before records
// reach the caller. An authorization failure invalidates the session
// (once per failing credential) and then propagates.
type RemoteStore struct {
	baseURL string
	http    *http.Client
	session *Session // nil when running unauthenticated
}

var _ Store = (*RemoteStore)(nil)

// NewRemoteStore constructs the remote adapter. The http.Client should
// carry the token-injecting transport; session may be nil for
// unauthenticated use.
func NewRemoteStore(baseURL string, httpClient *http.Client, session *Session) *RemoteStore {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &RemoteStore{baseURL: baseURL, http: httpClient, session: session}
}

// guard captures the credential in flight and routes a 401 through the
// session's invalidation path before the error continues to the caller.
func (r *RemoteStore) guard(err error, token string) error {
	if err != nil && apierr.IsUnauthorized(err) && r.session != nil {
		r.session.Invalidate(token)
	}
	return err
}

func (r *RemoteStore) token() string {
	if r.session == nil {
		return ""
	}
	return r.session.Token()
}

// ListMemos retrieves the full memo collection.
func (r *RemoteStore) ListMemos(ctx context.Context) ([]Memo, error) {
	tok := r.token()
	raws, err := api.ListMemos(ctx, r.http, r.baseURL)
	if err != nil {
		return nil, r.guard(err, tok)
	}
	memos := make([]Memo, 0, len(raws))
	for i := range raws {
		memos = append(memos, types.NormalizeMemo(&raws[i]))
	}
	return memos, nil
}

// GetMemo retrieves a single memo.
func (r *RemoteStore) GetMemo(ctx context.Context, id ID) (*Memo, error) {
	tok := r.token()
	raw, err := api.GetMemo(ctx, r.http, r.baseURL, id)
	if err != nil {
		return nil, r.guard(err, tok)
	}
	m := types.NormalizeMemo(raw)
	return &m, nil
}

// CreateMemo persists a new memo and returns the confirmed record with
// its permanent identifier.
func (r *RemoteStore) CreateMemo(ctx context.Context, draft MemoDraft) (*Memo, error) {
	tok := r.token()
	raw, err := api.CreateMemo(ctx, r.http, r.baseURL, draft)
	if err != nil {
		return nil, r.guard(err, tok)
	}
	m := types.NormalizeMemo(raw)
	return &m, nil
}

// UpdateMemo replaces the mutable fields of a memo.
func (r *RemoteStore) UpdateMemo(ctx context.Context, id ID, draft MemoDraft) (*Memo, error) {
	tok := r.token()
	raw, err := api.UpdateMemo(ctx, r.http, r.baseURL, id, draft)
	if err != nil {
		return nil, r.guard(err, tok)
	}
	m := types.NormalizeMemo(raw)
	m.ID = id // the identifier is held fixed across updates
	return &m, nil
}

// DeleteMemo removes a memo.
func (r *RemoteStore) DeleteMemo(ctx context.Context, id ID) error {
	tok := r.token()
	return r.guard(api.DeleteMemo(ctx, r.http, r.baseURL, id), tok)
}

// ListComments retrieves and normalizes the comments of a memo.
func (r *RemoteStore) ListComments(ctx context.Context, memoID ID) ([]Comment, error) {
	tok := r.token()
	raws, err := api.ListComments(ctx, r.http, r.baseURL, memoID)
	if err != nil {
		return nil, r.guard(err, tok)
	}
	return types.NormalizeComments(memoID, raws), nil
}

// AddComment appends a comment and returns the normalized stored record.
func (r *RemoteStore) AddComment(ctx context.Context, memoID ID, draft CommentDraft) (*Comment, error) {
	tok := r.token()
	raw, err := api.AddComment(ctx, r.http, r.baseURL, memoID, draft)
	if err != nil {
		return nil, r.guard(err, tok)
	}
	c := types.NormalizeComment(raw)
	c.MemoID = memoID
	return &c, nil
}

// UpdateComment replaces a comment body.
func (r *RemoteStore) UpdateComment(ctx context.Context, memoID, commentID ID, text string) error {
	tok := r.token()
	return r.guard(api.UpdateComment(ctx, r.http, r.baseURL, memoID, commentID, text), tok)
}

// DeleteComment removes a comment.
func (r *RemoteStore) DeleteComment(ctx context.Context, memoID, commentID ID) error {
	tok := r.token()
	return r.guard(api.DeleteComment(ctx, r.http, r.baseURL, memoID, commentID), tok)
}
