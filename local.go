package memoboard

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	apierr "github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
	"github.com/memoboard/memoboard-go/internal/writegate"
)

// snapshotKey is the single slot holding the serialized memo collection,
// nested comments included.
const snapshotKey = "memoboard/snapshot"

// LocalStore is the persisted Store implementation: a badger database
// holding the whole collection under one key. The snapshot is loaded
// lazily on first access and written back atomically after every
// mutation. Load and decode failures degrade to the built-in seed
// dataset instead of failing the caller; that fallback is the one place
// an adapter is allowed to swallow an error.
//
// Mutations are full read-modify-write cycles, so all writers serialize
// through a single gate; partial-snapshot writes are not supported.
type LocalStore struct {
	dir  string
	gate *writegate.Gate

	mu     sync.Mutex
	opened bool
	db     *badger.DB      // nil after a failed open (degraded mode)
	cache  []types.RawMemo // collection storage in degraded mode
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore constructs the persisted adapter rooted at dir. The
// database is not opened until the first operation.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{
		dir:  dir,
		gate: writegate.New(writegate.Config{}),
	}
}

// Close stops the write gate and closes the database.
func (l *LocalStore) Close() error {
	l.gate.Stop()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db != nil {
		err := l.db.Close()
		l.db = nil
		return err
	}
	return nil
}

// ensureOpen opens the database on first use. A failed open switches the
// store to in-memory degraded mode seeded with the built-in dataset.
func (l *LocalStore) ensureOpen() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.opened {
		return
	}
	l.opened = true

	opts := badger.DefaultOptions(l.dir).WithLoggingLevel(badger.ERROR)
	db, err := badger.Open(opts)
	if err != nil {
		log.Warn().Err(err).Str("dir", l.dir).Msg("localstore: open failed, using in-memory seed data")
		l.cache = seedMemos()
		return
	}
	l.db = db
}

// load returns the current collection. Missing or undecodable snapshots
// fall back to the seed dataset.
func (l *LocalStore) load() []types.RawMemo {
	l.ensureOpen()

	l.mu.Lock()
	db := l.db
	if db == nil {
		out := cloneRawMemos(l.cache)
		l.mu.Unlock()
		return out
	}
	l.mu.Unlock()

	var data []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return seedMemos()
	}
	if err != nil {
		log.Warn().Err(err).Msg("localstore: snapshot read failed, using seed data")
		return seedMemos()
	}

	var memos []types.RawMemo
	if err := json.Unmarshal(data, &memos); err != nil {
		log.Warn().Err(err).Msg("localstore: snapshot decode failed, using seed data")
		return seedMemos()
	}
	return memos
}

// persist writes the whole collection back under the snapshot key.
// Badger commit conflicts are retried briefly with exponential backoff;
// everything else is permanent.
func (l *LocalStore) persist(ctx context.Context, op string, memos []types.RawMemo) error {
	l.mu.Lock()
	db := l.db
	if db == nil {
		l.cache = memos
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	data, err := json.Marshal(memos)
	if err != nil {
		return apierr.New(op, apierr.Transport, err)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 10 * time.Millisecond
	exp.MaxElapsedTime = 2 * time.Second

	err = backoff.Retry(func() error {
		err := db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(snapshotKey), data)
		})
		if errors.Is(err, badger.ErrConflict) {
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}, backoff.WithContext(exp, ctx))
	if err != nil {
		return apierr.New(op, apierr.Transport, err)
	}
	return nil
}

// mutate runs a read-modify-write cycle through the write gate.
func (l *LocalStore) mutate(ctx context.Context, op string, fn func(memos []types.RawMemo) ([]types.RawMemo, error)) error {
	return l.gate.Do(ctx, func(ctx context.Context) error {
		out, err := fn(l.load())
		if err != nil {
			return err
		}
		return l.persist(ctx, op, out)
	})
}

// newLocalID assigns identifiers the way the backing dataset always has:
// millisecond timestamps.
func newLocalID() types.ID {
	return types.ID(strconv.FormatInt(time.Now().UnixMilli(), 10))
}

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339) }

func cloneRawMemos(in []types.RawMemo) []types.RawMemo {
	out := make([]types.RawMemo, len(in))
	copy(out, in)
	for i := range out {
		out[i].Comments = append([]types.RawComment(nil), out[i].Comments...)
	}
	return out
}

func findRawMemo(memos []types.RawMemo, id types.ID) int {
	for i := range memos {
		if memos[i].ID == id {
			return i
		}
	}
	return -1
}

// ListMemos returns the normalized collection.
func (l *LocalStore) ListMemos(ctx context.Context) ([]Memo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raws := l.load()
	memos := make([]Memo, 0, len(raws))
	for i := range raws {
		memos = append(memos, types.NormalizeMemo(&raws[i]))
	}
	return memos, nil
}

// GetMemo returns one normalized memo.
func (l *LocalStore) GetMemo(ctx context.Context, id ID) (*Memo, error) {
	const op = "getMemo"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(id, "memoId"); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	raws := l.load()
	i := findRawMemo(raws, id)
	if i < 0 {
		return nil, apierr.NotFoundf(op, "memo %s not found", id)
	}
	m := types.NormalizeMemo(&raws[i])
	return &m, nil
}

// CreateMemo appends a new memo to the snapshot.
func (l *LocalStore) CreateMemo(ctx context.Context, draft MemoDraft) (*Memo, error) {
	const op = "createMemo"
	if err := types.ValidateTitle(draft.Title); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
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
	err := l.mutate(ctx, op, func(memos []types.RawMemo) ([]types.RawMemo, error) {
		return append(memos, stored), nil
	})
	if err != nil {
		return nil, err
	}
	m := types.NormalizeMemo(&stored)
	return &m, nil
}

// UpdateMemo rewrites the mutable fields of an existing memo.
func (l *LocalStore) UpdateMemo(ctx context.Context, id ID, draft MemoDraft) (*Memo, error) {
	const op = "updateMemo"
	if err := types.ValidatePermanentID(id, "memoId"); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := types.ValidateTitle(draft.Title); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	var updated types.RawMemo
	err := l.mutate(ctx, op, func(memos []types.RawMemo) ([]types.RawMemo, error) {
		i := findRawMemo(memos, id)
		if i < 0 {
			return nil, apierr.NotFoundf(op, "memo %s not found", id)
		}
		memos[i].Title = draft.Title
		memos[i].Content = draft.Content
		if draft.Author != "" {
			memos[i].Author = draft.Author
		}
		memos[i].UpdatedAt = nowStamp()
		updated = memos[i]
		return memos, nil
	})
	if err != nil {
		return nil, err
	}
	m := types.NormalizeMemo(&updated)
	m.ID = id
	return &m, nil
}

// DeleteMemo removes a memo and its comments from the snapshot.
func (l *LocalStore) DeleteMemo(ctx context.Context, id ID) error {
	const op = "deleteMemo"
	if err := types.ValidatePermanentID(id, "memoId"); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	return l.mutate(ctx, op, func(memos []types.RawMemo) ([]types.RawMemo, error) {
		i := findRawMemo(memos, id)
		if i < 0 {
			return nil, apierr.NotFoundf(op, "memo %s not found", id)
		}
		return append(memos[:i], memos[i+1:]...), nil
	})
}

// ListComments returns the normalized comments of one memo.
func (l *LocalStore) ListComments(ctx context.Context, memoID ID) ([]Comment, error) {
	const op = "listComments"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	raws := l.load()
	i := findRawMemo(raws, memoID)
	if i < 0 {
		return nil, apierr.NotFoundf(op, "memo %s not found", memoID)
	}
	return types.NormalizeComments(memoID, raws[i].Comments), nil
}

// AddComment appends a comment to a memo.
func (l *LocalStore) AddComment(ctx context.Context, memoID ID, draft CommentDraft) (*Comment, error) {
	const op = "addComment"
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
	}
	if err := types.ValidateBody(draft.Text); err != nil {
		return nil, apierr.New(op, apierr.Validation, err)
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
	err := l.mutate(ctx, op, func(memos []types.RawMemo) ([]types.RawMemo, error) {
		i := findRawMemo(memos, memoID)
		if i < 0 {
			return nil, apierr.NotFoundf(op, "memo %s not found", memoID)
		}
		memos[i].Comments = append(memos[i].Comments, stored)
		return memos, nil
	})
	if err != nil {
		return nil, err
	}
	c := types.NormalizeComment(&stored)
	c.MemoID = memoID
	return &c, nil
}

// UpdateComment replaces a comment body.
func (l *LocalStore) UpdateComment(ctx context.Context, memoID, commentID ID, text string) error {
	const op = "updateComment"
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	if err := types.ValidateBody(text); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	return l.mutate(ctx, op, func(memos []types.RawMemo) ([]types.RawMemo, error) {
		i := findRawMemo(memos, memoID)
		if i < 0 {
			return nil, apierr.NotFoundf(op, "memo %s not found", memoID)
		}
		for j := range memos[i].Comments {
			if memos[i].Comments[j].ID == commentID {
				memos[i].Comments[j].Content = text
				memos[i].Comments[j].Text = ""
				memos[i].Comments[j].UpdatedAt = nowStamp()
				return memos, nil
			}
		}
		return nil, apierr.NotFoundf(op, "comment %s not found on memo %s", commentID, memoID)
	})
}

// DeleteComment removes a comment from a memo.
func (l *LocalStore) DeleteComment(ctx context.Context, memoID, commentID ID) error {
	const op = "deleteComment"
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return apierr.New(op, apierr.Validation, err)
	}
	return l.mutate(ctx, op, func(memos []types.RawMemo) ([]types.RawMemo, error) {
		i := findRawMemo(memos, memoID)
		if i < 0 {
			return nil, apierr.NotFoundf(op, "memo %s not found", memoID)
		}
		comments := memos[i].Comments
		for j := range comments {
			if comments[j].ID == commentID {
				memos[i].Comments = append(comments[:j], comments[j+1:]...)
				return memos, nil
			}
		}
		return nil, apierr.NotFoundf(op, "comment %s not found on memo %s", commentID, memoID)
	})
}
