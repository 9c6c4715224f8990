package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

// ListMemos retrieves the full memo collection.
func ListMemos(ctx context.Context, httpClient HTTPClient, baseURL string) ([]types.RawMemo, error) {
	const op = "listMemos"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req, err := newJSONRequest(ctx, http.MethodGet, baseURL+"/memos", nil)
	if err != nil {
		return nil, errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var memos []types.RawMemo
	if err := decodeJSON(op, resp, &memos); err != nil {
		return nil, err
	}
	return memos, nil
}

// GetMemo retrieves a specific memo.
func GetMemo(ctx context.Context, httpClient HTTPClient, baseURL string, id types.ID) (*types.RawMemo, error) {
	const op = "getMemo"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateIDPresent(id, "memoId"); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/memos/%s", baseURL, id), nil)
	if err != nil {
		return nil, errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var memo types.RawMemo
	if err := decodeJSON(op, resp, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

// CreateMemo persists a new memo and returns the store-confirmed record
// carrying the permanent identifier.
func CreateMemo(ctx context.Context, httpClient HTTPClient, baseURL string, draft types.MemoDraft) (*types.RawMemo, error) {
	const op = "createMemo"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidateTitle(draft.Title); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodPost, baseURL+"/memos", draft)
	if err != nil {
		return nil, errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp, http.StatusCreated, http.StatusOK); err != nil {
		return nil, err
	}
	var memo types.RawMemo
	if err := decodeJSON(op, resp, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

// UpdateMemo replaces the mutable fields of an existing memo. The
// identifier must be store-assigned; provisional memos are created, not
// updated.
func UpdateMemo(ctx context.Context, httpClient HTTPClient, baseURL string, id types.ID, draft types.MemoDraft) (*types.RawMemo, error) {
	const op = "updateMemo"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidatePermanentID(id, "memoId"); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	if err := types.ValidateTitle(draft.Title); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodPut, fmt.Sprintf("%s/memos/%s", baseURL, id), draft)
	if err != nil {
		return nil, errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.Network(op, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(op, resp, http.StatusOK); err != nil {
		return nil, err
	}
	var memo types.RawMemo
	if err := decodeJSON(op, resp, &memo); err != nil {
		return nil, err
	}
	return &memo, nil
}

// DeleteMemo removes a memo from the store.
func DeleteMemo(ctx context.Context, httpClient HTTPClient, baseURL string, id types.ID) error {
	const op = "deleteMemo"
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidatePermanentID(id, "memoId"); err != nil {
		return errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/memos/%s", baseURL, id), nil)
	if err != nil {
		return errors.New(op, errors.Transport, err)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Network(op, err)
	}
	defer resp.Body.Close()

	return checkStatus(op, resp, http.StatusOK, http.StatusNoContent)
}
