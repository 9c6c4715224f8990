package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/memoboard/memoboard-go/internal/errors"
	"github.com/memoboard/memoboard-go/internal/types"
)

// ListComments retrieves the comments of one memo.
func ListComments(ctx context.Context, httpClient HTTPClient, baseURL string, memoID types.ID) ([]types.RawComment, error) {
	const op = "listComments"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodGet, fmt.Sprintf("%s/memos/%s/comments", baseURL, memoID), nil)
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
	var comments []types.RawComment
	if err := decodeJSON(op, resp, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to a memo and returns the stored record.
func AddComment(ctx context.Context, httpClient HTTPClient, baseURL string, memoID types.ID, draft types.CommentDraft) (*types.RawComment, error) {
	const op = "addComment"
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	if err := types.ValidateBody(draft.Text); err != nil {
		return nil, errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodPost, fmt.Sprintf("%s/memos/%s/comments", baseURL, memoID), draft)
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
	var c types.RawComment
	if err := decodeJSON(op, resp, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateComment replaces a comment body. The route is keyed by comment
// id alone; the memo id is validated for symmetry with the other stores.
func UpdateComment(ctx context.Context, httpClient HTTPClient, baseURL string, memoID, commentID types.ID, text string) error {
	const op = "updateComment"
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return errors.New(op, errors.Validation, err)
	}
	if err := types.ValidateIDPresent(commentID, "commentId"); err != nil {
		return errors.New(op, errors.Validation, err)
	}
	if err := types.ValidateBody(text); err != nil {
		return errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodPut, fmt.Sprintf("%s/comments/%s", baseURL, commentID), types.UpdateCommentRequest{Text: text})
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

// DeleteComment removes a comment.
func DeleteComment(ctx context.Context, httpClient HTTPClient, baseURL string, memoID, commentID types.ID) error {
	const op = "deleteComment"
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := types.ValidatePermanentID(memoID, "memoId"); err != nil {
		return errors.New(op, errors.Validation, err)
	}
	if err := types.ValidateIDPresent(commentID, "commentId"); err != nil {
		return errors.New(op, errors.Validation, err)
	}
	req, err := newJSONRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/comments/%s", baseURL, commentID), nil)
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
