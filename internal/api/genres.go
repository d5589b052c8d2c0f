package api

import (
	"context"
	"net/http"
)

type genreRequest struct {
	Name string `json:"name"`
}

// ListGenres returns every genre the caller has created.
func (c *Client) ListGenres(ctx context.Context) ([]Genre, error) {
	const op = "ListGenres"
	resp, err := c.do(ctx, http.MethodGet, "/genres", nil, nil, "")
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(op, resp)
	}
	var result []Genre
	if err := decodeInto(resp, &result); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return result, nil
}

// CreateGenre adds a genre. Duplicate names (per user, case-insensitive)
// surface as a 409.
func (c *Client) CreateGenre(ctx context.Context, name string) (Genre, error) {
	const op = "CreateGenre"
	resp, err := c.doJSON(ctx, http.MethodPost, "/genres", nil, genreRequest{Name: name})
	if err != nil {
		return Genre{}, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusCreated {
		return Genre{}, decodeError(op, resp)
	}
	var result Genre
	if err := decodeInto(resp, &result); err != nil {
		return Genre{}, &Error{Op: op, Err: err}
	}
	return result, nil
}
