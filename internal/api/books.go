package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
)

func pageQuery(page, size int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	return query
}

// ListBooks fetches one page of the caller's books.
func (c *Client) ListBooks(ctx context.Context, page, size int) (Page, error) {
	const op = "ListBooks"
	resp, err := c.do(ctx, http.MethodGet, "/books", pageQuery(page, size), nil, "")
	if err != nil {
		return Page{}, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, decodeError(op, resp)
	}
	var result Page
	if err := decodeInto(resp, &result); err != nil {
		return Page{}, &Error{Op: op, Err: err}
	}
	return result, nil
}

// ListBooksByGenre fetches one page filtered by genre. The filter is a query
// parameter: the server does the filtering, not the client.
func (c *Client) ListBooksByGenre(ctx context.Context, genreID int64, page, size int) (Page, error) {
	const op = "ListBooksByGenre"
	if genreID < 1 {
		return Page{}, &Error{Op: op, Err: fmt.Errorf("invalid genre id %d", genreID)}
	}
	query := pageQuery(page, size)
	query.Set("genreId", strconv.FormatInt(genreID, 10))
	resp, err := c.do(ctx, http.MethodGet, "/books", query, nil, "")
	if err != nil {
		return Page{}, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Page{}, decodeError(op, resp)
	}
	var result Page
	if err := decodeInto(resp, &result); err != nil {
		return Page{}, &Error{Op: op, Err: err}
	}
	return result, nil
}

// GetBook fetches a single book by its isbn.
func (c *Client) GetBook(ctx context.Context, isbn string) (Book, error) {
	const op = "GetBook"
	resp, err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(isbn), nil, nil, "")
	if err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Book{}, decodeError(op, resp)
	}
	var result Book
	if err := decodeInto(resp, &result); err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	return result, nil
}

// CreateBook registers a new book. Duplicate isbn surfaces as a 409.
func (c *Client) CreateBook(ctx context.Context, input BookInput) (Book, error) {
	const op = "CreateBook"
	resp, err := c.doJSON(ctx, http.MethodPost, "/books", nil, input)
	if err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusCreated {
		return Book{}, decodeError(op, resp)
	}
	var result Book
	if err := decodeInto(resp, &result); err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	return result, nil
}

// UpdateBook applies a partial update and returns the updated book.
func (c *Client) UpdateBook(ctx context.Context, update BookUpdate) (Book, error) {
	const op = "UpdateBook"
	resp, err := c.doJSON(ctx, http.MethodPatch, "/books", nil, update)
	if err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Book{}, decodeError(op, resp)
	}
	var result Book
	if err := decodeInto(resp, &result); err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	return result, nil
}

// DeleteBook removes a book by isbn.
func (c *Client) DeleteBook(ctx context.Context, isbn string) error {
	const op = "DeleteBook"
	resp, err := c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(isbn), nil, nil, "")
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusNoContent {
		return decodeError(op, resp)
	}
	return decodeInto(resp, nil)
}

// UploadCover replaces the cover image of the given book. The server accepts
// JPEG or PNG up to 5MB.
func (c *Client) UploadCover(ctx context.Context, isbn, filename string, r io.Reader) (Book, error) {
	const op = "UploadCover"
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	// The server reads the image type from the part header, so the part
	// carries the MIME type matching the filename, as a browser would send.
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType := mime.TypeByExtension(filepath.Ext(filename)); contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	if err := writer.Close(); err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}

	path := "/books/" + url.PathEscape(isbn) + "/cover"
	resp, err := c.do(ctx, http.MethodPatch, path, nil, buf, writer.FormDataContentType())
	if err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Book{}, decodeError(op, resp)
	}
	var result Book
	if err := decodeInto(resp, &result); err != nil {
		return Book{}, &Error{Op: op, Err: err}
	}
	return result, nil
}

// DownloadCover fetches the stored cover image addressed by the path the
// server returned in Book.CoverImagePath.
func (c *Client) DownloadCover(ctx context.Context, coverPath string) ([]byte, string, error) {
	const op = "DownloadCover"
	query := url.Values{}
	query.Set("path", coverPath)
	resp, err := c.do(ctx, http.MethodGet, "/books/cover", query, nil, "")
	if err != nil {
		return nil, "", &Error{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", decodeError(op, resp)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &Error{Op: op, Err: err}
	}
	return data, resp.Header.Get("Content-Type"), nil
}
