// Package collection holds the client-side page of books: the current page,
// the genre filter, and optimistic local mutations after edits and deletes.
// The authoritative copy always lives server-side; what is cached here is a
// page-sized, possibly stale snapshot.
package collection

import (
	"context"
	"fmt"
	"sync"

	"bookapp/internal/api"
)

const DefaultPageSize = 5

// Service is the slice of the API client the collection needs. Injected so
// the state is testable without a live backend.
type Service interface {
	ListBooks(ctx context.Context, page, size int) (api.Page, error)
	ListBooksByGenre(ctx context.Context, genreID int64, page, size int) (api.Page, error)
	UpdateBook(ctx context.Context, update api.BookUpdate) (api.Book, error)
	DeleteBook(ctx context.Context, isbn string) error
}

// Snapshot is a copy of the visible state at one instant.
type Snapshot struct {
	Books         []api.Book
	Page          int
	Size          int
	TotalPages    int
	TotalElements int64
	SelectedGenre int64
	Loading       bool
}

// Collection is the paged view over the user's books. Every fetch carries a
// generation number; a response belonging to a superseded generation is
// discarded, so the latest issued request wins even when responses settle
// out of order.
type Collection struct {
	mu            sync.Mutex
	svc           Service
	books         []api.Book
	page          int
	size          int
	totalPages    int
	totalElements int64
	selectedGenre int64
	loading       bool
	gen           uint64
}

func New(svc Service) *Collection {
	return &Collection{svc: svc, size: DefaultPageSize}
}

// Refresh issues exactly one fetch for the current page, size, and genre
// filter. Filtering is delegated to the server via the by-genre endpoint.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	page, size, genre := c.page, c.size, c.selectedGenre
	c.loading = true
	c.mu.Unlock()

	var result api.Page
	var err error
	if genre > 0 {
		result, err = c.svc.ListBooksByGenre(ctx, genre, page, size)
	} else {
		result, err = c.svc.ListBooks(ctx, page, size)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer fetch was issued while this one was in flight.
		return nil
	}
	c.loading = false
	if err != nil {
		return err
	}
	c.books = result.Content
	c.totalPages = result.TotalPages
	c.totalElements = result.TotalElements
	return nil
}

// SetPage moves to the given zero-based page and refreshes.
func (c *Collection) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		return fmt.Errorf("page %d out of range", page)
	}
	c.mu.Lock()
	c.page = page
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetSize changes the page size, rewinds to the first page, and refreshes.
func (c *Collection) SetSize(ctx context.Context, size int) error {
	if size < 1 {
		return fmt.Errorf("page size %d out of range", size)
	}
	c.mu.Lock()
	c.size = size
	c.page = 0
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetGenre switches the server-side genre filter (0 clears it), rewinds to
// the first page, and refreshes.
func (c *Collection) SetGenre(ctx context.Context, genreID int64) error {
	if genreID < 0 {
		return fmt.Errorf("genre id %d out of range", genreID)
	}
	c.mu.Lock()
	c.selectedGenre = genreID
	c.page = 0
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Delete removes the book server-side, then drops the matching cached entry.
// When that empties a page other than the first, the collection steps back
// one page and refreshes.
func (c *Collection) Delete(ctx context.Context, isbn string) error {
	if err := c.svc.DeleteBook(ctx, isbn); err != nil {
		return err
	}

	c.mu.Lock()
	kept := c.books[:0]
	for _, book := range c.books {
		if book.Isbn != isbn {
			kept = append(kept, book)
		}
	}
	c.books = kept
	stepBack := len(c.books) == 0 && c.page > 0
	if stepBack {
		c.page--
	}
	c.mu.Unlock()

	if stepBack {
		return c.Refresh(ctx)
	}
	return nil
}

// Edit applies a partial update server-side and merges the returned fields
// into the cached entry with the same isbn. Other entries are untouched and
// the page is not re-fetched.
func (c *Collection) Edit(ctx context.Context, update api.BookUpdate) error {
	updated, err := c.svc.UpdateBook(ctx, update)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.books {
		if c.books[i].Isbn == update.Isbn {
			c.books[i] = updated
			break
		}
	}
	return nil
}

// Snapshot copies the current visible state.
func (c *Collection) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	books := make([]api.Book, len(c.books))
	copy(books, c.books)
	return Snapshot{
		Books:         books,
		Page:          c.page,
		Size:          c.size,
		TotalPages:    c.totalPages,
		TotalElements: c.totalElements,
		SelectedGenre: c.selectedGenre,
		Loading:       c.loading,
	}
}
