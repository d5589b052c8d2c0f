package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CreateUser(ctx, User{Username: "ivan", Email: "ivan@example.com"}); err != nil {
		t.Fatal(err)
	}
	_, err := m.CreateUser(ctx, User{Username: "other", Email: "IVAN@example.com"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists (emails are case-insensitive)", err)
	}
}

func TestGenreUniquePerUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CreateGenre(ctx, Genre{UserID: 1, Name: "Fantasy"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateGenre(ctx, Genre{UserID: 1, Name: "fantasy"}); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
	// The same name under another user is fine.
	if _, err := m.CreateGenre(ctx, Genre{UserID: 2, Name: "Fantasy"}); err != nil {
		t.Errorf("err = %v", err)
	}
}

func TestBookIsbnUniquePerUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CreateBook(ctx, Book{UserID: 1, Isbn: "9780306406157"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CreateBook(ctx, Book{UserID: 1, Isbn: "9780306406157"}); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
	// Another user can shelve the same edition.
	if _, err := m.CreateBook(ctx, Book{UserID: 2, Isbn: "9780306406157"}); err != nil {
		t.Errorf("err = %v", err)
	}
}

func TestBooksByUserPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		_, err := m.CreateBook(ctx, Book{
			UserID:    1,
			Isbn:      fmt.Sprintf("isbn-%d", i),
			GenreID:   int64(1 + i%2),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	page, err := m.BooksByUser(ctx, 1, 0, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != 7 {
		t.Errorf("totalElements = %d, want 7", page.TotalElements)
	}
	if len(page.Content) != 3 || page.Content[0].Isbn != "isbn-3" {
		t.Errorf("content = %+v", page.Content)
	}

	// Past the end yields an empty page, not an error.
	page, err = m.BooksByUser(ctx, 1, 0, 9, 3)
	if err != nil || len(page.Content) != 0 {
		t.Errorf("content = %+v, err = %v", page.Content, err)
	}

	// Genre filter.
	page, err = m.BooksByUser(ctx, 1, 2, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != 3 {
		t.Errorf("filtered totalElements = %d, want 3", page.TotalElements)
	}
	for _, book := range page.Content {
		if book.GenreID != 2 {
			t.Errorf("book %q has genre %d", book.Isbn, book.GenreID)
		}
	}
}

func TestDeleteBookScopedToUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CreateBook(ctx, Book{UserID: 1, Isbn: "9780306406157"}); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteBook(ctx, 2, "9780306406157"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := m.DeleteBook(ctx, 1, "9780306406157"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.BookByIsbn(ctx, 1, "9780306406157"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
