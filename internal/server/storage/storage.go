// Package storage is the persistence boundary of the reference server.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
}

type Genre struct {
	ID     int64
	UserID int64
	Name   string
}

type Book struct {
	Isbn           string
	Title          string
	GenreID        int64
	PublishedDate  string
	Synopsis       string
	UserID         int64
	CreatedAt      time.Time
	CoverImagePath string
}

// BookPage is one slice of a user's books plus the unsliced total.
type BookPage struct {
	Content       []Book
	TotalElements int64
}

type Storage interface {
	// CreateUser stores the user; ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, user User) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id int64) (User, error)

	// CreateGenre stores the genre; names are unique per user,
	// case-insensitively.
	CreateGenre(ctx context.Context, genre Genre) (Genre, error)
	GenresByUser(ctx context.Context, userID int64) ([]Genre, error)
	GenreByID(ctx context.Context, id int64) (Genre, error)

	// CreateBook stores the book; the isbn is unique per user.
	CreateBook(ctx context.Context, book Book) (Book, error)
	UpdateBook(ctx context.Context, book Book) (Book, error)
	DeleteBook(ctx context.Context, userID int64, isbn string) error
	BookByIsbn(ctx context.Context, userID int64, isbn string) (Book, error)
	// BooksByUser lists one zero-based page ordered by creation time;
	// genreID 0 means no genre filter.
	BooksByUser(ctx context.Context, userID, genreID int64, page, size int) (BookPage, error)
}
