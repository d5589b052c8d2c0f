package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is the in-process backend used by the demo server and the tests.
type Memory struct {
	mu          sync.Mutex
	users       map[int64]User
	genres      map[int64]Genre
	books       map[int64]map[string]Book // userID -> isbn -> book
	nextUserID  int64
	nextGenreID int64
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[int64]User),
		genres: make(map[int64]Genre),
		books:  make(map[int64]map[string]Book),
	}
}

func (m *Memory) CreateUser(_ context.Context, user User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return User{}, ErrAlreadyExists
		}
	}
	m.nextUserID++
	user.ID = m.nextUserID
	m.users[user.ID] = user
	return user, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *Memory) UserByID(_ context.Context, id int64) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (m *Memory) CreateGenre(_ context.Context, genre Genre) (Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.genres {
		if existing.UserID == genre.UserID && strings.EqualFold(existing.Name, genre.Name) {
			return Genre{}, ErrAlreadyExists
		}
	}
	m.nextGenreID++
	genre.ID = m.nextGenreID
	m.genres[genre.ID] = genre
	return genre, nil
}

func (m *Memory) GenresByUser(_ context.Context, userID int64) ([]Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Genre, 0)
	for _, genre := range m.genres {
		if genre.UserID == userID {
			result = append(result, genre)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) GenreByID(_ context.Context, id int64) (Genre, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	genre, ok := m.genres[id]
	if !ok {
		return Genre{}, ErrNotFound
	}
	return genre, nil
}

func (m *Memory) CreateBook(_ context.Context, book Book) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shelf, ok := m.books[book.UserID]
	if !ok {
		shelf = make(map[string]Book)
		m.books[book.UserID] = shelf
	}
	if _, exists := shelf[book.Isbn]; exists {
		return Book{}, ErrAlreadyExists
	}
	shelf[book.Isbn] = book
	return book, nil
}

func (m *Memory) UpdateBook(_ context.Context, book Book) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shelf, ok := m.books[book.UserID]
	if !ok {
		return Book{}, ErrNotFound
	}
	if _, exists := shelf[book.Isbn]; !exists {
		return Book{}, ErrNotFound
	}
	shelf[book.Isbn] = book
	return book, nil
}

func (m *Memory) DeleteBook(_ context.Context, userID int64, isbn string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	shelf, ok := m.books[userID]
	if !ok {
		return ErrNotFound
	}
	if _, exists := shelf[isbn]; !exists {
		return ErrNotFound
	}
	delete(shelf, isbn)
	return nil
}

func (m *Memory) BookByIsbn(_ context.Context, userID int64, isbn string) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shelf, ok := m.books[userID]
	if !ok {
		return Book{}, ErrNotFound
	}
	book, exists := shelf[isbn]
	if !exists {
		return Book{}, ErrNotFound
	}
	return book, nil
}

func (m *Memory) BooksByUser(_ context.Context, userID, genreID int64, page, size int) (BookPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]Book, 0)
	for _, book := range m.books[userID] {
		if genreID == 0 || book.GenreID == genreID {
			all = append(all, book)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].Isbn < all[j].Isbn
	})

	total := int64(len(all))
	start := page * size
	if start >= len(all) {
		return BookPage{Content: []Book{}, TotalElements: total}, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return BookPage{Content: all[start:end], TotalElements: total}, nil
}
