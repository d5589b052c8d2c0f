package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Postgres implements Storage over database/sql with the lib/pq driver.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the schema when it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS genres (
			genre_id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			name TEXT NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS genres_user_name_idx
			ON genres (user_id, lower(name))`,
		`CREATE TABLE IF NOT EXISTS books (
			user_id BIGINT NOT NULL REFERENCES users (user_id) ON DELETE CASCADE,
			isbn TEXT NOT NULL,
			title TEXT NOT NULL,
			genre_id BIGINT NOT NULL REFERENCES genres (genre_id),
			published_date TEXT NOT NULL,
			synopsis TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			cover_image_path TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (user_id, isbn)
		)`,
	}
	for _, statement := range statements {
		if _, err := p.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

func (p *Postgres) CreateUser(ctx context.Context, user User) (User, error) {
	err := p.db.QueryRowContext(ctx,
		"INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING user_id",
		user.Username, user.Email, user.PasswordHash).Scan(&user.ID)
	if isUniqueViolation(err) {
		return User{}, ErrAlreadyExists
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := p.db.QueryRowContext(ctx,
		"SELECT user_id, username, email, password FROM users WHERE lower(email) = lower($1)",
		email).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (p *Postgres) UserByID(ctx context.Context, id int64) (User, error) {
	var user User
	err := p.db.QueryRowContext(ctx,
		"SELECT user_id, username, email, password FROM users WHERE user_id = $1",
		id).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (p *Postgres) CreateGenre(ctx context.Context, genre Genre) (Genre, error) {
	err := p.db.QueryRowContext(ctx,
		"INSERT INTO genres (user_id, name) VALUES ($1, $2) RETURNING genre_id",
		genre.UserID, genre.Name).Scan(&genre.ID)
	if isUniqueViolation(err) {
		return Genre{}, ErrAlreadyExists
	}
	if err != nil {
		return Genre{}, err
	}
	return genre, nil
}

func (p *Postgres) GenresByUser(ctx context.Context, userID int64) ([]Genre, error) {
	rows, err := p.db.QueryContext(ctx,
		"SELECT genre_id, user_id, name FROM genres WHERE user_id = $1 ORDER BY genre_id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Genre, 0)
	for rows.Next() {
		var genre Genre
		if err := rows.Scan(&genre.ID, &genre.UserID, &genre.Name); err != nil {
			return nil, err
		}
		result = append(result, genre)
	}
	return result, rows.Err()
}

func (p *Postgres) GenreByID(ctx context.Context, id int64) (Genre, error) {
	var genre Genre
	err := p.db.QueryRowContext(ctx,
		"SELECT genre_id, user_id, name FROM genres WHERE genre_id = $1",
		id).Scan(&genre.ID, &genre.UserID, &genre.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Genre{}, ErrNotFound
	}
	if err != nil {
		return Genre{}, err
	}
	return genre, nil
}

func (p *Postgres) CreateBook(ctx context.Context, book Book) (Book, error) {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO books (user_id, isbn, title, genre_id, published_date, synopsis, created_at, cover_image_path)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		book.UserID, book.Isbn, book.Title, book.GenreID, book.PublishedDate,
		book.Synopsis, book.CreatedAt, book.CoverImagePath)
	if isUniqueViolation(err) {
		return Book{}, ErrAlreadyExists
	}
	if err != nil {
		return Book{}, err
	}
	return book, nil
}

func (p *Postgres) UpdateBook(ctx context.Context, book Book) (Book, error) {
	result, err := p.db.ExecContext(ctx,
		`UPDATE books SET title = $1, genre_id = $2, published_date = $3, synopsis = $4, cover_image_path = $5
		 WHERE user_id = $6 AND isbn = $7`,
		book.Title, book.GenreID, book.PublishedDate, book.Synopsis,
		book.CoverImagePath, book.UserID, book.Isbn)
	if err != nil {
		return Book{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Book{}, err
	}
	if affected == 0 {
		return Book{}, ErrNotFound
	}
	return book, nil
}

func (p *Postgres) DeleteBook(ctx context.Context, userID int64, isbn string) error {
	result, err := p.db.ExecContext(ctx,
		"DELETE FROM books WHERE user_id = $1 AND isbn = $2", userID, isbn)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) BookByIsbn(ctx context.Context, userID int64, isbn string) (Book, error) {
	var book Book
	err := p.db.QueryRowContext(ctx,
		`SELECT user_id, isbn, title, genre_id, published_date, synopsis, created_at, cover_image_path
		 FROM books WHERE user_id = $1 AND isbn = $2`,
		userID, isbn).Scan(&book.UserID, &book.Isbn, &book.Title, &book.GenreID,
		&book.PublishedDate, &book.Synopsis, &book.CreatedAt, &book.CoverImagePath)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return book, nil
}

func (p *Postgres) BooksByUser(ctx context.Context, userID, genreID int64, page, size int) (BookPage, error) {
	var total int64
	err := p.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM books WHERE user_id = $1 AND ($2 = 0 OR genre_id = $2)",
		userID, genreID).Scan(&total)
	if err != nil {
		return BookPage{}, err
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT user_id, isbn, title, genre_id, published_date, synopsis, created_at, cover_image_path
		 FROM books WHERE user_id = $1 AND ($2 = 0 OR genre_id = $2)
		 ORDER BY created_at, isbn LIMIT $3 OFFSET $4`,
		userID, genreID, size, page*size)
	if err != nil {
		return BookPage{}, err
	}
	defer rows.Close()

	content := make([]Book, 0, size)
	for rows.Next() {
		var book Book
		if err := rows.Scan(&book.UserID, &book.Isbn, &book.Title, &book.GenreID,
			&book.PublishedDate, &book.Synopsis, &book.CreatedAt, &book.CoverImagePath); err != nil {
			return BookPage{}, err
		}
		content = append(content, book)
	}
	return BookPage{Content: content, TotalElements: total}, rows.Err()
}
