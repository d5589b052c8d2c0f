package server_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookapp/internal/api"
	"bookapp/internal/server"
	"bookapp/internal/server/cover"
	"bookapp/internal/server/storage"
	"bookapp/internal/session"
)

const testSecret = "integration-secret"

type memStore struct {
	tok string
}

func (m *memStore) Load() (string, error) { return m.tok, nil }
func (m *memStore) Save(tok string) error { m.tok = tok; return nil }
func (m *memStore) Clear() error          { m.tok = ""; return nil }

// newStack boots the full backend and a client bound to a fresh session.
func newStack(t *testing.T) (*api.Client, *session.Session) {
	t.Helper()
	router := server.NewRouter(storage.NewMemory(), cover.NewStore(t.TempDir()), testSecret, time.Hour)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	sess, err := session.New(&memStore{})
	if err != nil {
		t.Fatal(err)
	}
	client, err := api.New(srv.URL, sess, api.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return client, sess
}

func login(t *testing.T, client *api.Client, sess *session.Session, username, email string) {
	t.Helper()
	ctx := context.Background()
	if err := client.Register(ctx, username, email, "secret1"); err != nil {
		t.Fatal(err)
	}
	tok, err := client.Login(ctx, email, "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Login(tok); err != nil {
		t.Fatal(err)
	}
}

func addGenre(t *testing.T, client *api.Client, name string) int64 {
	t.Helper()
	genre, err := client.CreateGenre(context.Background(), name)
	if err != nil {
		t.Fatal(err)
	}
	return genre.ID
}

func TestRegisterLoginFlow(t *testing.T) {
	client, sess := newStack(t)
	ctx := context.Background()

	login(t, client, sess, "ivan", "ivan@example.com")
	if !sess.Authenticated() {
		t.Fatal("session should be authenticated")
	}
	claims, _ := sess.Claims()
	if claims.Username != "ivan" || claims.UserID == 0 {
		t.Errorf("claims = %+v", claims)
	}

	// Duplicate registration conflicts.
	err := client.Register(ctx, "other", "IVAN@example.com", "secret1")
	if !api.IsConflict(err) {
		t.Errorf("err = %v, want 409", err)
	}

	// Any 401 forces logout, wrong-password login responses included.
	if _, err := client.Login(ctx, "ivan@example.com", "wrong-1"); !api.IsUnauthorized(err) {
		t.Errorf("err = %v, want 401", err)
	}
	if sess.Authenticated() {
		t.Error("session should be anonymous after a 401")
	}
}

func TestBookLifecycle(t *testing.T) {
	client, sess := newStack(t)
	ctx := context.Background()
	login(t, client, sess, "ivan", "ivan@example.com")
	genreID := addGenre(t, client, "Physics")

	// Validation failures come back as a field map without creating anything.
	_, err := client.CreateBook(ctx, api.BookInput{Isbn: "bad", Title: "G", GenreID: genreID, PublishedDate: "x", Synopsis: "short"})
	fields := api.FieldErrors(err)
	if fields["isbn"] != "Invalid ISBN (must be ISBN-10 or ISBN-13)." {
		t.Errorf("fields = %v", fields)
	}

	input := api.BookInput{
		Isbn:          "9780306406157",
		Title:         "Gravitation",
		GenreID:       genreID,
		PublishedDate: "1973-09-15",
		Synopsis:      "A thorough treatment of general relativity.",
	}
	created, err := client.CreateBook(ctx, input)
	if err != nil {
		t.Fatal(err)
	}
	if created.Genre != "Physics" {
		t.Errorf("genre name = %q", created.Genre)
	}

	if _, err := client.CreateBook(ctx, input); !api.IsConflict(err) {
		t.Errorf("err = %v, want 409", err)
	}

	// Unknown genre on create is a 404.
	other := input
	other.Isbn = "0306406152"
	other.GenreID = 999
	if _, err := client.CreateBook(ctx, other); !api.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}

	title := "Gravitation (1st ed.)"
	updated, err := client.UpdateBook(ctx, api.BookUpdate{Isbn: input.Isbn, Title: &title})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != title || updated.Synopsis != input.Synopsis {
		t.Errorf("updated = %+v", updated)
	}

	got, err := client.GetBook(ctx, input.Isbn)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != title {
		t.Errorf("title = %q", got.Title)
	}

	if err := client.DeleteBook(ctx, input.Isbn); err != nil {
		t.Fatal(err)
	}
	_, err = client.GetBook(ctx, input.Isbn)
	if !api.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestPaginationAndGenreFilter(t *testing.T) {
	client, sess := newStack(t)
	ctx := context.Background()
	login(t, client, sess, "ivan", "ivan@example.com")
	physics := addGenre(t, client, "Physics")
	fiction := addGenre(t, client, "Fiction")

	isbns := []string{"9780306406157", "0306406152", "080442957X", "9780131103627", "9781491941959", "9780134190440", "9780262033848"}
	for i, isbn := range isbns {
		genre := physics
		if i%2 == 1 {
			genre = fiction
		}
		_, err := client.CreateBook(ctx, api.BookInput{
			Isbn:          isbn,
			Title:         "Book " + isbn,
			GenreID:       genre,
			PublishedDate: "2000-01-01",
			Synopsis:      "Synopsis long enough to pass.",
		})
		if err != nil {
			t.Fatalf("create %s: %v", isbn, err)
		}
	}

	page, err := client.ListBooks(ctx, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != 7 || page.TotalPages != 2 || len(page.Content) != 5 {
		t.Errorf("page = %+v", page)
	}

	last, err := client.ListBooks(ctx, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(last.Content) != 2 || last.Number != 1 {
		t.Errorf("last page = %+v", last)
	}

	filtered, err := client.ListBooksByGenre(ctx, fiction, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if filtered.TotalElements != 3 {
		t.Errorf("filtered total = %d, want 3", filtered.TotalElements)
	}
	for _, book := range filtered.Content {
		if book.GenreID != fiction {
			t.Errorf("book %q has genre %d", book.Isbn, book.GenreID)
		}
	}

	// Filtering by a genre that is not yours is a 404.
	if _, err := client.ListBooksByGenre(ctx, 999, 0, 10); !api.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestGenreConflict(t *testing.T) {
	client, sess := newStack(t)
	ctx := context.Background()
	login(t, client, sess, "ivan", "ivan@example.com")

	addGenre(t, client, "Fantasy")
	if _, err := client.CreateGenre(ctx, "fantasy"); !api.IsConflict(err) {
		t.Errorf("err = %v, want 409", err)
	}

	genres, err := client.ListGenres(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(genres) != 1 || genres[0].Name != "Fantasy" {
		t.Errorf("genres = %+v", genres)
	}
}

func TestCoverUploadAndDownload(t *testing.T) {
	client, sess := newStack(t)
	ctx := context.Background()
	login(t, client, sess, "ivan", "ivan@example.com")
	genreID := addGenre(t, client, "Physics")

	input := api.BookInput{
		Isbn:          "9780306406157",
		Title:         "Gravitation",
		GenreID:       genreID,
		PublishedDate: "1973-09-15",
		Synopsis:      "A thorough treatment of general relativity.",
	}
	if _, err := client.CreateBook(ctx, input); err != nil {
		t.Fatal(err)
	}

	book, err := client.UploadCover(ctx, input.Isbn, "cover.png", strings.NewReader("pretend png bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if book.CoverImagePath == "" {
		t.Fatal("cover path missing")
	}

	data, contentType, err := client.DownloadCover(ctx, book.CoverImagePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pretend png bytes" {
		t.Errorf("data = %q", data)
	}
	if contentType != "image/png" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestUnauthorizedRequestLogsOut(t *testing.T) {
	client, sess := newStack(t)
	ctx := context.Background()
	login(t, client, sess, "ivan", "ivan@example.com")

	// Corrupt the credential behind the session's back; the next call is
	// rejected server-side and must force the session anonymous.
	if err := sess.Login(tamper(t, sess)); err != nil {
		t.Fatal(err)
	}
	_, err := client.ListBooks(ctx, 0, 5)
	if !api.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}
	if sess.Authenticated() {
		t.Error("session should be anonymous after rejection")
	}
}

// tamper flips the last signature byte of the current token.
func tamper(t *testing.T, sess *session.Session) string {
	t.Helper()
	tok, ok := sess.Token()
	if !ok {
		t.Fatal("no token to tamper with")
	}
	last := tok[len(tok)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	return tok[:len(tok)-1] + string(replacement)
}

func TestBooksAreScopedToOwner(t *testing.T) {
	client, sess := newStack(t)
	ctx := context.Background()
	login(t, client, sess, "ivan", "ivan@example.com")
	genreID := addGenre(t, client, "Physics")

	input := api.BookInput{
		Isbn:          "9780306406157",
		Title:         "Gravitation",
		GenreID:       genreID,
		PublishedDate: "1973-09-15",
		Synopsis:      "A thorough treatment of general relativity.",
	}
	book, err := client.CreateBook(ctx, input)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.UploadCover(ctx, input.Isbn, "cover.jpg", strings.NewReader("jpegdata")); err != nil {
		t.Fatal(err)
	}
	created, err := client.GetBook(ctx, book.Isbn)
	if err != nil {
		t.Fatal(err)
	}

	// A second account sees none of it.
	login(t, client, sess, "anna", "anna@example.com")
	if _, err := client.GetBook(ctx, input.Isbn); !api.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}
	page, err := client.ListBooks(ctx, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalElements != 0 {
		t.Errorf("totalElements = %d, want 0", page.TotalElements)
	}
	if _, _, err := client.DownloadCover(ctx, created.CoverImagePath); api.StatusOf(err) != 403 {
		t.Errorf("err = %v, want 403", err)
	}
}
