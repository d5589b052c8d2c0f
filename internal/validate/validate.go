// Package validate checks form input before any request leaves the client.
// Rules and messages mirror the creation, login, register, genre, and
// delete-by-isbn forms; a non-empty result means the request is not sent.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Errors maps a field name to the first message that failed for it.
type Errors map[string]string

// Validator records at most one error per field, applying rules in order.
type Validator struct {
	errs Errors
}

func New() *Validator {
	return &Validator{errs: make(Errors)}
}

func (v *Validator) fail(field, message string) {
	if _, seen := v.errs[field]; !seen {
		v.errs[field] = message
	}
}

// Check records message for field when ok is false.
func (v *Validator) Check(field string, ok bool, message string) *Validator {
	if !ok {
		v.fail(field, message)
	}
	return v
}

func (v *Validator) HasErrors() bool { return len(v.errs) > 0 }

// Errors returns nil when everything passed.
func (v *Validator) Errors() Errors {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(value string) bool {
	return emailPattern.MatchString(value)
}

func validDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func notFuture(value string, now time.Time) bool {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !date.After(today)
}

func containsLetter(value string) bool {
	return strings.IndexFunc(value, unicode.IsLetter) >= 0
}

func containsDigit(value string) bool {
	return strings.IndexFunc(value, unicode.IsDigit) >= 0
}

// BookForm is the creation-form input.
type BookForm struct {
	Isbn          string
	Title         string
	GenreID       int64
	PublishedDate string
	Synopsis      string
}

// Book validates the creation form.
func Book(form BookForm) Errors {
	v := New()

	isbn := strings.TrimSpace(form.Isbn)
	v.Check("isbn", isbn != "", "The ISBN is required.")
	if isbn != "" {
		v.Check("isbn", ValidISBN(isbn), "Invalid ISBN (must be ISBN-10 or ISBN-13).")
	}

	title := strings.TrimSpace(form.Title)
	v.Check("title", len(title) >= 2, "Title must have at least 2 characters.")
	v.Check("title", len(title) <= 200, "Title must have at most 200 characters.")

	v.Check("genreId", form.GenreID != 0, "The genre is required.")
	v.Check("genreId", form.GenreID >= 0, "Invalid genre.")

	v.Check("publishedDate", form.PublishedDate != "", "The date is required.")
	if form.PublishedDate != "" {
		v.Check("publishedDate", validDate(form.PublishedDate), "Invalid date.")
		if validDate(form.PublishedDate) {
			v.Check("publishedDate", notFuture(form.PublishedDate, time.Now()), "The date cannot be in the future.")
		}
	}

	synopsis := strings.TrimSpace(form.Synopsis)
	v.Check("synopsis", len(synopsis) >= 10, "Synopsis must have at least 10 characters.")
	v.Check("synopsis", len(synopsis) <= 5000, "Synopsis is too long.")

	return v.Errors()
}

// SearchISBN validates the delete-by-isbn search box. The length check runs
// on the separator-stripped form, so "0-306-40615" style input counts its
// digits only.
func SearchISBN(raw string) Errors {
	v := New()
	isbn := strings.TrimSpace(raw)
	v.Check("isbn", isbn != "", "The ISBN must not be empty.")
	if isbn != "" {
		v.Check("isbn", len(CleanISBN(isbn)) >= 10, "The ISBN must be at least 10 characters long.")
		v.Check("isbn", ValidISBN(isbn), "Invalid ISBN (must be ISBN-10 or ISBN-13).")
	}
	return v.Errors()
}

// Login validates the login form.
func Login(email, password string) Errors {
	v := New()

	email = strings.TrimSpace(email)
	v.Check("email", email != "", "Mail is obligatory.")
	if email != "" {
		v.Check("email", validEmail(email), "Invalid e-mail address.")
	}

	v.Check("password", password != "", "The password is mandatory.")
	v.Check("password", len(password) >= 6, "Must be at least 6 characters long.")

	return v.Errors()
}

// Register validates the registration form.
func Register(username, email, password string) Errors {
	v := New()

	v.Check("username", strings.TrimSpace(username) != "", "The user name is mandatory.")

	email = strings.TrimSpace(email)
	v.Check("email", email != "", "The e-mail address is compulsory.")
	if email != "" {
		v.Check("email", validEmail(email), "Invalid e-mail address.")
	}

	v.Check("password", password != "", "The password is mandatory.")
	v.Check("password", len(password) >= 6, "Must be at least 6 characters long.")
	v.Check("password", containsLetter(password), "Must contain at least one letter.")
	v.Check("password", containsDigit(password), "Must contain at least one number.")

	return v.Errors()
}

// GenreName validates the new-genre form.
func GenreName(name string) Errors {
	v := New()
	name = strings.TrimSpace(name)
	v.Check("name", name != "", "The genre name is mandatory.")
	v.Check("name", len(name) <= 100, "The name is too long.")
	return v.Errors()
}
