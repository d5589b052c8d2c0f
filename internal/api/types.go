package api

// Book is the server's representation of one catalogued book. The isbn is
// the natural key, unique per user; uniqueness is enforced server-side and
// surfaces here as a conflict error.
type Book struct {
	Isbn           string `json:"isbn"`
	Title          string `json:"title"`
	GenreID        int64  `json:"genreId"`
	Genre          string `json:"genre"`
	PublishedDate  string `json:"publishedDate"`
	Synopsis       string `json:"synopsis"`
	UserID         int64  `json:"userId"`
	CreatedAt      string `json:"createdAt"`
	CoverImagePath string `json:"coverImagePath,omitempty"`
}

// BookInput is the creation payload. The user id never travels with it: the
// server derives it from the bearer credential.
type BookInput struct {
	Isbn          string `json:"isbn"`
	Title         string `json:"title"`
	GenreID       int64  `json:"genreId"`
	PublishedDate string `json:"publishedDate"`
	Synopsis      string `json:"synopsis"`
}

// BookUpdate is the partial-update payload. Isbn selects the book; nil
// fields are left untouched by the server.
type BookUpdate struct {
	Isbn          string  `json:"isbn"`
	Title         *string `json:"title,omitempty"`
	GenreID       *int64  `json:"genreId,omitempty"`
	PublishedDate *string `json:"publishedDate,omitempty"`
	Synopsis      *string `json:"synopsis,omitempty"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Page is one bounded slice of the collection, a snapshot rather than a live
// view. Number is zero-based.
type Page struct {
	Content       []Book `json:"content"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Size          int    `json:"size"`
	Number        int    `json:"number"`
}
