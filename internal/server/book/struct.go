package book

type BookRequest struct {
	Isbn          string `json:"isbn"`
	Title         string `json:"title"`
	GenreID       int64  `json:"genreId"`
	PublishedDate string `json:"publishedDate"`
	Synopsis      string `json:"synopsis"`
}

// BookUpdateRequest carries a partial update; nil fields stay untouched.
type BookUpdateRequest struct {
	Isbn          string  `json:"isbn"`
	Title         *string `json:"title"`
	GenreID       *int64  `json:"genreId"`
	PublishedDate *string `json:"publishedDate"`
	Synopsis      *string `json:"synopsis"`
}

type BookResponse struct {
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

type PageResponse struct {
	Content       []BookResponse `json:"content"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Size          int            `json:"size"`
	Number        int            `json:"number"`
}
