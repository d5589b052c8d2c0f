package genre

type GenreRequest struct {
	Name string `json:"name"`
}

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
