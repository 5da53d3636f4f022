package model

type Genre struct {
	ID   int
	Name string
}

type Movie struct {
	ID               int64
	Title            string
	Overview         string
	PosterPath       *string
	BackdropPath     *string
	ReleaseDate      string
	VoteAverage      float64
	VoteCount        int
	GenreIDs         []int
	Adult            bool
	OriginalLanguage string
	OriginalTitle    string
	Popularity       float64
	Video            bool
}

type MoviePage struct {
	Movies       []Movie
	Page         int
	TotalPages   int
	TotalResults int
}
