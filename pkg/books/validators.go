package books

type ListBooksQuery struct {
	Limit      int     `query:"limit" json:"limit,omitempty" default:"24" validate:"min=1,max=50"`
	Offset     int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	AuthorID   *int    `query:"author_id" json:"author_id,omitempty" validate:"omitempty,min=1"`
	GenreID    *int    `query:"genre_id" json:"genre_id,omitempty" validate:"omitempty,min=1"`
	LanguageID *int    `query:"language_id" json:"language_id,omitempty" validate:"omitempty,min=1"`
	Search     *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateBookPayload struct {
	Title      string `json:"title" mod:"trim" validate:"required,max=200"`
	AuthorID   *int   `json:"author_id,omitempty" validate:"omitempty,min=1"`
	Summary    string `json:"summary" mod:"trim" validate:"required,max=1000"`
	ISBN       string `json:"isbn" mod:"trim" validate:"required,isbn"`
	LanguageID *int   `json:"language_id,omitempty" validate:"omitempty,min=1"`
	GenreIDs   []int  `json:"genre_ids,omitempty" validate:"omitempty,dive,min=1"`
}

// UpdateBookPayload only changes the fields that are present. Sending a null
// author or language isn't distinguishable from omitting it, so they're
// cleared with ClearAuthor and ClearLanguage.
type UpdateBookPayload struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=200"`
	AuthorID      *int    `json:"author_id,omitempty" validate:"omitempty,min=1"`
	ClearAuthor   bool    `json:"clear_author,omitempty"`
	Summary       *string `json:"summary,omitempty" validate:"omitempty,max=1000"`
	ISBN          *string `json:"isbn,omitempty" validate:"omitempty,isbn"`
	LanguageID    *int    `json:"language_id,omitempty" validate:"omitempty,min=1"`
	ClearLanguage bool    `json:"clear_language,omitempty"`
	GenreIDs      *[]int  `json:"genre_ids,omitempty"`
}
