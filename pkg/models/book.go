package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ISBNLength is the number of characters in an ISBN-13.
const ISBNLength = 13

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int             `bun:",pk,autoincrement" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Title      string          `bun:",notnull" json:"title"`
	AuthorID   *int            `json:"author_id"`
	Author     *Author         `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	Summary    string          `bun:",notnull" json:"summary"`
	ISBN       string          `bun:"isbn,notnull" json:"isbn"`
	LanguageID *int            `json:"language_id"`
	Language   *Language       `bun:"rel:belongs-to,join:language_id=id" json:"language,omitempty"`
	Genres     []*Genre        `bun:"m2m:book_genres,join:Book=Genre" json:"genres"`
	Instances  []*BookInstance `bun:"rel:has-many,join:id=book_id" json:"instances,omitempty"`
}
