package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		statements := []string{
			`
			CREATE TABLE roles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL,
				is_system BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE UNIQUE INDEX ux_roles_name ON roles (name COLLATE NOCASE)`,
			`
			CREATE TABLE permissions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				role_id INTEGER REFERENCES roles (id) ON DELETE CASCADE NOT NULL,
				codename TEXT NOT NULL
			)`,
			`CREATE UNIQUE INDEX ux_permissions_role_id_codename ON permissions (role_id, codename)`,
			`
			CREATE TABLE users (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL,
				email TEXT,
				password_hash TEXT NOT NULL,
				role_id INTEGER REFERENCES roles (id) NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE UNIQUE INDEX ux_users_username ON users (username COLLATE NOCASE)`,
			`
			CREATE TABLE genres (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL
			)`,
			// Case-insensitive unique constraint
			`CREATE UNIQUE INDEX ux_genres_name ON genres (name COLLATE NOCASE)`,
			`
			CREATE TABLE languages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				name TEXT NOT NULL
			)`,
			`CREATE UNIQUE INDEX ux_languages_name ON languages (name COLLATE NOCASE)`,
			`
			CREATE TABLE authors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				date_of_birth DATE,
				date_of_death DATE
			)`,
			`CREATE INDEX ix_authors_last_name_first_name ON authors (last_name, first_name)`,
			`
			CREATE TABLE books (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				author_id INTEGER REFERENCES authors (id) ON DELETE RESTRICT,
				summary TEXT NOT NULL,
				isbn TEXT NOT NULL CHECK (length(isbn) = 13),
				language_id INTEGER REFERENCES languages (id) ON DELETE SET NULL
			)`,
			`CREATE UNIQUE INDEX ux_books_isbn ON books (isbn)`,
			`CREATE INDEX ix_books_author_id ON books (author_id)`,
			`CREATE INDEX ix_books_language_id ON books (language_id)`,
			`CREATE INDEX ix_books_title ON books (title)`,
			`
			CREATE TABLE book_genres (
				book_id INTEGER REFERENCES books (id) ON DELETE CASCADE NOT NULL,
				genre_id INTEGER REFERENCES genres (id) ON DELETE CASCADE NOT NULL,
				PRIMARY KEY (book_id, genre_id)
			)`,
			`CREATE INDEX ix_book_genres_genre_id ON book_genres (genre_id)`,
			`
			CREATE TABLE book_instances (
				id TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_id INTEGER REFERENCES books (id) ON DELETE RESTRICT NOT NULL,
				imprint TEXT NOT NULL,
				due_back DATE,
				status TEXT NOT NULL DEFAULT 'm' CHECK (status IN ('m', 'o', 'a', 'r')),
				borrower_id INTEGER REFERENCES users (id) ON DELETE SET NULL
			)`,
			`CREATE INDEX ix_book_instances_book_id ON book_instances (book_id)`,
			`CREATE INDEX ix_book_instances_due_back ON book_instances (due_back)`,
			`CREATE INDEX ix_book_instances_borrower_id_status ON book_instances (borrower_id, status)`,
		}
		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{
			"book_instances",
			"book_genres",
			"books",
			"authors",
			"languages",
			"genres",
			"users",
			"permissions",
			"roles",
		}
		for _, table := range tables {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
