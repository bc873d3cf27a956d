package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Librarians get every catalog capability, including marking books returned.
// Borrowers get none; they can only browse and see their own loans.
var librarianCapabilities = []string{
	"catalog.can_mark_returned",
	"catalog.add_author", "catalog.change_author", "catalog.delete_author",
	"catalog.add_book", "catalog.change_book", "catalog.delete_book",
	"catalog.add_bookinstance", "catalog.change_bookinstance",
	"catalog.add_genre", "catalog.change_genre", "catalog.delete_genre",
	"catalog.add_language", "catalog.change_language", "catalog.delete_language",
	"auth.manage_users",
}

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		for _, name := range []string{"librarian", "borrower"} {
			_, err := db.Exec(`INSERT INTO roles (name, is_system) VALUES (?, TRUE)`, name)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		var librarianRoleID int
		err := db.QueryRow(`SELECT id FROM roles WHERE name = 'librarian'`).Scan(&librarianRoleID)
		if err != nil {
			return errors.WithStack(err)
		}

		for _, codename := range librarianCapabilities {
			_, err = db.Exec(`INSERT INTO permissions (role_id, codename) VALUES (?, ?)`, librarianRoleID, codename)
			if err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DELETE FROM permissions WHERE role_id IN (SELECT id FROM roles WHERE name IN ('librarian', 'borrower'))`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`DELETE FROM roles WHERE name IN ('librarian', 'borrower')`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
