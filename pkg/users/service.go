package users

import (
	"context"
	"database/sql"
	"time"

	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles user operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	Email    *string
	Password string
	RoleName string
}

// Create creates a new active user with the named role.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     opts.Username,
		Email:        opts.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("username = ? COLLATE NOCASE", opts.Username).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.Conflict("Username already exists")
		}

		user.RoleID, err = roleID(ctx, tx, opts.RoleName)
		if err != nil {
			return err
		}

		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		_, err = tx.NewInsert().Model(user).Exec(ctx)
		if errcodes.IsUniqueViolation(err) {
			return errcodes.Conflict("Username already exists")
		}
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	// Reload with relations
	return s.Retrieve(ctx, user.ID)
}

// Retrieve gets a user by ID with their role and its permissions.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Role").
		Relation("Role.Permissions").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// ListOptions contains options for listing users.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns a paginated list of users.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	users := []*models.User{}

	query := s.db.NewSelect().
		Model(&users).
		Relation("Role").
		Order("u.id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

// UpdateOptions contains options for updating a user.
type UpdateOptions struct {
	Columns  []string
	RoleName *string
}

// Update updates a user. A role change is given by name and resolved here.
func (s *Service) Update(ctx context.Context, user *models.User, opts UpdateOptions) error {
	if len(opts.Columns) == 0 && opts.RoleName == nil {
		return nil
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		columns := opts.Columns[:len(opts.Columns):len(opts.Columns)]
		if opts.RoleName != nil {
			id, err := roleID(ctx, tx, *opts.RoleName)
			if err != nil {
				return err
			}
			user.RoleID = id
			columns = append(columns, "role_id")
		}

		user.UpdatedAt = time.Now()
		columns = append(columns, "updated_at")
		_, err := tx.NewUpdate().
			Model(user).
			Column(columns...).
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// ResetPassword changes a user's password.
func (s *Service) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	res, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("password_hash = ?", hashedPassword).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("User")
	}

	return nil
}

// Deactivate deactivates a user (soft delete). Their loans are kept so the
// copies can still be returned.
func (s *Service) Deactivate(ctx context.Context, userID int) error {
	res, err := s.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("User")
	}
	return nil
}

func roleID(ctx context.Context, tx bun.Tx, name string) (int, error) {
	role := &models.Role{}
	err := tx.NewSelect().
		Model(role).
		Where("r.name = ?", name).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errcodes.ValidationError("Invalid role")
		}
		return 0, errors.WithStack(err)
	}
	return role.ID, nil
}
