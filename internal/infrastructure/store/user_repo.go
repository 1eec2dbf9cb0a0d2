package store

import (
	"context"

	"gorm.io/gorm/clause"
)

// UserRepo manages inventory owners
type UserRepo struct {
	store *Store
}

// NewUserRepo creates a user repository on the store
func NewUserRepo(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// EnsureUser creates the user on first contact; an existing row is left untouched
func (r *UserRepo) EnsureUser(ctx context.Context, userID int64, firstName string) error {
	user := User{ID: userID, FirstName: firstName}
	return r.store.exec.run(ctx, "user.ensure", func(ctx context.Context) error {
		return r.store.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&user).Error
	})
}
