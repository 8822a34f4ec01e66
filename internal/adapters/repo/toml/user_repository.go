package toml

import (
	"context"

	"github.com/nexustools/datameq-cli/internal/domain"
	"github.com/nexustools/datameq-cli/internal/ports"
)

type userRepository struct {
	store *Store
}

var _ ports.UserRepository = userRepository{}

func (r userRepository) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	file, err := r.store.view(ctx)
	if err != nil {
		return domain.User{}, err
	}

	for _, entry := range file.Users {
		if entry.ID == string(id) {
			return fromUserSchema(entry), nil
		}
	}

	return domain.User{}, domain.ErrUserNotFound
}

func (r userRepository) List(ctx context.Context) ([]domain.User, error) {
	file, err := r.store.view(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(file.Users))
	for _, entry := range file.Users {
		users = append(users, fromUserSchema(entry))
	}

	return users, nil
}

func (r userRepository) Save(ctx context.Context, user domain.User) error {
	return r.store.update(ctx, func(file *fileSchema) error {
		encoded := toUserSchema(user)
		for i := range file.Users {
			if file.Users[i].ID == encoded.ID {
				file.Users[i] = encoded
				return nil
			}
		}

		file.Users = append(file.Users, encoded)
		return nil
	})
}

// Update decodes, mutates, and re-encodes the record inside one store
// transaction, so concurrent updates to the same user never lose increments.
func (r userRepository) Update(ctx context.Context, id domain.UserID, fn func(*domain.User) error) error {
	return r.store.update(ctx, func(file *fileSchema) error {
		for i := range file.Users {
			if file.Users[i].ID != string(id) {
				continue
			}

			user := fromUserSchema(file.Users[i])
			if err := fn(&user); err != nil {
				return err
			}
			file.Users[i] = toUserSchema(user)
			return nil
		}

		return domain.ErrUserNotFound
	})
}
