package sqlstore

import (
	"context"

	"github.com/julianstephens/carelog/internal/models"
)

const userColumns = "id, name, email, api_token, created_at"

func (s *Store) AddUser(ctx context.Context, user models.User) error {
	_, err := s.exec(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.APIToken, formatTime(user.CreatedAt))
	return s.writeErr(err, "user")
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) GetUserByToken(ctx context.Context, token string) (models.User, error) {
	return s.getUser(ctx, "api_token", token)
}

// getUser looks a user up by one of its unique columns
func (s *Store) getUser(ctx context.Context, column, value string) (models.User, error) {
	row := s.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, readErr(err, "user")
	}
	return u, nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUserToken(ctx context.Context, id, token string) error {
	res, err := s.exec(ctx, "UPDATE users SET api_token = ? WHERE id = ?", token, id)
	if err != nil {
		return s.writeErr(err, "user")
	}
	return affected(res, "user")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.APIToken, &createdAt); err != nil {
		return models.User{}, err
	}
	t, err := parseTime(createdAt, "created_at")
	if err != nil {
		return models.User{}, err
	}
	u.CreatedAt = t
	return u, nil
}
