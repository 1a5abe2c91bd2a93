// Package seed loads groups and users from YAML fixtures into the database.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/anonto42/yatube/internal/auth"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/anonto42/yatube/validators"
)

// User is a local account described in a fixture file. Password is plain
// text and hashed on import.
type User struct {
	Username string `yaml:"username" validate:"required,max=150,username,unreserved"`
	Email    string `yaml:"email" validate:"omitempty,email,max=254"`
	Password string `yaml:"password" validate:"required,min=8"`
}

// Fixtures is the document layout of a fixture file.
type Fixtures struct {
	Groups []models.Group `yaml:"groups" validate:"dive"`
	Users  []User         `yaml:"users" validate:"dive"`
}

// Result counts what Apply changed.
type Result struct {
	Groups       int
	UsersCreated int
	UsersSkipped int
}

// Load decodes and validates fixtures. Unknown keys are rejected.
func Load(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixtures
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := validators.NewValidator().Validate(&f); err != nil {
		return nil, fmt.Errorf("invalid fixtures: %w", err)
	}
	return &f, nil
}

// Apply upserts every group by slug and creates the users that do not exist
// yet. Existing users are left untouched.
func Apply(ctx context.Context, groups repositories.GroupRepository, users repositories.UserRepository, f *Fixtures, log *slog.Logger) (Result, error) {
	var res Result
	for i := range f.Groups {
		g := f.Groups[i]
		if err := groups.UpsertGroup(ctx, &g); err != nil {
			return res, fmt.Errorf("group %q: %w", g.Slug, err)
		}
		res.Groups++
	}

	for _, u := range f.Users {
		_, err := users.GetUserByUsername(ctx, u.Username)
		if err == nil {
			res.UsersSkipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("user %q: %w", u.Username, err)
		}

		hash, err := auth.HashPassword(u.Password)
		if err != nil {
			return res, err
		}
		if err := users.CreateUser(ctx, &models.User{Username: u.Username, Email: u.Email, Password: hash}); err != nil {
			return res, fmt.Errorf("user %q: %w", u.Username, err)
		}
		log.InfoContext(ctx, "user created", "username", u.Username)
		res.UsersCreated++
	}
	return res, nil
}
