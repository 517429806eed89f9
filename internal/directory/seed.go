package directory

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/lewisedginton/teambuilder_concierge/pkg/prefixed_uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SeedFile is the YAML document read by LoadSeedFile.
type SeedFile struct {
	Users []User `yaml:"users"`
}

// LoadSeedFile reads and validates a YAML roster.
func LoadSeedFile(path string) ([]User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if err := ValidateUsers(f.Users); err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return f.Users, nil
}

// ValidateUsers checks every user and reports all failures together.
func ValidateUsers(users []User) error {
	if len(users) == 0 {
		return errors.New("no users to seed")
	}
	var result error
	for i, u := range users {
		if err := validate.Struct(u); err != nil {
			result = multierror.Append(result, fmt.Errorf("user %d (%s): %w", i, u.Name, err))
		}
		if u.ID != "" {
			if _, err := prefixed_uuid.ParseWithPrefix(u.ID, UserIDPrefix); err != nil {
				result = multierror.Append(result, fmt.Errorf("user %d (%s): id: %w", i, u.Name, err))
			}
		}
	}
	return result
}

// Seed validates users and upserts them into dir, returning how many were
// written.
func Seed(ctx context.Context, dir Directory, users []User) (int, error) {
	if err := ValidateUsers(users); err != nil {
		return 0, err
	}
	for i, u := range users {
		if _, err := dir.UpsertUser(ctx, u); err != nil {
			return i, fmt.Errorf("upsert %s: %w", u.Name, err)
		}
	}
	return len(users), nil
}
