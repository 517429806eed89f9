package config

import (
	"fmt"

	pkgconfig "github.com/lewisedginton/teambuilder_concierge/pkg/config"
)

// Directory drivers.
const (
	DirectoryMemory   = "memory"
	DirectoryPostgres = "postgres"
	DirectorySQLite   = "sqlite"
)

// DirectoryConfig picks the user directory backend.
type DirectoryConfig struct {
	Driver      string                   `env:"DIRECTORY_DRIVER" yaml:"driver" default:"memory"`
	SQLitePath  string                   `env:"SQLITE_PATH" yaml:"sqlite_path" default:"teambuilder.db"`
	AutoMigrate bool                     `env:"DIRECTORY_AUTO_MIGRATE" yaml:"auto_migrate" default:"true"`
	SeedDemo    bool                     `env:"DIRECTORY_SEED_DEMO" yaml:"seed_demo"`
	Postgres    pkgconfig.DatabaseConfig `yaml:"postgres"`
}

func (d DirectoryConfig) Validate() error {
	switch d.Driver {
	case DirectoryMemory:
		return nil
	case DirectorySQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite directory")
		}
		return nil
	case DirectoryPostgres:
		return d.Postgres.Validate()
	}
	return fmt.Errorf("directory driver must be one of [memory, postgres, sqlite], got %q", d.Driver)
}
