package database

import (
	"path"
	"strings"

	"github.com/pkg/errors"

	badger_backend "github.com/HelixTeam/helieco/database/badger"
	json_backend "github.com/HelixTeam/helieco/database/json"
	"github.com/HelixTeam/helieco/types"
)

type Config struct {
	Backend string
	DataDir string
}

// AccountBackend is the durable account store: one record per account id,
// pure read/write with no business logic.
type AccountBackend interface {
	BackendName() string

	LoadAccount(id string) (*types.Account, error)
	SaveAccount(account *types.Account) error
	LoadAllAccounts() ([]*types.Account, error)

	Cleanup() error
}

type Database struct {
	Backend AccountBackend
	Config  *Config
}

func New(cfg *Config) *Database {
	return &Database{
		Config: cfg,
	}
}

func (db *Database) InitializeBackend() (AccountBackend, error) {
	switch strings.ToLower(db.Config.Backend) {
	case "badger":
		return badger_backend.Initialize(path.Join(db.Config.DataDir, "Badger"))
	case "json", "":
		return json_backend.Initialize(path.Join(db.Config.DataDir, "JSON", "accounts"))
	}

	return nil, errors.Errorf("invalid database backend %q", db.Config.Backend)
}

func (db *Database) ValidateAndStart() error {
	if len(db.Config.DataDir) == 0 {
		return errors.New("invalid DataDir provided")
	}

	backend, err := db.InitializeBackend()
	if err != nil {
		return err
	}

	db.Backend = backend

	return nil
}

func (db *Database) Cleanup() error {
	return db.Backend.Cleanup()
}
