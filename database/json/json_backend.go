package database

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/HelixTeam/helieco/types"
)

// AccountRecord is the on-disk layout: one <id>.json file per account, with
// the balance stored as an exact decimal string, never as a binary float.
type AccountRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BankBalance string `json:"bankBalance"`
	IssuedCount int    `json:"issuedCount"`
}

func (record *AccountRecord) ToAccount() *types.Account {
	account := types.NewAccount(record.ID, record.Name)
	account.BankBalance = types.ParseBalance(record.BankBalance)
	account.SetIssuedCount(record.IssuedCount)

	return account
}

func RecordFromAccount(account *types.Account) AccountRecord {
	return AccountRecord{
		ID:          account.ID,
		Name:        account.Name,
		BankBalance: account.BankBalance.String(),
		IssuedCount: account.IssuedCount,
	}
}

type JSONBackend struct {
	Dir       string
	DataMutex sync.Mutex
}

func (backend *JSONBackend) BackendName() string {
	return "JSON"
}

func Initialize(dir string) (*JSONBackend, error) {
	log.WithField("module", "database").Debugln("Loading JSON backend from", dir)

	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return nil, err
	}

	return &JSONBackend{
		Dir: dir,
	}, nil
}

func (backend *JSONBackend) recordPath(id string) string {
	return filepath.Join(backend.Dir, id+".json")
}

func (backend *JSONBackend) LoadAccount(id string) (*types.Account, error) {
	backend.DataMutex.Lock()
	defer backend.DataMutex.Unlock()

	return backend.loadRecord(backend.recordPath(id))
}

func (backend *JSONBackend) loadRecord(path string) (*types.Account, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, err
	}

	var record AccountRecord
	err = json.Unmarshal(contents, &record)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt account record %s", path)
	}

	return record.ToAccount(), nil
}

// SaveAccount upserts via tmp-file + rename so a crash mid-write never
// leaves a truncated record behind.
func (backend *JSONBackend) SaveAccount(account *types.Account) error {
	backend.DataMutex.Lock()
	defer backend.DataMutex.Unlock()

	jsonified, err := json.MarshalIndent(RecordFromAccount(account), "", "  ")
	if err != nil {
		return err
	}

	path := backend.recordPath(account.ID)
	tmp := path + ".tmp"

	err = os.WriteFile(tmp, jsonified, 0600)
	if err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func (backend *JSONBackend) LoadAllAccounts() ([]*types.Account, error) {
	backend.DataMutex.Lock()
	defer backend.DataMutex.Unlock()

	entries, err := os.ReadDir(backend.Dir)
	if err != nil {
		return nil, err
	}

	accounts := make([]*types.Account, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		account, err := backend.loadRecord(filepath.Join(backend.Dir, entry.Name()))
		if err != nil {
			log.WithField("module", "database").Warnln("Skipping unreadable account record:", err)
			continue
		}

		if account != nil {
			accounts = append(accounts, account)
		}
	}

	return accounts, nil
}

func (backend *JSONBackend) Cleanup() error {
	return nil
}
