package database

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"

	"github.com/HelixTeam/helieco/types"
)

const accountPrefix = "account:"

type accountRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BankBalance string `json:"bankBalance"`
	IssuedCount int    `json:"issuedCount"`
}

type BadgerBackend struct {
	Badger *badger.DB
}

func (backend *BadgerBackend) BackendName() string {
	return "Badger"
}

func Initialize(path string) (*BadgerBackend, error) {
	log.WithField("module", "database").Debugln("Loading Badger backend from", path)

	options := badger.DefaultOptions(path)
	options.Logger = nil

	db, err := badger.Open(options)
	if err != nil {
		return nil, err
	}

	return &BadgerBackend{
		Badger: db,
	}, nil
}

func accountFromRecord(record *accountRecord) *types.Account {
	account := types.NewAccount(record.ID, record.Name)
	account.BankBalance = types.ParseBalance(record.BankBalance)
	account.SetIssuedCount(record.IssuedCount)

	return account
}

func (backend *BadgerBackend) LoadAccount(id string) (*types.Account, error) {
	var account *types.Account

	err := backend.Badger.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(accountPrefix + id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(value []byte) error {
			var record accountRecord
			err := json.Unmarshal(value, &record)
			if err != nil {
				return err
			}

			account = accountFromRecord(&record)

			return nil
		})
	})

	return account, err
}

func (backend *BadgerBackend) SaveAccount(account *types.Account) error {
	jsonified, err := json.Marshal(accountRecord{
		ID:          account.ID,
		Name:        account.Name,
		BankBalance: account.BankBalance.String(),
		IssuedCount: account.IssuedCount,
	})
	if err != nil {
		return err
	}

	return backend.Badger.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(accountPrefix+account.ID), jsonified)
	})
}

func (backend *BadgerBackend) LoadAllAccounts() ([]*types.Account, error) {
	accounts := make([]*types.Account, 0)

	err := backend.Badger.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = []byte(accountPrefix)

		it := txn.NewIterator(options)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var record accountRecord
				err := json.Unmarshal(value, &record)
				if err != nil {
					return err
				}

				accounts = append(accounts, accountFromRecord(&record))

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})

	return accounts, err
}

func (backend *BadgerBackend) Cleanup() error {
	return backend.Badger.Close()
}
