package node

import (
	"github.com/HelixTeam/helieco/database"
	"github.com/HelixTeam/helieco/ledger"
	"github.com/HelixTeam/helieco/rpc"
)

type LogsConfig struct {
	Level string
}

type Config struct {
	HTTP     rpc.HTTPConfig
	Database database.Config
	Currency ledger.Config
	Logs     LogsConfig
}
