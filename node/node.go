package node

import (
	log "github.com/sirupsen/logrus"

	"github.com/HelixTeam/helieco/database"
	"github.com/HelixTeam/helieco/lands"
	"github.com/HelixTeam/helieco/ledger"
	"github.com/HelixTeam/helieco/rpc"
	"github.com/HelixTeam/helieco/world"
)

// Options carries the collaborators only the host environment can supply:
// the external ownership/banking object (any shape, bound by probing) and
// the payment sink credited on redemption.
type Options struct {
	LandsAPI interface{}
	Sink     ledger.PaymentSink
}

type Node struct {
	db       *database.Database
	world    *world.World
	lands    *lands.Adapter
	registry *ledger.Registry
	http     *rpc.HTTPRPCServer
}

func New(cfg *Config, opts *Options) (*Node, error) {
	if opts == nil {
		opts = &Options{}
	}

	db := database.New(&cfg.Database)
	w := world.New(cfg.Currency.HoldingSlots)
	adapter := lands.New(opts.LandsAPI)
	registry := ledger.NewRegistry(&cfg.Currency, db, w, adapter, opts.Sink)

	node := Node{
		db:       db,
		world:    w,
		lands:    adapter,
		registry: registry,
		http:     rpc.NewHTTPRPCServer(&cfg.HTTP),
	}

	return &node, nil
}

func (node *Node) Registry() *ledger.Registry {
	return node.registry
}

func (node *Node) World() *world.World {
	return node.world
}

func (node *Node) Start() error {
	err := node.db.ValidateAndStart()
	if err != nil {
		return err
	}

	log.Infoln("Using", node.db.Backend.BackendName(), "account store")

	err = node.registry.LoadAll()
	if err != nil {
		return err
	}

	node.registry.StartPeriodicSync()

	return node.http.ValidateAndStart(node.registry, node.lands)
}

func (node *Node) Stop() error {
	node.registry.StopPeriodicSync()

	return node.db.Cleanup()
}
