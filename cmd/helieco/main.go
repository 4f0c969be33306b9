package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/naoina/toml"
	log "github.com/sirupsen/logrus"

	"github.com/HelixTeam/helieco/node"
)

var configFileName = flag.String("config", "./config.toml", "TOML config file path")

func loadConfig() (*node.Config, error) {
	f, err := os.Open(*configFileName)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	var config node.Config
	if err := toml.NewDecoder(f).Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func main() {
	flag.Parse()

	config, err := loadConfig()
	if err != nil {
		log.Fatalln("Error loading config file:", err)
	}

	if config.Logs.Level != "" {
		level, err := log.ParseLevel(config.Logs.Level)
		if err != nil {
			log.Fatalln("Invalid log level:", err)
		}

		log.SetLevel(level)
	}

	// Standalone runs have no host-provided Lands integration or payment
	// provider; external sync stays disabled and redemption requires an
	// embedding host to supply a sink.
	n, err := node.New(config, nil)
	if err != nil {
		log.Fatalln("Error initiating node instance:", err)
	}

	if err := n.Start(); err != nil {
		log.Fatalln("Error starting node:", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	if err := n.Stop(); err != nil {
		log.Errorln("Error during shutdown:", err)
	}
}
