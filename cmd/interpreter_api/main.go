// Interpreter API reads telegrams from the P1 port, decodes them and broadcasts the packets.
package main

import (
	"fmt"
	"net/http"

	"github.com/NotCoffee418/p1_decoder/pkg/config"
	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/NotCoffee418/p1_decoder/pkg/pathing"
	"github.com/NotCoffee418/p1_decoder/pkg/port_reader"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}
	if err := config.LoadInterpreterAPIConfig(); err != nil {
		log.Fatalf("Failed to load interpreter API config: %v", err)
	}
	cfg := config.ActiveInterpreterAPIConfig

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load meter timezone: %v", err)
	}
	decoder := dsmr.NewDecoder(
		dsmr.WithLocation(loc),
		dsmr.WithGasChannel(cfg.GasMBusChannel),
	)
	server := newAPIServer(decoder, log.WithField("component", "interpreter_api"))

	p1Reader := port_reader.NewP1Reader(
		cfg.SerialDevice,
		cfg.Baudrate,
		port_reader.Options{ValidateCRC: cfg.ValidateCRC},
	)

	p1Reader.StartReading(
		server.handleTelegram,
		func(err error) {
			if err != nil {
				log.Fatalf("Error reading P1 port: %v", err)
			}
		},
		func() {
			log.Info("P1 port closed")
		},
	)

	listener := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)

	log.Infof("Starting P1 interpreter API on %s", listener)
	log.Fatal(http.ListenAndServe(listener, server.routes()))
}
