// Responsible for storing the packets decoded by the interpreter API.
// Depends on the interpreter API being online.
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/aggregator"
	"github.com/NotCoffee418/p1_decoder/pkg/config"
	"github.com/NotCoffee418/p1_decoder/pkg/csvlog"
	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/NotCoffee418/p1_decoder/pkg/interpreter"
	"github.com/NotCoffee418/p1_decoder/pkg/meterdb"
	"github.com/NotCoffee418/p1_decoder/pkg/pathing"
	"github.com/NotCoffee418/p1_decoder/pkg/publisher"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type collector struct {
	db        *sql.DB
	packetLog *csvlog.PacketLog
	publisher *publisher.Publisher
	ctx       context.Context
}

func main() {
	// Variables may also be set directly in the environment
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded")
	}

	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}
	if err := config.LoadMeterCollectorConfig(); err != nil {
		log.Fatalf("Failed to load meter collector config: %v", err)
	}
	cfg := config.ActiveMeterCollectorConfig

	// INTERPRETER_API_HOST overrides the configured host:port
	host := cfg.InterpreterAPIHost
	if envHost := os.Getenv("INTERPRETER_API_HOST"); envHost != "" {
		host = envHost
	}

	if err := meterdb.InitializeDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db, err := meterdb.GetDB()
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &collector{db: db, ctx: ctx}
	if cfg.PacketLogPath != "" {
		c.packetLog = csvlog.NewPacketLog(cfg.PacketLogPath)
	}
	if len(cfg.KafkaBrokers) > 0 {
		c.publisher = publisher.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer c.publisher.Close()
	}

	go runAggregator(ctx, db)

	interpreter.StartListener(ctx, host, cfg.TLSEnabled, c.handlePacket)
}

// Handle a decoded packet
func (c *collector) handlePacket(packet *dsmr.ParsedPacket) {
	if c.packetLog != nil {
		if err := c.packetLog.Append(packet); err != nil {
			log.WithError(err).Warn("Failed to append to packet log")
		}
	}

	rows, err := meterdb.RowsFromPacket(packet)
	if err != nil {
		log.WithError(err).Warn("Packet not stored")
	} else if err := meterdb.InsertPacketRows(c.db, rows); err != nil {
		log.WithError(err).Error("Failed to store packet")
	}

	if c.publisher != nil {
		ctx, cancel := context.WithTimeout(c.ctx, 10*time.Second)
		defer cancel()
		if err := c.publisher.Publish(ctx, packet); err != nil {
			log.WithError(err).Warn("Failed to publish packet")
		}
	}
}

// runAggregator aggregates the previous hour shortly after every full hour.
func runAggregator(ctx context.Context, db *sql.DB) {
	for {
		now := time.Now()
		next := now.Truncate(time.Hour).Add(time.Hour + time.Minute)
		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}

		if _, err := aggregator.AggregateAndCleanup(db, time.Now()); err != nil {
			log.WithError(err).Error("Aggregation failed")
		}
	}
}
