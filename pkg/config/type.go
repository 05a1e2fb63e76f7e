package config

import (
	"fmt"
	"time"
)

type MeterCollectorConfig struct {
	InterpreterAPIHost string `toml:"interpreter_api_host"`
	TLSEnabled         bool   `toml:"tls_enabled"`
	// Empty disables the CSV log
	PacketLogPath string `toml:"packet_log_path"`
	// Empty disables publishing
	KafkaBrokers []string `toml:"kafka_brokers"`
	KafkaTopic   string   `toml:"kafka_topic"`
}

type InterpreterAPIConfig struct {
	SerialDevice  string `toml:"serial_device"`
	Baudrate      uint   `toml:"baudrate"`
	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
	// Drop telegrams whose CRC16 does not match. DSMR 2.x meters send no CRC.
	ValidateCRC bool `toml:"validate_crc"`
	// M-Bus channel (1-4) the gas meter is connected to
	GasMBusChannel int `toml:"gas_mbus_channel"`
	// IANA zone of the meter clock, empty means the host zone
	Timezone string `toml:"timezone"`
}

// Location resolves Timezone.
func (c *InterpreterAPIConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
