package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/NotCoffee418/p1_decoder/pkg/pathing"
)

var (
	ActiveInterpreterAPIConfig *InterpreterAPIConfig
	ActiveMeterCollectorConfig *MeterCollectorConfig
)

func DefaultInterpreterAPIConfig() *InterpreterAPIConfig {
	return &InterpreterAPIConfig{
		SerialDevice:   "/dev/ttyUSB0",
		Baudrate:       115200,
		ListenAddress:  "0.0.0.0",
		ListenPort:     9039,
		ValidateCRC:    false,
		GasMBusChannel: dsmr.DefaultGasChannel,
		Timezone:       "Europe/Amsterdam",
	}
}

func DefaultMeterCollectorConfig() *MeterCollectorConfig {
	return &MeterCollectorConfig{
		InterpreterAPIHost: "localhost:9039",
		TLSEnabled:         false,
		PacketLogPath:      pathing.GetPacketLogPath(),
		KafkaBrokers:       []string{},
		KafkaTopic:         "p1-packets",
	}
}

func LoadInterpreterAPIConfig() error {
	cfg, err := loadOrCreate(
		filepath.Join(pathing.GetConfigDir(), "interpreter_api.toml"),
		DefaultInterpreterAPIConfig(),
	)
	if err != nil {
		return err
	}
	ActiveInterpreterAPIConfig = cfg
	return nil
}

func LoadMeterCollectorConfig() error {
	cfg, err := loadOrCreate(
		filepath.Join(pathing.GetConfigDir(), "meter_collector.toml"),
		DefaultMeterCollectorConfig(),
	)
	if err != nil {
		return err
	}
	ActiveMeterCollectorConfig = cfg
	return nil
}

// loadOrCreate decodes the file at configPath over defaults. When the file
// does not exist yet it is written with the defaults.
func loadOrCreate[T any](configPath string, defaults *T) (*T, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", configPath, err)
		}
		defer cfgFile.Close()
		if err := toml.NewEncoder(cfgFile).Encode(defaults); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", configPath, err)
		}
		return defaults, nil
	}

	// Keys missing from the file keep their default
	if _, err := toml.DecodeFile(configPath, defaults); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}
	return defaults, nil
}
