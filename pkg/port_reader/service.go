package port_reader

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/sigurn/crc16"
	"github.com/sirupsen/logrus"
)

var crcTable = crc16.MakeTable(crc16.CRC16_ARC)

// Initialize a new P1Reader client.
func NewP1Reader(port string, baudrate uint, opts Options) *P1Reader {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	reader := &P1Reader{
		port:     port,
		baudrate: baudrate,
		opts:     opts,
		log:      log.WithField("component", "port_reader"),
	}
	reader.openPort = reader.openSerial
	return reader
}

// Start listening for telegrams. Meters send one every second (DSMR 5) or
// every ten seconds (DSMR 4).
// Runs in a goroutine. handlePacket is called on that goroutine for every
// framed telegram, in the order they were read, so it must return before the
// next telegram is due. handleError receives the error that stopped the
// reader, handleClose is called once the port is closed.
func (p *P1Reader) StartReading(
	handlePacket func(packet string),
	handleError func(error),
	handleClose func(),
) {
	p.stopSignal.Store(false)

	go func() {
		defer func() {
			p.disconnect()
			if handleClose != nil {
				handleClose()
			}
		}()

		// Tolerance before we report error.
		consecutiveErrors := 0
		var lastError error

		if err := p.connect(); err != nil {
			handleError(err)
			return
		}

		for consecutiveErrors < maxConsecutiveErrors {
			if p.stopSignal.Load() {
				p.log.Info("Stop signal received, disconnecting")
				return
			}

			telegram, err := p.readTelegram()
			if err != nil {
				if p.stopSignal.Load() {
					return
				}
				consecutiveErrors++
				lastError = err
				p.log.WithError(err).Warnf("Error reading telegram (%d/%d)", consecutiveErrors, maxConsecutiveErrors)
				if err == io.EOF {
					break
				}
				time.Sleep(time.Second)
				continue
			}

			if p.opts.ValidateCRC {
				if err := validateCRC(telegram); err != nil {
					consecutiveErrors++
					lastError = err
					p.log.WithError(err).Warn("Skipping telegram")
					continue
				}
			}

			p.packetMutex.Lock()
			p.latestPacket = telegram
			p.packetMutex.Unlock()

			handlePacket(telegram)
			consecutiveErrors = 0
		}

		p.log.WithError(lastError).Errorf("Stopping reader after %d consecutive errors", consecutiveErrors)
		handleError(lastError)
	}()
}

func (p *P1Reader) StopReading() {
	p.stopSignal.Store(true)
	p.disconnect()
}

// GetLatestPacket returns the last raw telegram that was framed.
func (p *P1Reader) GetLatestPacket() string {
	p.packetMutex.RLock()
	defer p.packetMutex.RUnlock()
	return p.latestPacket
}

func (p *P1Reader) openSerial() (io.ReadWriteCloser, error) {
	options := serial.OpenOptions{
		PortName:        p.port,
		BaudRate:        p.baudrate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
	}
	return serial.Open(options)
}

// Open the connection to the P1 port.
func (p *P1Reader) connect() error {
	port, err := p.openPort()
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	p.portMutex.Lock()
	p.serialPort = port
	p.lineReader = bufio.NewReader(port)
	p.portMutex.Unlock()

	p.log.Infof("Connected to P1 port on %s", p.port)
	return nil
}

func (p *P1Reader) disconnect() {
	p.portMutex.Lock()
	defer p.portMutex.Unlock()

	if p.serialPort != nil {
		p.serialPort.Close()
		p.serialPort = nil
		p.log.Info("Disconnected from P1 port")
	}
}

// readTelegram collects lines from a line starting with '/' up to and
// including the line starting with '!'.
func (p *P1Reader) readTelegram() (string, error) {
	p.portMutex.Lock()
	reader := p.lineReader
	connected := p.serialPort != nil
	p.portMutex.Unlock()
	if !connected || reader == nil {
		return "", ErrSerialNotConnected
	}

	return readTelegram(reader)
}

func readTelegram(reader *bufio.Reader) (string, error) {
	var buffer strings.Builder
	var inTelegram bool

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}

		if strings.HasPrefix(line, "/") {
			// Start of telegram
			buffer.Reset()
			buffer.WriteString(line)
			inTelegram = true
		} else if inTelegram {
			buffer.WriteString(line)
			if strings.HasPrefix(strings.TrimSpace(line), "!") {
				// End of telegram
				return buffer.String(), nil
			}
		}
	}
}

// validateCRC checks the CRC16/ARC over everything from '/' up to and
// including '!' against the four hex digits that follow it.
func validateCRC(telegram string) error {
	end := strings.LastIndex(telegram, "!")
	if end < 0 {
		return fmt.Errorf("%w: no end marker", ErrChecksumMismatch)
	}
	given := strings.TrimSpace(telegram[end+1:])
	if len(given) < 4 {
		return fmt.Errorf("%w: no checksum after end marker", ErrChecksumMismatch)
	}

	calc := fmt.Sprintf("%04X", crc16.Checksum([]byte(telegram[:end+1]), crcTable))
	if !strings.EqualFold(given[:4], calc) {
		return fmt.Errorf("%w: got %s, calculated %s", ErrChecksumMismatch, given[:4], calc)
	}
	return nil
}
