package port_reader

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	ErrSerialNotConnected = errors.New("serial port not connected")
	ErrChecksumMismatch   = errors.New("telegram checksum mismatch")
)

// Consecutive failed reads tolerated before the reader gives up.
const maxConsecutiveErrors = 10

type Options struct {
	// Verify the CRC16 after '!' and skip telegrams that do not match
	ValidateCRC bool
	Log         logrus.FieldLogger
}

type P1Reader struct {
	port       string
	baudrate   uint
	opts       Options
	log        logrus.FieldLogger
	openPort   func() (io.ReadWriteCloser, error)
	serialPort io.ReadWriteCloser
	lineReader *bufio.Reader
	portMutex  sync.Mutex
	stopSignal atomic.Bool

	latestPacket string
	packetMutex  sync.RWMutex
}
