package interpreter

import (
	"context"
	"net/url"
	"time"

	"github.com/NotCoffee418/p1_decoder/pkg/dsmr"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	maxRetries     = 10
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 60 * time.Second
	// Meters send a telegram every 1 to 10 seconds
	readTimeout = 30 * time.Second
)

var logger = logrus.WithField("component", "interpreter")

// StartListener manages the websocket connection to the interpreter API and
// calls funcToCall for each decoded packet. Returns when ctx is done or the
// connection could not be established after maxRetries attempts.
func StartListener(ctx context.Context, host string, tlsEnabled bool, funcToCall func(packet *dsmr.ParsedPacket)) {
	scheme := "ws"
	if tlsEnabled {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: host, Path: "/ws"}

	retryCount := 0

	for {
		if ctx.Err() != nil {
			logger.Info("Shutting down listener")
			return
		}

		// Calculate retry delay with exponential backoff
		retryDelay := time.Duration(1<<retryCount) * baseRetryDelay
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}

		if retryCount > 0 {
			logger.Infof("Retrying connection in %v... (attempt %d/%d)", retryDelay, retryCount+1, maxRetries)
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				logger.Info("Shutdown requested during retry wait")
				return
			}
		}

		logger.Infof("Connecting to %s", u.String())

		dialer := *websocket.DefaultDialer
		dialer.HandshakeTimeout = 10 * time.Second
		c, _, err := dialer.DialContext(ctx, u.String(), nil)
		if err != nil {
			logger.WithError(err).Warn("Connection failed")
			retryCount++
			if retryCount >= maxRetries {
				logger.Errorf("Max retries (%d) reached. Giving up.", maxRetries)
				return
			}
			continue
		}

		logger.Info("Connected! Accepting meter packets.")
		retryCount = 0

		connectionBroken := handleConnection(ctx, c, funcToCall)
		c.Close()

		if !connectionBroken {
			// Clean shutdown requested
			return
		}

		logger.Warn("Connection lost, will retry...")
	}
}

// handleConnection reads packets until the connection breaks (true) or ctx
// is done (false).
func handleConnection(
	ctx context.Context,
	c *websocket.Conn,
	funcToCall func(packet *dsmr.ParsedPacket),
) bool {
	done := make(chan struct{})

	// Set read deadline to detect dead connections
	c.SetReadDeadline(time.Now().Add(readTimeout))

	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.WithError(err).Warn("WebSocket error")
				} else {
					logger.WithError(err).Info("Connection closed")
				}
				return
			}

			c.SetReadDeadline(time.Now().Add(readTimeout))

			if messageType != websocket.TextMessage {
				logger.Warnf("Received unexpected message type: %d", messageType)
				continue
			}

			packet, err := dsmr.PacketFromJsonBytes(message)
			if err != nil {
				logger.WithError(err).Warnf("Failed to parse packet: %s", string(message))
				continue
			}
			funcToCall(packet)
		}
	}()

	// Periodic pings keep the connection alive through proxies
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second)); err != nil {
					logger.WithError(err).Warn("Failed to send ping")
					return
				}
			case <-done:
				return
			}
		}
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		logger.Info("Shutdown requested, closing connection...")

		err := c.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		if err != nil {
			logger.WithError(err).Warn("Error sending close message")
		}

		// Wait for close confirmation or timeout
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return false
	}
}
