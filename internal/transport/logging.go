// SPDX-License-Identifier: MIT
package transport

import (
	"grapher/internal/log"
)

var logger = log.Named("Transport")

// LoggingTransport implements the Transport interface by logging a summary
// of every message at debug level.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	logger.Infof("Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the received data.
func (lt *LoggingTransport) Send(data any) error {
	switch v := data.(type) {
	case Frame:
		logger.Debugf("frame %d (%dx%d, %d ops)", v.Seq, v.Width, v.Height, len(v.Ops))
	case *Frame:
		logger.Debugf("frame %d (%dx%d, %d ops)", v.Seq, v.Width, v.Height, len(v.Ops))
	default:
		logger.Debugf("received %T", data)
	}
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	logger.Debugf("LoggingTransport closed")
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
