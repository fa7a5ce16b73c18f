// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"grapher/internal/transport"
)

// PacketSender is the write side of a datagram connection.
type PacketSender interface {
	Send(data []byte) error
}

// UDPPublisher periodically reads the cached spectrum from a provider, packs
// magnitude and normalized phase into a binary packet and sends it. It runs
// in a separate goroutine managed by Start and Stop.
type UDPPublisher struct {
	sender   PacketSender
	provider transport.SpectrumProvider
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	sequenceNum uint32

	// Reused on every tick.
	magBuffer    []float64
	phaseBuffer  []float64
	packetBuffer *bytes.Buffer
}

// NewUDPPublisher creates a publisher for provider. If interval is invalid
// (<= 0), it defaults to 16ms (~60Hz).
func NewUDPPublisher(interval time.Duration, sender PacketSender, provider transport.SpectrumProvider) (*UDPPublisher, error) {
	if sender == nil {
		return nil, errors.New("UDPPublisher: UDP sender cannot be nil")
	}
	if provider == nil {
		return nil, errors.New("UDPPublisher: spectrum provider cannot be nil")
	}
	n := provider.Length()
	if n < 1 || n > MaxBins {
		return nil, fmt.Errorf("UDPPublisher: spectrum length %d does not fit a packet (max %d bins)", n, MaxBins)
	}

	if interval <= 0 {
		interval = 16 * time.Millisecond
		logger.Warnf("Invalid interval provided, defaulting to %s", interval)
	}

	logger.Infof("Initializing publisher (Interval: %s, Bins: %d)", interval, n)

	return &UDPPublisher{
		sender:       sender,
		provider:     provider,
		interval:     interval,
		magBuffer:    make([]float64, n),
		phaseBuffer:  make([]float64, n),
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Start begins the periodic publishing process. Calling Start on a running
// publisher is a no-op.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		logger.Warnf("Start called but already running.")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		logger.Debugf("Publisher goroutine started (Interval: %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				if err := p.Publish(); err != nil {
					logger.Errorf("%v", err)
				}
			case <-doneChan:
				logger.Debugf("Publisher goroutine received stop signal.")
				return
			}
		}
	}()
}

// Stop signals the publisher goroutine to terminate and waits for it. It is
// safe to call Stop multiple times.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}

	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	logger.Infof("Publisher stopped after %d packets.", p.Sent())
	return nil
}

// Sent returns the sequence number of the last packet built.
func (p *UDPPublisher) Sent() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sequenceNum
}

/*
UDP Packet Structure (BigEndian)

+-----------------------------------------------------------------------------+
| Field             | Data Type      | Size (Bytes) | Description             |
|-------------------|----------------|--------------|-------------------------|
| Sequence Number   | uint32         | 4            | Monotonically increasing|
| Timestamp         | int64          | 8            | Nanoseconds since epoch |
| Bin Count         | uint16         | 2            | Number of bins (N)      |
| Magnitudes        | []float32      | N * 4        | |X[k]|, k in [0, N)     |
| Phases            | []float32      | N * 4        | arg X[k] / 2π, in [0,1) |
+-----------------------------------------------------------------------------+
*/

// HeaderSize is the number of bytes before the magnitudes.
const HeaderSize = 4 + 8 + 2

// MaxPayload is the largest UDP payload an IPv4 datagram can carry.
const MaxPayload = 65507

// MaxBins is the largest spectrum length whose packet fits in MaxPayload.
const MaxBins = (MaxPayload - HeaderSize) / 8

// PacketSize returns the encoded size of a packet carrying n bins.
func PacketSize(n int) int {
	return HeaderSize + 8*n
}

// Packet is a decoded spectrum packet.
type Packet struct {
	Seq        uint32
	Timestamp  int64
	Magnitudes []float32
	Phases     []float32
}

// Publish builds one packet from the provider's current buffers and sends
// it. A provider that is not ready yet makes Publish fail without sending.
// Publish is not safe for concurrent use; Start calls it from one goroutine.
func (p *UDPPublisher) Publish() error {
	if err := p.provider.MagnitudeInto(p.magBuffer); err != nil {
		return fmt.Errorf("failed to read magnitudes: %w", err)
	}
	if err := p.provider.PhaseInto(p.phaseBuffer); err != nil {
		return fmt.Errorf("failed to read phases: %w", err)
	}

	p.mu.Lock()
	p.sequenceNum++
	seq := p.sequenceNum
	p.mu.Unlock()

	p.packetBuffer.Reset()
	if err := encodePacket(p.packetBuffer, seq, time.Now().UnixNano(), p.magBuffer, p.phaseBuffer); err != nil {
		return fmt.Errorf("failed to pack spectrum: %w", err)
	}

	if err := p.sender.Send(p.packetBuffer.Bytes()); err != nil {
		return err
	}
	logger.Debugf("Sent packet %d (%d bytes)", seq, p.packetBuffer.Len())
	return nil
}

func encodePacket(buf *bytes.Buffer, seq uint32, timestamp int64, magnitudes, phases []float64) error {
	if len(phases) != len(magnitudes) {
		return fmt.Errorf("mismatched buffer lengths (%d != %d)", len(magnitudes), len(phases))
	}

	var scratch [4]byte
	buf.Grow(PacketSize(len(magnitudes)))

	_ = binary.Write(buf, binary.BigEndian, seq)
	_ = binary.Write(buf, binary.BigEndian, timestamp)
	_ = binary.Write(buf, binary.BigEndian, uint16(len(magnitudes)))
	for _, series := range [][]float64{magnitudes, phases} {
		for _, v := range series {
			binary.BigEndian.PutUint32(scratch[:], math.Float32bits(float32(v)))
			buf.Write(scratch[:])
		}
	}
	return nil
}

// DecodePacket parses a packet produced by the publisher.
func DecodePacket(b []byte) (Packet, error) {
	if len(b) < HeaderSize {
		return Packet{}, fmt.Errorf("packet too short: %d bytes", len(b))
	}
	pkt := Packet{
		Seq:       binary.BigEndian.Uint32(b[0:4]),
		Timestamp: int64(binary.BigEndian.Uint64(b[4:12])),
	}
	n := int(binary.BigEndian.Uint16(b[12:14]))
	if want := PacketSize(n); len(b) != want {
		return Packet{}, fmt.Errorf("packet length %d, want %d for %d bins", len(b), want, n)
	}

	body := b[HeaderSize:]
	pkt.Magnitudes = make([]float32, n)
	pkt.Phases = make([]float32, n)
	for i := range n {
		pkt.Magnitudes[i] = math.Float32frombits(binary.BigEndian.Uint32(body[4*i:]))
		pkt.Phases[i] = math.Float32frombits(binary.BigEndian.Uint32(body[4*(n+i):]))
	}
	return pkt, nil
}

// Close stops the publisher goroutine.
func (p *UDPPublisher) Close() error {
	return p.Stop()
}

var _ interface{ Close() error } = (*UDPPublisher)(nil)
