// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package mux multiplexes packets on a single socket (RFC7983)
package mux

import (
	"errors"
	"io"
	"net"
	"sync"

	"github.com/pion/logging"
	"github.com/pion/transport/v3/packetio"
)

// The maximum amount of data that can be buffered before returning errors.
const maxBufferSize = 1000 * 1000 // 1MB

// maxPendingPackets is the number of datagrams held for a not-yet-registered
// endpoint before older ones are dropped. A DataChannel endpoint, for
// example, is only created once the DCEP handshake is driven by the SCTP
// association, so the first few STUN/DTLS datagrams arriving before any
// endpoint matches them must wait here rather than being discarded outright.
const maxPendingPackets = 4

// Config collects the arguments to mux.Mux construction into
// a single structure.
type Config struct {
	Conn          net.Conn
	BufferSize    int
	LoggerFactory logging.LoggerFactory
}

// Mux allows multiplexing.
type Mux struct {
	lock           sync.RWMutex
	nextConn       net.Conn
	endpoints      map[*Endpoint]MatchFunc
	pendingPackets [][]byte
	bufferSize     int
	closedCh       chan struct{}

	log logging.LeveledLogger
}

// NewMux creates a new Mux.
func NewMux(config Config) *Mux {
	m := &Mux{
		nextConn:   config.Conn,
		endpoints:  make(map[*Endpoint]MatchFunc),
		bufferSize: config.BufferSize,
		closedCh:   make(chan struct{}),
		log:        config.LoggerFactory.NewLogger("mux"),
	}

	go m.readLoop()

	return m
}

// NewEndpoint creates a new Endpoint.
func (m *Mux) NewEndpoint(f MatchFunc) *Endpoint {
	e := &Endpoint{
		mux:    m,
		buffer: packetio.NewBuffer(),
	}

	// Set a maximum size of the buffer in bytes.
	// NOTE: We actually won't get anywhere close to this limit.
	// SRTP will constantly read from the endpoint and drop packets if it's full.
	e.buffer.SetLimitSize(maxBufferSize)

	m.lock.Lock()
	m.endpoints[e] = f

	// Drain any datagrams that arrived before this endpoint existed and match it.
	remaining := m.pendingPackets[:0]
	for _, p := range m.pendingPackets {
		if f(p) {
			if _, err := e.buffer.Write(p); err != nil {
				m.log.Warnf("mux: failed to write pending packet: %v", err)
			}
			continue
		}
		remaining = append(remaining, p)
	}
	m.pendingPackets = remaining
	m.lock.Unlock()

	return e
}

// RemoveEndpoint removes an endpoint from the Mux.
func (m *Mux) RemoveEndpoint(e *Endpoint) {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.endpoints, e)
}

// Close closes the Mux and all associated Endpoints.
func (m *Mux) Close() error {
	m.lock.Lock()
	for e := range m.endpoints {
		err := e.close()
		if err != nil {
			m.lock.Unlock()
			return err
		}

		delete(m.endpoints, e)
	}
	m.lock.Unlock()

	err := m.nextConn.Close()
	if err != nil {
		return err
	}

	// Wait for readLoop to end
	<-m.closedCh

	return nil
}

func (m *Mux) readLoop() {
	defer func() {
		close(m.closedCh)
	}()

	buf := make([]byte, m.bufferSize)
	for {
		n, err := m.nextConn.Read(buf)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe):
			return
		case errors.Is(err, packetio.ErrTimeout), errors.Is(err, io.ErrShortBuffer):
			// Non-fatal: a single datagram was lost or truncated, the mux keeps running.
			continue
		case err != nil:
			m.log.Warnf("mux: read error, closing mux: %v", err)
			return
		}

		if err := m.dispatch(buf[:n]); err != nil {
			m.log.Warnf("mux: dispatch error, closing mux: %v", err)
			return
		}
	}
}

func (m *Mux) dispatch(buf []byte) error {
	if len(buf) == 0 {
		m.log.Warnf("mux: no endpoint for zero length packet")
		return nil
	}

	var endpoint *Endpoint

	m.lock.Lock()
	for e, f := range m.endpoints {
		if f(buf) {
			endpoint = e
			break
		}
	}

	if endpoint == nil {
		// No registered endpoint claims this datagram yet (e.g. an SCTP
		// DataChannel endpoint that hasn't been created). Hold it, dropping
		// the oldest pending datagram first if the backlog is full, per the
		// drop-newest-is-not-mandated / drop-oldest-backlog policy recorded
		// in DESIGN.md.
		cp := append([]byte(nil), buf...)
		if len(m.pendingPackets) >= maxPendingPackets {
			m.pendingPackets = m.pendingPackets[1:]
		}
		m.pendingPackets = append(m.pendingPackets, cp)
		m.lock.Unlock()

		m.log.Debugf("mux: no endpoint for packet starting with %d, queued (%d pending)", buf[0], len(m.pendingPackets))
		return nil
	}
	m.lock.Unlock()

	_, err := endpoint.buffer.Write(buf)
	if errors.Is(err, packetio.ErrFull) {
		// The endpoint's consumer is behind; dropping the newest datagram
		// preserves real-time semantics (media must not block ICE keepalives).
		m.log.Infof("mux: endpoint buffer full, dropping packet")
		return nil
	}

	return err
}
