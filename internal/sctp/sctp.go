// Package sctp implements enough of the Stream Control Transmission
// Protocol (RFC 4960), its partial reliability extension (RFC 3758) and
// its stream reconfiguration extension (RFC 6525) to carry WebRTC data
// channels: association setup and teardown, ordered/unordered delivery,
// congestion control, and selective-ack based retransmission.
package sctp
