package ntp

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/goodnatureofminers/slotledger/internal/clock"
	"github.com/goodnatureofminers/slotledger/internal/model"
)

const defaultPort = "123"

// Sample is one server's estimate of the local clock error.
type Sample struct {
	Server string
	// Offset is added to the local clock to obtain network time.
	Offset time.Duration
	// LocalTime is the corrected time at which the response arrived.
	LocalTime model.Timestamp
}

// Client queries NTP servers over UDP.
type Client struct {
	clock clock.Clock
	port  string
}

// NewClient constructs a Client reading local time from clk.
func NewClient(clk clock.Clock) *Client {
	return &Client{clock: clk, port: defaultPort}
}

// Query sends one request to server and computes the clock offset from the reply.
// The exchange is bounded by the context deadline.
func (c *Client) Query(ctx context.Context, server string) (Sample, error) {
	addr := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		addr = net.JoinHostPort(server, c.port)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
	if err != nil {
		return Sample{}, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return Sample{}, fmt.Errorf("set deadline: %w", err)
		}
	}

	sent := c.clock.Now()
	origin := toNTPTime(sent.Time())
	if _, err := conn.Write(encodeRequest(origin)); err != nil {
		return Sample{}, fmt.Errorf("send request to %s: %w", addr, err)
	}

	buf := make([]byte, 2*packetSize)
	n, err := conn.Read(buf)
	if err != nil {
		return Sample{}, fmt.Errorf("read response from %s: %w", addr, err)
	}
	received := c.clock.Now()

	p, err := decodeResponse(buf[:n])
	if err != nil {
		return Sample{}, fmt.Errorf("response from %s: %w", addr, err)
	}
	if p.Origin != origin {
		return Sample{}, fmt.Errorf("response from %s: %w: origin mismatch", addr, ErrInvalidPacket)
	}

	offset := clockOffset(sent, model.TimestampFromTime(p.Receive.Time()), model.TimestampFromTime(p.Transmit.Time()), received)
	return Sample{
		Server:    server,
		Offset:    offset,
		LocalTime: received.Add(offset),
	}, nil
}

// clockOffset estimates network time minus local time from a request sent at
// t1 (local), received at t2 (server), answered at t3 (server) and read at t4
// (local). The reply is assumed to spend half of the round trip in flight.
func clockOffset(t1, t2, t3, t4 model.Timestamp) time.Duration {
	delay := (t4.Sub(t1) - t3.Sub(t2)) / 2
	if delay < 0 {
		delay = 0
	}
	return t3.Add(delay).Sub(t4)
}
