package statlog

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/MrEthical07/goStats/stat"
	"github.com/eapache/queue"
	"github.com/joeycumines/logiface"
)

const (
	DefaultStatsDAddr       = "localhost:8125"
	DefaultStatsDPacketSize = 500
	DefaultStatsDBacklog    = 64
)

// StatsDConfig configures the statsd sink.
type StatsDConfig struct {
	Addr       string `toml:"addr"`
	Prefix     string `toml:"prefix"`
	PacketSize int    `toml:"packet_size"`
	// Backlog caps packets kept for retry after a failed write.
	Backlog     int           `toml:"backlog"`
	DialTimeout time.Duration `toml:"dial_timeout"`
}

// StatsD sends every numeric statistic as a gauge over UDP:
//
//	prefix.display.stat:value|g
//
// Lines are packed into packets of at most PacketSize bytes. Object and null
// values are skipped. When a write fails the connection is dropped and the
// packet is queued; queued packets are retried, oldest first, before new ones.
type StatsD struct {
	cfg StatsDConfig
	log *logiface.Logger[logiface.Event]

	mu      sync.Mutex
	conn    net.Conn
	backlog *queue.Queue
	dial    func() (net.Conn, error)
	closed  bool
}

// NewStatsD returns a StatsD sink. The connection is opened on first use.
func NewStatsD(cfg StatsDConfig, log *logiface.Logger[logiface.Event]) *StatsD {
	if cfg.Addr == "" {
		cfg.Addr = DefaultStatsDAddr
	}
	if cfg.PacketSize <= 0 {
		cfg.PacketSize = DefaultStatsDPacketSize
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = DefaultStatsDBacklog
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = time.Second
	}
	s := &StatsD{cfg: cfg, log: log, backlog: queue.New()}
	s.dial = func() (net.Conn, error) {
		return net.DialTimeout("udp", s.cfg.Addr, s.cfg.DialTimeout)
	}
	return s
}

func (s *StatsD) Log(id stat.ID, tracker stat.Tracker, _ time.Time) error {
	packets := s.pack(id.Display(), tracker.Snapshot())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrLoggerClosed
	}
	for i, p := range packets {
		if err := s.send(p); err != nil {
			for _, rest := range packets[i+1:] {
				s.enqueue(rest)
			}
			return fmt.Errorf("statsd %s: %w", s.cfg.Addr, err)
		}
	}
	return nil
}

func (s *StatsD) pack(display string, values []stat.Value) [][]byte {
	var (
		packets [][]byte
		cur     []byte
	)
	for _, v := range values {
		n, ok := v.Numeric()
		if !ok {
			continue
		}
		line := s.line(display, v.Name, v, n)
		if len(cur) > 0 && len(cur)+1+len(line) > s.cfg.PacketSize {
			packets = append(packets, cur)
			cur = nil
		}
		if len(cur) > 0 {
			cur = append(cur, '\n')
		}
		cur = append(cur, line...)
	}
	if len(cur) > 0 {
		packets = append(packets, cur)
	}
	return packets
}

func (s *StatsD) line(display, name string, v stat.Value, n float64) []byte {
	b := make([]byte, 0, len(s.cfg.Prefix)+len(display)+len(name)+24)
	if s.cfg.Prefix != "" {
		b = append(b, s.cfg.Prefix...)
		b = append(b, '.')
	}
	b = append(b, display...)
	b = append(b, '.')
	b = append(b, name...)
	b = append(b, ':')
	if v.Type == stat.TypeLong {
		b = strconv.AppendInt(b, v.Long, 10)
	} else {
		b = strconv.AppendFloat(b, n, 'f', -1, 64)
	}
	return append(b, "|g"...)
}

// send flushes the backlog then writes p. On failure p joins the backlog.
func (s *StatsD) send(p []byte) error {
	for s.backlog.Length() > 0 {
		queued := s.backlog.Peek().([]byte)
		if err := s.write(queued); err != nil {
			s.enqueue(p)
			return err
		}
		s.backlog.Remove()
	}
	if err := s.write(p); err != nil {
		s.enqueue(p)
		return err
	}
	return nil
}

func (s *StatsD) write(p []byte) error {
	if s.conn == nil {
		conn, err := s.dial()
		if err != nil {
			return err
		}
		s.conn = conn
	}
	if _, err := s.conn.Write(p); err != nil {
		_ = s.conn.Close()
		s.conn = nil
		s.log.Warning().Err(err).Str("addr", s.cfg.Addr).Limit().Log("statsd write failed, reconnecting")
		return err
	}
	return nil
}

func (s *StatsD) enqueue(p []byte) {
	for s.backlog.Length() >= s.cfg.Backlog {
		s.backlog.Remove()
	}
	s.backlog.Add(p)
}

// Pending returns the number of packets waiting for retry.
func (s *StatsD) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backlog.Length()
}

func (s *StatsD) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
