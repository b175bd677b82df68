package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	goStats "github.com/MrEthical07/goStats"
	"github.com/MrEthical07/goStats/interval"
	"github.com/MrEthical07/goStats/trackers"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		producers = flag.Int("producers", 64, "number of concurrent producers")
		ops       = flag.Int("ops", 2000000, "record calls across all producers")
		ringSize  = flag.Int("ring-size", 4096, "ring capacity, a power of two")
		trackersN = flag.Int("trackers", 16, "number of registered trackers")
		sink      = flag.String("sink", "none", "stat logger: none, stderr, redis")
		logEvery  = flag.Int("log-every", 1, "log interval in seconds")
		redisAddr = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *producers <= 0 || *ops <= 0 || *trackersN <= 0 || *logEvery <= 0 {
		fmt.Fprintln(os.Stderr, "producers, ops, trackers, and log-every must be > 0")
		os.Exit(2)
	}

	cfg := goStats.DefaultConfig()
	cfg.Conductor.RingSize = *ringSize
	cfg.StatLogger.Impl = *sink
	cfg.StatLogger.Name = "loadtest"
	cfg.Metrics.EnableLatencyHistograms = true
	cfg.Logging.Level = "warning"

	builder := goStats.New().WithConfig(cfg)
	if *sink == "redis" {
		client, cleanup, err := openRedis(*redisAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "redis: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		builder = builder.WithRedis(client)
	}

	engine, err := builder.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build engine: %v\n", err)
		os.Exit(1)
	}

	ids := make([]goStats.TrackerID, *trackersN)
	for i := range ids {
		ids[i] = goStats.GenerateTrackerID(fmt.Sprintf("load_%d", i))
		if err := engine.Register(ids[i], trackers.NewHistogram(), interval.Seconds(*logEvery), interval.Seconds(*logEvery)); err != nil {
			fmt.Fprintf(os.Stderr, "register: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("recording %d observations from %d producers into %d trackers (ring %d)...\n",
		*ops, *producers, *trackersN, *ringSize)
	res := runRecordPhase(engine, ids, *ops, *producers)

	missedBeforeClose := engine.Missed()
	snapshot := engine.MetricsSnapshot()
	if err := engine.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close: %v\n", err)
	}

	fmt.Println("---- results ----")
	printResult(res)
	fmt.Printf("accepted=%d dropped=%d missed_unreported=%d logs=%d sink_failures=%d\n",
		snapshot.Counters[goStats.MetricRecordAccepted],
		snapshot.Counters[goStats.MetricRecordDropped],
		missedBeforeClose,
		snapshot.Counters[goStats.MetricLogDispatched],
		snapshot.Counters[goStats.MetricStatLoggerFailed],
	)
}

func openRedis(addr string) (redis.UniversalClient, func(), error) {
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
		fmt.Printf("using redis at %s\n", addr)
		return client, func() { _ = client.Close() }, nil
	}

	mr, err := miniredis.Run()
	if err != nil {
		return nil, nil, fmt.Errorf("start miniredis: %w", err)
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	fmt.Printf("using miniredis at %s\n", mr.Addr())
	return client, func() {
		_ = client.Close()
		mr.Close()
	}, nil
}

type result struct {
	total   time.Duration
	ops     int64
	latency *hdrhistogram.Histogram
}

func runRecordPhase(engine *goStats.Engine, ids []goStats.TrackerID, ops, producers int) result {
	var (
		wg     sync.WaitGroup
		cursor atomic.Int64
		mu     sync.Mutex
		merged = newLatencyHistogram()
	)

	start := time.Now()
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			local := newLatencyHistogram()
			for {
				i := cursor.Add(1) - 1
				if i >= int64(ops) {
					break
				}
				id := ids[(int(i)+p)%len(ids)]
				t0 := time.Now()
				engine.RecordLong(id, i%10000+1)
				_ = local.RecordValue(time.Since(t0).Nanoseconds())
			}
			mu.Lock()
			merged.Merge(local)
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	return result{
		total:   time.Since(start),
		ops:     merged.TotalCount(),
		latency: merged,
	}
}

// newLatencyHistogram tracks 1ns to 10s at three significant digits.
func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, int64(10*time.Second), 3)
}

func printResult(r result) {
	opsPerS := float64(r.ops) / r.total.Seconds()
	fmt.Printf("record: ops=%d total=%s ops/sec=%.0f p50=%s p99=%s p99.9=%s max=%s\n",
		r.ops,
		r.total.Round(time.Millisecond),
		opsPerS,
		time.Duration(r.latency.ValueAtQuantile(50)),
		time.Duration(r.latency.ValueAtQuantile(99)),
		time.Duration(r.latency.ValueAtQuantile(99.9)),
		time.Duration(r.latency.Max()),
	)
}
