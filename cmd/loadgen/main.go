// Command loadgen drives synthetic caller traffic against a running
// queue service: concurrent simulated callers join and leave random
// queues until the duration elapses, then a traffic summary is printed.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	baseURL   string
	callers   int
	duration  time.Duration
	addChance float64
	queues    []string
	reqRate   float64
)

var rootCmd = &cobra.Command{
	Use:   "loadgen",
	Short: "Generate synthetic caller traffic against a queue service",
	Long: `loadgen simulates a pool of concurrent callers. Each caller repeatedly
picks a random queue and either joins it with a fresh phone number or
removes a previously added caller, weighted by --add-chance. Requests
are paced by a global rate limiter.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the queue service")
	rootCmd.Flags().IntVar(&callers, "callers", 15, "concurrent simulated callers")
	rootCmd.Flags().DurationVar(&duration, "duration", 2*time.Minute, "how long to run")
	rootCmd.Flags().Float64Var(&addChance, "add-chance", 0.7, "probability an action joins instead of leaving")
	rootCmd.Flags().StringSliceVar(&queues, "queues",
		[]string{"Sales_HighVolume", "Support_Tier1", "Billing_Inquiries"},
		"queue names to spread traffic across")
	rootCmd.Flags().Float64Var(&reqRate, "rate", 50, "global request ceiling per second")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// callerRequest matches the service's increment/decrement body.
type callerRequest struct {
	PhoneNumber string `json:"phone_number"`
	QueueName   string `json:"queue_name"`
}

// pool tracks callers the generator has added, so leaves target real
// entries instead of random numbers.
type pool struct {
	mu      sync.Mutex
	waiting map[string][]callerRequest
}

func (p *pool) put(c callerRequest) {
	p.mu.Lock()
	p.waiting[c.QueueName] = append(p.waiting[c.QueueName], c)
	p.mu.Unlock()
}

func (p *pool) take(queueName string) (callerRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	q := p.waiting[queueName]
	if len(q) == 0 {
		return callerRequest{}, false
	}
	c := q[0]
	p.waiting[queueName] = q[1:]
	return c, true
}

type stats struct {
	added      atomic.Int64
	removed    atomic.Int64
	duplicates atomic.Int64
	failures   atomic.Int64
}

func run(cmd *cobra.Command, args []string) error {
	if callers <= 0 {
		return fmt.Errorf("--callers must be positive")
	}
	if len(queues) == 0 {
		return fmt.Errorf("--queues must name at least one queue")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), duration)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("driving %d callers at %s for %s (add chance %.0f%%)\n",
		callers, baseURL, duration, addChance*100)

	limiter := rate.NewLimiter(rate.Limit(reqRate), callers)
	client := &http.Client{Timeout: 10 * time.Second}
	p := &pool{waiting: make(map[string][]callerRequest)}
	var st stats

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				queueName := queues[rng.Intn(len(queues))]
				if rng.Float64() < addChance {
					join(ctx, client, p, &st, callerRequest{
						PhoneNumber: fmt.Sprintf("555-%04d-%04d", rng.Intn(10000), rng.Intn(10000)),
						QueueName:   queueName,
					})
				} else {
					leave(ctx, client, p, &st, queueName)
				}
			}
		}(time.Now().UnixNano() + int64(i))
	}
	wg.Wait()
	elapsed := time.Since(start).Round(time.Millisecond)

	total := st.added.Load() + st.removed.Load() + st.duplicates.Load() + st.failures.Load()
	fmt.Println("----------------------------------------")
	fmt.Printf("elapsed     %s\n", elapsed)
	fmt.Printf("requests    %d (%.1f/s)\n", total, float64(total)/elapsed.Seconds())
	fmt.Printf("joined      %d\n", st.added.Load())
	fmt.Printf("left        %d\n", st.removed.Load())
	fmt.Printf("duplicates  %d\n", st.duplicates.Load())
	fmt.Printf("failures    %d\n", st.failures.Load())
	if st.failures.Load() > 0 {
		return fmt.Errorf("%d requests failed", st.failures.Load())
	}
	return nil
}

func join(ctx context.Context, client *http.Client, p *pool, st *stats, c callerRequest) {
	status, err := post(ctx, client, "/queue/increment", c)
	switch {
	case err != nil && ctx.Err() != nil:
		// cut short by the run deadline or an interrupt
		return
	case err != nil:
		st.failures.Add(1)
	case status == http.StatusOK:
		st.added.Add(1)
		p.put(c)
	case status == http.StatusConflict:
		st.duplicates.Add(1)
	default:
		st.failures.Add(1)
	}
}

func leave(ctx context.Context, client *http.Client, p *pool, st *stats, queueName string) {
	c, ok := p.take(queueName)
	if !ok {
		return
	}
	status, err := post(ctx, client, "/queue/decrement", c)
	switch {
	case err != nil && ctx.Err() != nil:
		// cut short by the run deadline or an interrupt
		return
	case err != nil:
		st.failures.Add(1)
	case status == http.StatusOK:
		st.removed.Add(1)
	default:
		st.failures.Add(1)
	}
}

func post(ctx context.Context, client *http.Client, path string, body callerRequest) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
