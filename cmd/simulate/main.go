package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/docspot/internal/availability"
	"github.com/hackgods/docspot/internal/config"
	"github.com/hackgods/docspot/internal/db"
	"github.com/hackgods/docspot/internal/logging"
)

// SimConfig drives a contention run: Rounds times, Contenders patients race
// to book the same doctor slot.
type SimConfig struct {
	APIBaseURL   string
	Rounds       int
	Contenders   int
	Password     string
	PatientLimit int
	PostgresDSN  string
}

type slotTarget struct {
	DoctorID uuid.UUID
	OpenTime string
}

type DataPool struct {
	PatientEmails []string
	Doctors       []slotTarget
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, lo, hi, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	lo = latencies[0]
	hi = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, lo, hi, p50, p95
}

func percentileIndex(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	tokens  []string
	booking OperationMetrics
	// doubleBooked counts rounds where more than one contender succeeded.
	doubleBooked int
	unclaimed    int
}

func main() {
	cfg := loadConfig()
	logging.Init("simulate", "development", "info")

	if err := validateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	log.Info().
		Str("api", cfg.APIBaseURL).
		Int("rounds", cfg.Rounds).
		Int("contenders", cfg.Contenders).
		Msg("simulator starting")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, db.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	pgPool.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("load data pool")
	}
	log.Info().Int("patients", len(dataPool.PatientEmails)).Int("doctors", len(dataPool.Doctors)).Msg("data pool loaded")

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	if err := sim.login(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("login patients")
	}

	sim.Run(context.Background())
	sim.PrintReport()
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base config: %v\n", err)
		os.Exit(1)
	}

	return SimConfig{
		APIBaseURL:   strings.TrimRight(getEnv("SIM_API_BASE_URL", "http://localhost:"+baseCfg.HTTPPort), "/"),
		Rounds:       getInt("SIM_ROUNDS", 20),
		Contenders:   getInt("SIM_CONTENDERS", 10),
		Password:     getEnv("SIM_PASSWORD", "docspot123"),
		PatientLimit: getInt("SIM_PATIENT_LIMIT", 50),
		PostgresDSN:  baseCfg.PostgresDSN,
	}
}

func validateConfig(cfg SimConfig) error {
	if cfg.Rounds <= 0 {
		return fmt.Errorf("SIM_ROUNDS must be > 0")
	}
	if cfg.Contenders < 2 {
		return fmt.Errorf("SIM_CONTENDERS must be >= 2")
	}
	return nil
}

// loadDataPool picks verified non-doctor accounts as patients and approved
// doctors as booking targets. Seeded accounts share one password.
func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `
		SELECT email FROM users
		WHERE is_verified AND NOT is_doctor AND NOT is_admin AND NOT is_blocked
		ORDER BY created_at
		LIMIT $1
	`, cfg.PatientLimit)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			rows.Close()
			return nil, err
		}
		dataPool.PatientEmails = append(dataPool.PatientEmails, email)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = pool.Query(ctx, `SELECT id, open_time FROM doctors WHERE status = 'approved'`)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	for rows.Next() {
		var t slotTarget
		if err := rows.Scan(&t.DoctorID, &t.OpenTime); err != nil {
			rows.Close()
			return nil, err
		}
		dataPool.Doctors = append(dataPool.Doctors, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(dataPool.PatientEmails) < cfg.Contenders {
		return nil, fmt.Errorf("need %d patients, found %d (run docspotctl seed)", cfg.Contenders, len(dataPool.PatientEmails))
	}
	if len(dataPool.Doctors) == 0 {
		return nil, fmt.Errorf("no approved doctors (run docspotctl seed)")
	}
	return dataPool, nil
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (s *Simulator) post(ctx context.Context, path, token string, body any) (apiResponse, error) {
	var out apiResponse

	payload, err := json.Marshal(body)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s response (status %d): %w", path, resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return out, fmt.Errorf("%s: status %d: %s", path, resp.StatusCode, out.Message)
	}
	return out, nil
}

func (s *Simulator) login(ctx context.Context) error {
	for _, email := range s.pool.PatientEmails[:s.config.Contenders] {
		resp, err := s.post(ctx, "/api/user/login", "", map[string]string{
			"email":    email,
			"password": s.config.Password,
		})
		if err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("login %s: %s", email, resp.Message)
		}
		s.tokens = append(s.tokens, resp.Token)
	}
	return nil
}

// Run fires one burst per round. Each round targets a fresh slot: doctors
// rotate and the date moves one day further out every full rotation.
func (s *Simulator) Run(ctx context.Context) {
	today := time.Now()

	for round := 0; round < s.config.Rounds; round++ {
		target := s.pool.Doctors[round%len(s.pool.Doctors)]
		date := today.AddDate(0, 0, 1+round/len(s.pool.Doctors)).Format(availability.DateLayout)

		successes := s.burst(ctx, target, date)
		switch {
		case successes > 1:
			s.doubleBooked++
			log.Warn().Int("round", round).Int("successes", successes).Str("date", date).Msg("slot double booked")
		case successes == 0:
			s.unclaimed++
		}
	}
}

func (s *Simulator) burst(ctx context.Context, target slotTarget, date string) int {
	var (
		wg        sync.WaitGroup
		successes int64
		start     = make(chan struct{})
	)

	for _, token := range s.tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			<-start

			began := time.Now()
			resp, err := s.post(ctx, "/api/user/book-appointment", token, map[string]string{
				"doctorId": target.DoctorID.String(),
				"date":     date,
				"time":     target.OpenTime,
			})
			latency := time.Since(began)

			if err != nil {
				log.Debug().Err(err).Msg("booking request failed")
				s.booking.Record(latency, false, false)
				return
			}
			if resp.Success {
				atomic.AddInt64(&successes, 1)
			}
			s.booking.Record(latency, resp.Success, !resp.Success)
		}(token)
	}

	close(start)
	wg.Wait()
	return int(successes)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("CONTENTION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Rounds: %d\n", s.config.Rounds)
	fmt.Printf("Contenders per slot: %d\n", s.config.Contenders)
	fmt.Printf("Double-booked slots: %d\n", s.doubleBooked)
	fmt.Printf("Unclaimed slots: %d\n", s.unclaimed)
	fmt.Println()

	printOperationReport("Booking", &s.booking)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, lo, hi, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Rejected: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), lo.Round(time.Millisecond), hi.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
