// Package daemon provides the long-running plan service: an HTTP API over the
// engine and a scheduled recompute of every stored user's plan.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/payoffhq/payoff/internal/advisor"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/pipeline"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr string
	// RecomputeCron is a standard five-field cron spec. Empty disables
	// scheduled recomputes.
	RecomputeCron    string
	RecomputeOnStart bool
	RunTimeout       time.Duration
	EventsBuffer     int
}

// UserLister enumerates users with stored debts.
type UserLister interface {
	Users(ctx context.Context) ([]string, error)
}

// PlanSummary is a compact plan state for status and event payloads.
type PlanSummary struct {
	User             string          `json:"user"`
	Strategy         model.Strategy  `json:"strategy"`
	MonthsToDebtFree int             `json:"months_to_debt_free"`
	DebtFreeDate     *time.Time      `json:"debt_free_date,omitempty"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	Incomplete       bool            `json:"incomplete"`
}

// Delta captures how a user's plan moved between recomputes.
type Delta struct {
	Months   int             `json:"months"`
	Interest decimal.Decimal `json:"interest"`
}

func (d Delta) isZero() bool {
	return d.Months == 0 && d.Interest.IsZero()
}

// RunSummary describes one batch recompute.
type RunSummary struct {
	At        time.Time `json:"at"`
	Users     int       `json:"users"`
	Computed  int       `json:"computed"`
	CacheHits int       `json:"cache_hits"`
	Failed    int       `json:"failed"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

// Event types.
const (
	EventRecompute   = "recompute"
	EventPlan        = "plan"
	EventPlanChanged = "plan_changed"
)

// Event is emitted after recomputes and whenever a user's plan changes.
type Event struct {
	ID        int64        `json:"id"`
	Type      string       `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Run       *RunSummary  `json:"run,omitempty"`
	Plan      *PlanSummary `json:"plan,omitempty"`
	Delta     *Delta       `json:"delta,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time  `json:"started_at"`
	LastRunAt       time.Time  `json:"last_run_at"`
	RunCount        int64      `json:"run_count"`
	RecomputeCron   string     `json:"recompute_cron,omitempty"`
	RunTimeoutSec   int        `json:"run_timeout_sec"`
	LastRun         RunSummary `json:"last_run"`
	Plans           int        `json:"plans"`
	LastError       string     `json:"last_error,omitempty"`
	EventCount      int        `json:"event_count"`
	SubscriberCount int        `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	planner *pipeline.Planner
	users   UserLister

	mu          sync.RWMutex
	startedAt   time.Time
	lastRunAt   time.Time
	runCount    int64
	lastRun     RunSummary
	lastError   string
	plans       map[string]PlanSummary
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service that plans through planner and recomputes
// the users listed by users.
func New(cfg Config, planner *pipeline.Planner, users UserLister) *Service {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 5 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	return &Service{
		cfg:       cfg,
		planner:   planner,
		users:     users,
		startedAt: time.Now(),
		plans:     make(map[string]PlanSummary),
		subs:      make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /v1/simulate", s.handleSimulate)
	mux.HandleFunc("POST /v1/compare", s.handleCompare)
	mux.HandleFunc("GET /v1/plans", s.handlePlans)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	return mux
}

// Run serves the API and runs scheduled recomputes until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	sched := cron.New()
	if s.cfg.RecomputeCron != "" {
		if _, err := sched.AddFunc(s.cfg.RecomputeCron, func() { s.Recompute(ctx) }); err != nil {
			return fmt.Errorf("register recompute schedule: %w", err)
		}
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if s.cfg.RecomputeOnStart {
		s.Recompute(ctx)
	}

	sched.Start()
	log.Printf("[INFO] daemon listening on %s", s.cfg.Addr)

	select {
	case <-ctx.Done():
		<-sched.Stop().Done()
		log.Println("[INFO] scheduler stopped")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		sched.Stop()
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// Recompute plans every stored user and publishes the results.
func (s *Service) Recompute(ctx context.Context) {
	log.Println("[INFO] running recompute")
	users, err := s.users.Users(ctx)
	if err != nil {
		s.recordError(fmt.Errorf("listing users: %w", err))
		return
	}

	batch, err := s.planner.RecomputeAll(ctx, users, s.cfg.RunTimeout, nil)
	if err != nil {
		s.recordError(fmt.Errorf("recompute: %w", err))
		return
	}

	now := time.Now()
	run := RunSummary{
		At:        now,
		Users:     len(users),
		Computed:  batch.Computed,
		CacheHits: batch.CacheHits,
		Failed:    batch.Failed,
		ElapsedMS: batch.Elapsed.Milliseconds(),
	}

	var lastErr string
	for _, o := range batch.Outcomes {
		if o.Err != nil {
			lastErr = o.Err.Error()
			log.Printf("[WARN] recompute %s: %v", o.User, o.Err)
			continue
		}
		s.recordPlan(o.User, o.Result.Plan, now)
	}

	s.mu.Lock()
	s.lastRun = run
	s.lastRunAt = now
	s.runCount++
	s.lastError = lastErr
	s.publishLocked(Event{Type: EventRecompute, Timestamp: now, Run: &run})
	s.mu.Unlock()

	log.Printf("[INFO] recompute done: %d users, %d computed, %d cached, %d failed in %s",
		run.Users, run.Computed, run.CacheHits, run.Failed, batch.Elapsed.Round(time.Millisecond))
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.lastRunAt = time.Now()
	s.runCount++
	s.mu.Unlock()
	log.Printf("[WARN] %v", err)
}

// recordPlan stores a user's latest plan summary and publishes an event the
// first time the user is seen or when the plan moved.
func (s *Service) recordPlan(user string, plan *model.PaymentPlan, now time.Time) {
	curr := summarizePlan(user, plan)

	s.mu.Lock()
	defer s.mu.Unlock()
	prev, seen := s.plans[user]
	s.plans[user] = curr

	if !seen {
		s.publishLocked(Event{Type: EventPlan, Timestamp: now, Plan: &curr})
		return
	}
	if delta := diffPlans(prev, curr); !delta.isZero() {
		s.publishLocked(Event{Type: EventPlanChanged, Timestamp: now, Plan: &curr, Delta: &delta})
	}
}

func summarizePlan(user string, plan *model.PaymentPlan) PlanSummary {
	return PlanSummary{
		User:             user,
		Strategy:         plan.Strategy,
		MonthsToDebtFree: plan.Totals.MonthsToDebtFree,
		DebtFreeDate:     plan.Totals.DebtFreeDate,
		TotalInterest:    plan.Totals.TotalInterest,
		Incomplete:       plan.Totals.Incomplete,
	}
}

func diffPlans(prev, curr PlanSummary) Delta {
	return Delta{
		Months:   curr.MonthsToDebtFree - prev.MonthsToDebtFree,
		Interest: curr.TotalInterest.Sub(prev.TotalInterest),
	}
}

// publishLocked numbers ev, appends it to the ring and fans it out to
// subscribers. The caller holds s.mu, so IDs reach the ring in order.
func (s *Service) publishLocked(ev Event) {
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastRunAt:       s.lastRunAt,
		RunCount:        s.runCount,
		RecomputeCron:   s.cfg.RecomputeCron,
		RunTimeoutSec:   int(s.cfg.RunTimeout.Seconds()),
		LastRun:         s.lastRun,
		Plans:           len(s.plans),
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// bounded runs fn under the service's per-run timeout.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn()
		done <- outcome{v, err}
	}()
	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// CompareRequest is the body of POST /v1/compare. With All set every strategy
// is ranked; otherwise A and B default to snowball and avalanche.
type CompareRequest struct {
	engine.Request
	A   model.Strategy `json:"a,omitempty"`
	B   model.Strategy `json:"b,omitempty"`
	All bool           `json:"all,omitempty"`
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RunTimeout)
	defer cancel()
	res, err := s.planner.Plan(ctx, req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	e := s.planner.Engine

	if req.All {
		rec, err := bounded(r.Context(), s.cfg.RunTimeout, func() (*advisor.Recommendation, error) {
			return advisor.CompareAll(e, req.Request)
		})
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	a, b := req.A, req.B
	if a == "" {
		a = model.Snowball
	}
	if b == "" {
		b = model.Avalanche
	}
	c, err := bounded(r.Context(), s.cfg.RunTimeout, func() (*model.Comparison, error) {
		return e.Compare(req.Request, a, b)
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Service) handlePlans(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		writeError(w, http.StatusBadRequest, errors.New("user is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RunTimeout)
	defer cancel()
	res, err := s.planner.PlanFor(ctx, user)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.recordPlan(user, res.Plan, time.Now())
	writeJSON(w, http.StatusOK, res)
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send the latest run immediately.
	st := s.snapshotStatus()
	writeSSE(w, Event{Type: EventRecompute, Timestamp: time.Now(), Run: &st.LastRun})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
