// Package schedule provides a cron-style task scheduler for Bazaar.
//
// Usage:
//
//	schedule.Every(1).Hours().Name("carts:prune").Run(pruneStaleCarts)
//	schedule.Daily().At("03:30").Run(rebuildCatalogCache)
//	schedule.Cron("0 3 * * *").Run(exportOrders)
//
//	// Start the scheduler in the background (call once at boot):
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// Task is the function signature for a scheduled task.
type Task func()

// entry is one registered task with its firing rule. Exactly one of
// interval, cronExpr, or dailyAt is set.
type entry struct {
	id        string
	interval  time.Duration
	cronExpr  string
	dailyAt   string // "HH:MM", daily tasks only
	task      Task
	lastRun   time.Time
	lastTook  time.Duration
	runs      int
	running   bool // overlap guard
	noOverlap bool
	mu        sync.Mutex
}

// Scheduler owns a set of entries and dispatches the due ones.
type Scheduler struct {
	mu      sync.Mutex
	entries []*entry
}

// std is the process-wide scheduler the package-level functions feed.
var std = &Scheduler{}

func (s *Scheduler) add(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.id == "" {
		e.id = fmt.Sprintf("task-%d", len(s.entries)+1)
	}
	s.entries = append(s.entries, e)
}

func (s *Scheduler) snapshot() []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Schedule is a fluent builder for a single entry before it is registered.
type Schedule struct {
	e *entry
}

// EveryMinute schedules the task to run every 60 seconds.
func EveryMinute() *Schedule { return Every(1).Minutes() }

// Every starts a fluent builder with n units.
func Every(n int) *freqBuilder { return &freqBuilder{n: n} }

// Hourly schedules the task to run every hour.
func Hourly() *Schedule { return Every(1).Hours() }

// Daily schedules the task to run every 24 hours, or at a fixed clock time
// when combined with At.
func Daily() *Schedule { return Every(24).Hours() }

// Cron schedules using a 5-field cron expression (min hour dom mon dow).
func Cron(expr string) *Schedule {
	return &Schedule{e: &entry{cronExpr: expr}}
}

type freqBuilder struct{ n int }

func (f *freqBuilder) Seconds() *Schedule { return f.every(time.Second) }
func (f *freqBuilder) Minutes() *Schedule { return f.every(time.Minute) }
func (f *freqBuilder) Hours() *Schedule   { return f.every(time.Hour) }
func (f *freqBuilder) Days() *Schedule    { return f.every(24 * time.Hour) }

func (f *freqBuilder) every(unit time.Duration) *Schedule {
	return &Schedule{e: &entry{interval: time.Duration(f.n) * unit}}
}

// At pins a daily task to a clock time ("HH:MM", server local time). It has
// no effect on cron or sub-daily entries.
func (s *Schedule) At(clock string) *Schedule {
	if s.e.interval == 24*time.Hour {
		s.e.dailyAt = clock
	}
	return s
}

// WithoutOverlapping prevents a new run if the previous one is still executing.
func (s *Schedule) WithoutOverlapping() *Schedule {
	s.e.noOverlap = true
	return s
}

// Name gives the entry a human-readable identifier for logging.
func (s *Schedule) Name(id string) *Schedule {
	s.e.id = id
	return s
}

// Run registers the task. Call Start() to begin dispatching.
func (s *Schedule) Run(fn Task) {
	s.e.task = fn
	std.add(s.e)
}

// Start begins the scheduler loop in the background.
// It ticks every second and dispatches due tasks.
func Start(ctx context.Context) {
	go std.run(ctx)
	logger.Info("schedule: scheduler started")
}

func (s *Scheduler) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: scheduler stopped")
			return
		case now := <-ticker.C:
			for _, e := range s.snapshot() {
				if e.due(now) {
					e.dispatch()
				}
			}
		}
	}
}

// due decides whether the entry should fire at the given instant. Clocked
// entries (cron, dailyAt) fire at most once per matching minute; interval
// entries fire when the interval has elapsed since the last run.
func (e *entry) due(now time.Time) bool {
	switch {
	case e.cronExpr != "":
		return !e.firedThisMinute(now) && matchCron(e.cronExpr, now)
	case e.dailyAt != "":
		return !e.firedThisMinute(now) && now.Format("15:04") == e.dailyAt
	case e.lastRun.IsZero():
		return true // first run
	default:
		return now.Sub(e.lastRun) >= e.interval
	}
}

func (e *entry) firedThisMinute(now time.Time) bool {
	return !e.lastRun.IsZero() &&
		e.lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute))
}

func (e *entry) dispatch() {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = time.Now()
	e.runs++
	e.mu.Unlock()

	go func() {
		start := time.Now()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.lastTook = time.Since(start)
			e.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "id", e.id, "panic", r)
				return
			}
			logger.Info("schedule: task finished", "id", e.id, "took", time.Since(start).String())
		}()

		e.task()
	}()
}

// ------------------- Minimal cron parser -------------------
// Supports 5-field cron: minute hour dom month dow
// Each field: * | number | */step | number-number

func matchCron(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	checks := []struct {
		field string
		val   int
	}{
		{fields[0], t.Minute()},
		{fields[1], t.Hour()},
		{fields[2], t.Day()},
		{fields[3], int(t.Month())},
		{fields[4], int(t.Weekday())},
	}
	for _, c := range checks {
		if !matchField(c.field, c.val) {
			return false
		}
	}
	return true
}

func matchField(field string, val int) bool {
	if field == "*" {
		return true
	}
	if strings.HasPrefix(field, "*/") {
		var step int
		fmt.Sscanf(field[2:], "%d", &step)
		return step > 0 && val%step == 0
	}
	if strings.Contains(field, "-") {
		var lo, hi int
		fmt.Sscanf(field, "%d-%d", &lo, &hi)
		return val >= lo && val <= hi
	}
	var n int
	fmt.Sscanf(field, "%d", &n)
	return n == val
}

// List describes every registered entry (for CLI display).
func List() []string {
	out := []string{}
	for _, e := range std.snapshot() {
		e.mu.Lock()
		freq := e.cronExpr
		if freq == "" && e.dailyAt != "" {
			freq = "daily at " + e.dailyAt
		}
		if freq == "" {
			freq = "every " + e.interval.String()
		}
		line := fmt.Sprintf("%s  [%s]  runs=%d", e.id, freq, e.runs)
		e.mu.Unlock()
		out = append(out, line)
	}
	return out
}
