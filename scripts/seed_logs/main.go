package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/growthlog/internal/config"
	"github.com/growthlog/internal/logger"
	"github.com/growthlog/internal/scoring"
	"github.com/growthlog/internal/service"
	"github.com/growthlog/internal/store"
)

// 测试数据生成器：按当前 STORE_DRIVER 写入若干天的示例日志
func main() {
	var days int
	var seed uint64
	var rate float64
	flag.IntVar(&days, "days", 60, "number of days to generate, ending today")
	flag.Uint64Var(&seed, "seed", 42, "random seed")
	flag.Float64Var(&rate, "rate", 0.6, "probability that a habit is done on a given day")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	tracker, err := config.LoadTracker(cfg.TrackerConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load tracker: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	tables, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	today := scoring.NormalizeDate(time.Now().In(cfg.Location))
	entries := generateEntries(tracker, today, days, seed, rate)

	logs := service.NewLogService(tables, cfg.Worksheets.Logs, tracker.Schema(), logger.Nop())
	for _, entry := range entries {
		if _, err := logs.SaveDay(ctx, entry); err != nil {
			fmt.Fprintf(os.Stderr, "save %s: %v\n", scoring.DateKey(entry.Date), err)
			os.Exit(1)
		}
	}

	fmt.Printf("done: wrote %d days to %s (%s)\n", len(entries), cfg.Worksheets.Logs, cfg.StoreDriver)
}

var sampleDetails = []string{"morning session", "30 minutes", "chapter 3", "kept it simple", "with friends"}

// generateEntries 生成 [today-days+1, today] 的确定性示例提交
func generateEntries(tracker config.Tracker, today time.Time, days int, seed uint64, rate float64) []scoring.DayEntry {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	entries := make([]scoring.DayEntry, 0, max(days, 0))

	for offset := days - 1; offset >= 0; offset-- {
		entry := scoring.DayEntry{
			Date:    today.AddDate(0, 0, -offset),
			Habits:  make(map[string]bool, len(tracker.Habits)),
			Details: make(map[string]string, len(tracker.Habits)),
		}
		for _, habit := range tracker.Habits {
			chance := rate
			if habit.Weekly {
				chance = rate / 7
			}
			if rng.Float64() < chance {
				entry.Habits[habit.Key] = true
				entry.Details[habit.Key] = sampleDetails[rng.IntN(len(sampleDetails))]
			}
		}
		if rng.IntN(3) == 0 {
			entry.Reflection = "Solid day, **kept momentum**."
		}
		if entry.Date.Weekday() == time.Sunday {
			entry.WeeklyRetro = "Review the week and plan the next one."
		}
		entries = append(entries, entry)
	}
	return entries
}
