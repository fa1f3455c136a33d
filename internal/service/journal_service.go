package service

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"github.com/growthlog/internal/scoring"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// JournalEntry 为日志详情视图中的一天，文字字段已渲染为安全 HTML
type JournalEntry struct {
	Date        string         `json:"date"`
	Week        string         `json:"week"`
	Total       int            `json:"total"`
	Habits      []JournalHabit `json:"habits"`
	NextGoal    template.HTML  `json:"next_goal"`
	Reflection  template.HTML  `json:"reflection"`
	WeeklyRetro template.HTML  `json:"weekly_retro"`
}

// JournalHabit 为当日已完成的习惯及说明
type JournalHabit struct {
	Key    string `json:"key"`
	Detail string `json:"detail"`
}

// JournalService 生成只读的日志详情
type JournalService struct {
	logs *LogService
}

// NewJournalService 构造 JournalService
func NewJournalService(logs *LogService) *JournalService {
	return &JournalService{logs: logs}
}

// Entries 返回最近 limit 天的日志，最新的在前；limit<=0 表示全部
func (s *JournalService) Entries(ctx context.Context, limit int) ([]JournalEntry, error) {
	records, err := s.logs.History(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	keys := s.logs.HabitKeys()
	entries := make([]JournalEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, journalEntry(record, keys))
	}
	return entries, nil
}

func journalEntry(record scoring.Record, keys []string) JournalEntry {
	entry := JournalEntry{
		Date:        record.Key(),
		Week:        scoring.WeekOf(record.Date).String(),
		Total:       record.Total(keys),
		Habits:      make([]JournalHabit, 0, len(keys)),
		NextGoal:    RenderMarkdown(record.NextGoal),
		Reflection:  RenderMarkdown(record.Reflection),
		WeeklyRetro: RenderMarkdown(record.WeeklyRetro),
	}
	for _, key := range keys {
		if record.Value(key) == 1 {
			entry.Habits = append(entry.Habits, JournalHabit{Key: key, Detail: record.Detail(key)})
		}
	}
	return entry
}

// RenderMarkdown 渲染 Markdown 并清洗为安全 HTML，渲染失败时退回转义后的原文
func RenderMarkdown(source string) template.HTML {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes()))
}
