// Package scheduler runs the agent's recurring social tasks on cron
// schedules. The clock and tick interval are injectable; schedules are
// evaluated with the standard 5-field cron parser.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/ryjin111/foxAI/pkg/access"
	"github.com/ryjin111/foxAI/pkg/market"
	"github.com/ryjin111/foxAI/pkg/personality"
	"github.com/ryjin111/foxAI/pkg/social"
	"github.com/ryjin111/foxAI/pkg/store"
)

// TaskType names the recurring jobs.
type TaskType string

const (
	TaskGmTweet             TaskType = "gm_tweet"
	TaskGasbackUpdate       TaskType = "gasback_update"
	TaskNftUpdate           TaskType = "nft_update"
	TaskCommunityEngagement TaskType = "community_engagement"
)

// Task is one scheduled job. LastRun and NextRun are mutated by the
// scheduler; everything else is fixed at startup.
type Task struct {
	ID          string    `json:"id"`
	Type        TaskType  `json:"type"`
	Schedule    string    `json:"schedule"`
	LastRun     time.Time `json:"lastRun"`
	NextRun     time.Time `json:"nextRun"`
	Enabled     bool      `json:"enabled"`
	Priority    string    `json:"priority"`
	Description string    `json:"description"`
}

// MarketData is the market surface the scheduled reports need.
type MarketData interface {
	MarketAnalytics(ctx context.Context) market.MarketAnalytics
}

// Deps are the scheduler's collaborators.
type Deps struct {
	Social       social.Client
	Store        store.Store
	Access       *access.Manager
	Persona      *personality.Persona
	DripTrade    *market.DripTrade
	Market       MarketData
	Rng          *rand.Rand
	Log          zerolog.Logger
	Now          func() time.Time
	TickInterval time.Duration
}

// GmResult reports one morning-tweet attempt.
type GmResult struct {
	Posted        bool
	AlreadyPosted bool
	TweetID       string
	Content       string
	Date          string
}

// EngagementReply records one community-engagement reply.
type EngagementReply struct {
	MentionID string `json:"mentionId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"replyContent"`
	TweetID   string `json:"tweetId"`
}

// Status is a point-in-time snapshot for the status endpoints.
type Status struct {
	Running      bool   `json:"isRunning"`
	TotalTasks   int    `json:"totalTasks"`
	EnabledTasks int    `json:"enabledTasks"`
	NextTask     *Task  `json:"nextTask,omitempty"`
	Tasks        []Task `json:"tasks"`
}

// Scheduler owns the task table and the tick loop.
type Scheduler struct {
	deps Deps
	log  zerolog.Logger

	mu      sync.Mutex
	tasks   map[string]*Task
	running bool
}

// gmDateFormat is the calendar-day string the GM dedup compares.
const gmDateFormat = "Mon Jan 02 2006"

func New(deps Deps) (*Scheduler, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.TickInterval <= 0 {
		deps.TickInterval = time.Minute
	}
	s := &Scheduler{
		deps:  deps,
		log:   deps.Log.With().Str("component", "scheduler").Logger(),
		tasks: make(map[string]*Task),
	}
	defaults := []Task{
		{ID: "daily_gm_tweet", Type: TaskGmTweet, Schedule: "0 9 * * *", Enabled: true, Priority: "high",
			Description: "Post the daily GM tweet"},
		{ID: "weekly_gasback_update", Type: TaskGasbackUpdate, Schedule: "0 10 * * 1", Enabled: true, Priority: "medium",
			Description: "Post the weekly floor and rewards update"},
		{ID: "daily_nft_update", Type: TaskNftUpdate, Schedule: "0 14 * * *", Enabled: true, Priority: "medium",
			Description: "Post the daily rare trait alert"},
		{ID: "community_engagement", Type: TaskCommunityEngagement, Schedule: "0 */4 * * *", Enabled: true, Priority: "high",
			Description: "Reply to recent community mentions"},
	}
	now := deps.Now()
	for i := range defaults {
		task := defaults[i]
		sched, err := cron.ParseStandard(task.Schedule)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", task.ID, err)
		}
		task.NextRun = sched.Next(now)
		s.tasks[task.ID] = &task
	}
	return s, nil
}

// Start runs the tick loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()
	s.log.Info().Dur("tick", s.deps.TickInterval).Msg("scheduler started")

	ticker := time.NewTicker(s.deps.TickInterval)
	defer ticker.Stop()
	s.RunDue(ctx)
	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			s.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.RunDue(ctx)
		}
	}
}

// RunDue executes every enabled task whose NextRun has passed, then
// advances its schedule. Task failures are logged and do not stop the loop.
func (s *Scheduler) RunDue(ctx context.Context) {
	now := s.deps.Now()
	s.mu.Lock()
	var due []*Task
	for _, task := range s.tasks {
		if task.Enabled && !now.Before(task.NextRun) {
			due = append(due, task)
		}
	}
	s.mu.Unlock()
	sort.Slice(due, func(i, j int) bool { return due[i].ID < due[j].ID })

	for _, task := range due {
		if err := s.execute(ctx, task.Type); err != nil {
			s.log.Error().Err(err).Str("task", task.ID).Msg("task failed")
		} else {
			s.log.Info().Str("task", task.ID).Msg("task completed")
		}
		s.advance(task, now)
	}
}

func (s *Scheduler) advance(task *Task, ran time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.LastRun = ran
	if sched, err := cron.ParseStandard(task.Schedule); err == nil {
		task.NextRun = sched.Next(ran)
	}
}

func (s *Scheduler) execute(ctx context.Context, typ TaskType) error {
	s.deps.Access.EnableAdminBypass()
	defer s.deps.Access.DisableAdminBypass()

	switch typ {
	case TaskGmTweet:
		_, err := s.ExecuteGmTweet(ctx)
		return err
	case TaskGasbackUpdate:
		return s.postContent(ctx, s.deps.DripTrade.TweetContent(market.TweetFloor))
	case TaskNftUpdate:
		return s.postContent(ctx, s.deps.DripTrade.TweetContent(market.TweetTraits))
	case TaskCommunityEngagement:
		_, err := s.ExecuteCommunityEngagement(ctx)
		return err
	default:
		return fmt.Errorf("unknown task type %q", typ)
	}
}

func (s *Scheduler) postContent(ctx context.Context, content string) error {
	result := s.deps.Social.PostTweet(ctx, content)
	if !result.OK {
		return result.Err
	}
	return nil
}

// ExecuteGmTweet posts the daily GM tweet at most once per calendar day.
func (s *Scheduler) ExecuteGmTweet(ctx context.Context) (GmResult, error) {
	now := s.deps.Now()
	today := now.Format(gmDateFormat)

	last, err := s.deps.Store.LastGmTweet(ctx)
	if err != nil {
		return GmResult{}, fmt.Errorf("loading last GM tweet: %w", err)
	}
	if last != nil && last.Date == today {
		s.log.Info().Str("date", today).Msg("GM tweet already posted today")
		return GmResult{AlreadyPosted: true, Date: today}, nil
	}

	return s.PostGmTweet(ctx, today)
}

// PostGmTweet posts a GM tweet without the daily dedup check. Used by the
// manual trigger endpoint.
func (s *Scheduler) PostGmTweet(ctx context.Context, date string) (GmResult, error) {
	content := s.deps.Persona.GmTweet(s.deps.Rng)
	result := s.deps.Social.PostTweet(ctx, content)
	if !result.OK {
		return GmResult{Content: content, Date: date}, result.Err
	}
	rec := store.GmTweetRecord{
		ID:        xid.New().String(),
		Date:      date,
		Timestamp: s.deps.Now(),
		Success:   true,
	}
	if err := s.deps.Store.StoreGmTweet(ctx, rec); err != nil {
		s.log.Warn().Err(err).Msg("storing GM tweet record failed")
	}
	return GmResult{Posted: true, TweetID: result.TweetID, Content: content, Date: date}, nil
}

// ExecuteCommunityEngagement replies to up to 3 recent mentions with canned
// persona replies.
func (s *Scheduler) ExecuteCommunityEngagement(ctx context.Context) ([]EngagementReply, error) {
	mentions := s.deps.Social.GetMentions(ctx)
	if !mentions.OK {
		return nil, mentions.Err
	}
	targets := mentions.Mentions
	if len(targets) > 3 {
		targets = targets[:3]
	}
	var replies []EngagementReply
	for _, mention := range targets {
		content := s.deps.Persona.ReplyFor(mention.Text)
		result := s.deps.Social.ReplyToTweet(ctx, mention.ID, content)
		if !result.OK {
			s.log.Warn().Err(result.Err).Str("mention", mention.ID).Msg("engagement reply failed")
			continue
		}
		replies = append(replies, EngagementReply{
			MentionID: mention.ID,
			AuthorID:  mention.AuthorID,
			Content:   content,
			TweetID:   result.TweetID,
		})
	}
	return replies, nil
}

// ExecuteDailyReport posts a market summary built from exchange analytics.
func (s *Scheduler) ExecuteDailyReport(ctx context.Context) (social.PostResult, string, error) {
	analytics := s.deps.Market.MarketAnalytics(ctx)
	content := fmt.Sprintf("📊 Daily Hyperliquid EVM Report:\n\nVolume 24h: %s\nTotal Trades: %d\nActive Users: %d\n\n%s",
		analytics.Volume24h, analytics.TotalTrades, analytics.ActiveUsers, s.deps.DripTrade.SentimentLine())
	result := s.deps.Social.PostTweet(ctx, content)
	if !result.OK {
		return result, content, result.Err
	}
	return result, content, nil
}

// ExecuteHourlyMarketUpdate posts the ecosystem pulse tweet.
func (s *Scheduler) ExecuteHourlyMarketUpdate(ctx context.Context) (social.PostResult, string, error) {
	content := s.deps.DripTrade.TweetContent(market.TweetEcosystem)
	result := s.deps.Social.PostTweet(ctx, content)
	if !result.OK {
		return result, content, result.Err
	}
	return result, content, nil
}

// Status snapshots the task table.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{Running: s.running}
	var next *Task
	for _, task := range s.tasks {
		st.Tasks = append(st.Tasks, *task)
		st.TotalTasks++
		if !task.Enabled {
			continue
		}
		st.EnabledTasks++
		if next == nil || task.NextRun.Before(next.NextRun) {
			copied := *task
			next = &copied
		}
	}
	sort.Slice(st.Tasks, func(i, j int) bool { return st.Tasks[i].ID < st.Tasks[j].ID })
	st.NextTask = next
	return st
}

// SetEnabled flips one task on or off.
func (s *Scheduler) SetEnabled(taskID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return errors.New("unknown task " + taskID)
	}
	task.Enabled = enabled
	return nil
}
