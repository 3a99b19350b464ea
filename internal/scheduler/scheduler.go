package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/calendar"
	"HeadlineSentinel/internal/model"
	"HeadlineSentinel/internal/notifier"
	"HeadlineSentinel/internal/pipeline"
	"HeadlineSentinel/internal/recorder"
)

// Sender delivers a text message. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the morning scan on a cron schedule and answers commands.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *pipeline.Engine
	Notifier Sender // may be nil
	Recorder recorder.Recorder
	Location *time.Location
	Ctx      context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler whose cron runs in loc.
func NewScheduler(ctx context.Context, engine *pipeline.Engine, sender Sender, rec recorder.Recorder, loc *time.Location) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Engine:   engine,
		Notifier: sender,
		Recorder: rec,
		Location: loc,
		Ctx:      ctx,
		now:      time.Now,
	}
}

// Register adds the daily scan task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.scanToday); err != nil {
		return errors.Wrap(err, "register scan task")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running scan.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the scheduled scan immediately.
func (s *Scheduler) RunNow() {
	s.scanToday()
}

func (s *Scheduler) scanToday() {
	today := s.now().In(s.Location)
	if !calendar.IsTradingDay(today) {
		log.Info().Str("date", today.Format("2006-01-02")).Msg("not a trading day, scan skipped")
		return
	}
	raw := calendar.FormatDate(today)
	log.Info().Str("date", raw).Msg("running scheduled scan")

	res, err := s.Engine.Run(s.Ctx, raw, model.TriggerSchedule)
	if err != nil {
		log.Error().Err(err).Str("date", raw).Msg("scheduled scan failed")
		s.trySend(fmt.Sprintf("❌ Scan for %s failed: %s", html.EscapeString(raw), html.EscapeString(err.Error())))
		return
	}

	if path, err := s.Recorder.RecordScan(res); err != nil {
		log.Error().Err(err).Msg("record scan")
	} else if path != "" {
		log.Info().Str("path", path).Msg("scan saved")
	}
	s.trySend(notifier.FormatScanSummary(res))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch fields[0] {
	case "/scan":
		raw := calendar.FormatDate(s.now().In(s.Location))
		if len(fields) > 1 {
			raw = fields[1]
		}
		res, err := s.Engine.Run(ctx, raw, model.TriggerTelegram)
		if err != nil {
			if errors.Is(err, calendar.ErrInvalidDateFormat) {
				return "Usage: /scan M/D/YYYY"
			}
			log.Error().Err(err).Str("date", raw).Msg("command scan failed")
			return fmt.Sprintf("❌ Scan failed: %s", html.EscapeString(err.Error()))
		}
		return notifier.FormatScanSummary(res)
	default:
		return helpText
	}
}

const helpText = "Commands:\n• /scan M/D/YYYY - headlines and volatility bands for a date\n• /scan - today"

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
