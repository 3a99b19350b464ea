package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"HeadlineSentinel/internal/collector"
	"HeadlineSentinel/internal/config"
	"HeadlineSentinel/internal/logger"
	"HeadlineSentinel/internal/model"
	"HeadlineSentinel/internal/notifier"
	"HeadlineSentinel/internal/pipeline"
	"HeadlineSentinel/internal/recorder"
	"HeadlineSentinel/internal/scheduler"
)

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	configPath := flag.String("config", cfgPath, "config file path")
	date := flag.String("date", "", "target date in M/D/YYYY form; prompted for when empty")
	save := flag.Bool("save", false, "save results to CSV without prompting")
	watch := flag.Bool("watch", false, "run the scan on the configured schedule")
	flag.Parse()

	if err := run(*configPath, *date, *save, *watch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n%+v\n", err, err)
		os.Exit(1)
	}
}

func run(configPath, date string, save, watch bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	_, logCloser, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	prices, err := newPriceSource(cfg)
	if err != nil {
		return err
	}
	if c, ok := prices.(io.Closer); ok {
		defer c.Close()
	}
	log.Info().Str("source", prices.Name()).Int("headline_files", len(cfg.Headlines.Files)).Msg("HeadlineSentinel starting")

	engine := pipeline.NewEngine(collector.NewCollector(cfg.Headlines.Files, prices))
	if watch {
		return runWatch(cfg, engine)
	}
	return runOnce(engine, cfg, date, save, os.Stdin, os.Stdout)
}

func newPriceSource(cfg *config.Config) (collector.PriceSource, error) {
	switch cfg.Prices.Source {
	case "sqlite":
		return collector.NewSQLitePriceSource(cfg.Prices.SQLitePath, cfg.Prices.SQLiteQuery)
	case "alpaca":
		a := cfg.Prices.Alpaca
		return collector.NewAlpacaPriceSource(a.APIKey, a.APISecret, a.BaseURL, a.Feed, a.LookbackDays), nil
	case "tsv":
		return collector.NewTSVPriceSource(cfg.Prices.Path), nil
	default:
		return nil, errors.Errorf("unknown price source %q", cfg.Prices.Source)
	}
}

// runOnce scans a single date, prompting on in for anything not given by flags.
func runOnce(engine *pipeline.Engine, cfg *config.Config, date string, save bool, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	if date == "" {
		fmt.Fprint(out, "Enter date to filter (format M/D/YYYY, e.g., 5/6/2024): ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return errors.Wrap(err, "read date")
		}
		date = strings.TrimSpace(line)
	}

	res, err := pipeline.Resolve(date, model.TriggerCLI)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, notifier.FormatPreamble(res))

	if err := engine.Scan(context.Background(), res); err != nil {
		return err
	}
	if err := notifier.WriteTable(out, res); err != nil {
		return errors.Wrap(err, "print results")
	}

	if !save {
		fmt.Fprint(out, "\nSave results to file? (y/n): ")
		answer, _ := reader.ReadString('\n')
		save = strings.EqualFold(strings.TrimSpace(answer), "y")
	}
	if !save {
		return nil
	}

	rec, err := recorder.NewCSVRecorder(cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer rec.Close()
	path, err := rec.RecordScan(res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved results to %s\n", path)
	return nil
}

func runWatch(cfg *config.Config, engine *pipeline.Engine) error {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return errors.Wrap(err, "load timezone")
	}
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.SaveScheduled() {
		csvRec, err := recorder.NewCSVRecorder(cfg.Output.Dir)
		if err != nil {
			return err
		}
		rec = csvRec
	}
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, summaries are only logged")
	}

	sched := scheduler.NewScheduler(ctx, engine, sender, rec, loc)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, scanning now")
		go sched.RunNow()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Str("timezone", cfg.Schedule.Timezone).Msg("watching. Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return nil
}
