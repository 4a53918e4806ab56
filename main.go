package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"keyword-scout/internal/config"
	"keyword-scout/internal/present"
	"keyword-scout/internal/research"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/naver"
	"keyword-scout/pkg/scoring"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// offlineResult is what the CLI prints for flag-supplied signals.
type offlineResult struct {
	Keyword string `json:"keyword"`
	scoring.Evaluation
	Display present.Analysis `json:"display"`
}

func main() {
	var (
		keyword = flag.String("keyword", getEnvOrDefault("KEYWORD", ""), "Keyword to score (env: KEYWORD)")
		trend   = flag.String("trend", getEnvOrDefault("TREND_RATIOS", ""), "Comma-separated monthly trend ratios, oldest first (env: TREND_RATIOS)")
		content = flag.Int("content", getEnvIntOrDefault("CONTENT_COUNT", 0), "Total blog plus cafe posts (env: CONTENT_COUNT)")
		pc      = flag.Int("pc", getEnvIntOrDefault("PC_SEARCHES", -1), "Monthly PC searches, omit for trend-only scoring (env: PC_SEARCHES)")
		mobile  = flag.Int("mobile", getEnvIntOrDefault("MOBILE_SEARCHES", -1), "Monthly mobile searches (env: MOBILE_SEARCHES)")
		lang    = flag.String("lang", getEnvOrDefault("SCOUT_LANG", "ko"), "Display language, ko or en (env: SCOUT_LANG)")
		live    = flag.Bool("live", getEnvBoolOrDefault("SCOUT_LIVE", false), "Fetch signals from Naver using the server configuration (env: SCOUT_LIVE)")
		cfgPath = flag.String("config", getEnvOrDefault("SCOUT_CONFIG", ""), "Configuration file for -live (env: SCOUT_CONFIG)")
		debug   = flag.Bool("debug", getEnvBoolOrDefault("DEBUG", false), "Enable debug logging (env: DEBUG)")
		help    = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}
	if strings.TrimSpace(*keyword) == "" {
		fmt.Println("ERROR: keyword is required.")
		fmt.Println("Use -keyword flag or KEYWORD environment variable.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	level := "warn"
	if *debug {
		level = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{Level: level, Format: "console", Output: "stderr"}))
	tag := present.Lang(*lang)

	var out interface{}
	if *live {
		report, err := runLive(*cfgPath, *keyword, tag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		out = report
	} else {
		signals, err := buildSignals(*trend, *content, *pc, *mobile, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		out = scoreOffline(scoring.NewEngine(scoring.DefaultConfig()), *keyword, signals, tag)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func scoreOffline(engine *scoring.Engine, keyword string, s scoring.Signals, lang language.Tag) offlineResult {
	eval := engine.Evaluate(s)
	return offlineResult{
		Keyword:    keyword,
		Evaluation: eval,
		Display:    present.Describe(eval.Opportunity, s.ContentCount, s.Volume, lang),
	}
}

func runLive(configPath, keyword string, lang language.Tag) (*research.Report, error) {
	cfg, err := config.NewManager(".env").Load(configPath)
	if err != nil {
		return nil, err
	}
	client := naver.NewClient(cfg.Naver)
	svc := research.NewService(research.Dependencies{
		Trend:  client,
		Search: client,
		Ads:    client,
	}, scoring.NewEngine(cfg.Scoring))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return svc.Analyze(ctx, keyword, lang)
}

// buildSignals turns flag values into scoring input. Trend ratios are
// labelled with the months ending at now. Negative pc and mobile mean no
// search volume is known.
func buildSignals(trend string, contentCount, pc, mobile int, now time.Time) (scoring.Signals, error) {
	s := scoring.Signals{ContentCount: contentCount}
	if contentCount < 0 {
		return s, fmt.Errorf("content count must not be negative: %d", contentCount)
	}

	if strings.TrimSpace(trend) != "" {
		parts := strings.Split(trend, ",")
		for i, part := range parts {
			ratio, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return s, fmt.Errorf("invalid trend ratio %q: %w", part, err)
			}
			if ratio < 0 || ratio > 100 {
				return s, fmt.Errorf("trend ratio %v out of range 0..100", ratio)
			}
			period := now.AddDate(0, i-len(parts)+1, 0).Format("2006-01")
			s.Trend = append(s.Trend, scoring.TrendPoint{Period: period, Ratio: ratio})
		}
	}

	if pc >= 0 || mobile >= 0 {
		s.Volume = &scoring.SearchVolume{PCCount: max(pc, 0), MobileCount: max(mobile, 0)}
	}
	return s, nil
}

func printUsage() {
	fmt.Println("keyword-scout: blog keyword opportunity scoring")
	fmt.Println("")
	fmt.Println("USAGE:")
	fmt.Println("    ./keyword-scout -keyword <KEYWORD> [OPTIONS]")
	fmt.Println("    ./keyword-scout -keyword <KEYWORD> -live   # uses Naver API keys from the environment")
	fmt.Println("")
	fmt.Println("OFFLINE SIGNALS:")
	fmt.Println("    -trend string     Monthly trend ratios, oldest first (env: TREND_RATIOS)")
	fmt.Println("    -content int      Total blog plus cafe posts (env: CONTENT_COUNT)")
	fmt.Println("    -pc int           Monthly PC searches (env: PC_SEARCHES)")
	fmt.Println("    -mobile int       Monthly mobile searches (env: MOBILE_SEARCHES)")
	fmt.Println("")
	fmt.Println("OPTIONS:")
	fmt.Println("    -lang string      ko or en (default: ko, env: SCOUT_LANG)")
	fmt.Println("    -live             Fetch signals from Naver (env: SCOUT_LIVE)")
	fmt.Println("    -config string    Config file for -live (env: SCOUT_CONFIG)")
	fmt.Println("    -debug            Enable debug logging (env: DEBUG)")
	fmt.Println("    -help             Show this help message")
	fmt.Println("")
	fmt.Println("EXAMPLES:")
	fmt.Println("    ./keyword-scout -keyword 캠핑 -trend 40,60,80 -content 1000 -pc 1000 -mobile 2000")
	fmt.Println("    KEYWORD=캠핑 TREND_RATIOS=20,30 CONTENT_COUNT=500 ./keyword-scout -lang en")
}
