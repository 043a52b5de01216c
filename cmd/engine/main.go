package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"swing-trade-engine/internal/analysis"
	"swing-trade-engine/internal/logger"
	"swing-trade-engine/internal/marketdata"
	"swing-trade-engine/internal/scoring"
	"swing-trade-engine/internal/store"
	"swing-trade-engine/internal/types"
)

const disclaimer = "NOT financial advice. Data-driven only. Markets are risky."

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	var (
		configPath   = flag.String("config", "config.yaml", "path to the config file")
		symbolFlag   = flag.String("symbol", "", "ticker symbol to analyze")
		snapshotPath = flag.String("snapshot", "", "analyze a saved snapshot file instead of fetching")
		saveSnapshot = flag.String("save-snapshot", "", "write the fetched snapshot to this file")
		jsonOut      = flag.Bool("json", false, "print the result as JSON")
	)
	flag.Parse()

	cfg, err := store.LoadConfig(*configPath)
	must(err)
	must(logger.Init())
	defer logger.Shutdown(context.Background())

	if *symbolFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: engine -symbol TICKER [-snapshot snapshot.json] [-json]")
		os.Exit(2)
	}
	symbol := strings.ToUpper(*symbolFlag)

	ctx := context.Background()

	var snap *marketdata.Snapshot
	switch {
	case *snapshotPath != "":
		snap, err = marketdata.LoadSnapshot(*snapshotPath)
		must(err)
	case cfg.DataSource == "FILE":
		fmt.Fprintln(os.Stderr, "data_source is FILE but no -snapshot was given")
		os.Exit(2)
	default:
		client := marketdata.NewClient(os.Getenv(cfg.APIKeyEnv))
		client.SetBenchmark(cfg.Benchmark)
		snap, err = client.FetchSnapshot(ctx, symbol)
		must(err)
		if *saveSnapshot != "" {
			must(marketdata.SaveSnapshot(*saveSnapshot, snap))
		}
	}

	res := analysis.New(cfg.Scoring.Weights, nil).Analyze(ctx, snap, symbol)

	if *jsonOut || cfg.Output.Format == "json" {
		b, err := json.MarshalIndent(res, "", "  ")
		must(err)
		fmt.Println(string(b))
	} else {
		printReport(symbol, res, snap)
	}
	if res.IsError() {
		os.Exit(1)
	}
}

func printReport(symbol string, res types.AnalysisResult, snap *marketdata.Snapshot) {
	fmt.Println("Stock Swing Trade Engine")
	fmt.Println(disclaimer)
	fmt.Println()

	if res.IsError() {
		fmt.Printf("Error during analysis: %s\n", res.Error)
		return
	}

	fmt.Printf("%s - Score: %d/100 -> %s\n", symbol, res.Score, res.Verdict)
	fmt.Printf("Price: $%s\n\n", res.Price)

	fmt.Println("Technicals")
	fmt.Printf("  RSI: %.1f | MACD bullish: %s | ADX: %.1f | Pattern: %s\n",
		res.RSI, check(res.MACDBull), res.ADX, res.Pattern)

	fmt.Println("Volume & Price Action")
	fmt.Printf("  Volume surge: %s | OBV bullish: %s\n", check(res.VolSurge), check(res.OBVBull))

	fmt.Println("Trend & Market")
	fmt.Printf("  Above MAs: %s | Benchmark uptrend: %s | Sector: %s\n",
		check(res.AboveMA), check(res.MarketUp), res.SectorRank)

	fmt.Println("Fundamentals & Sentiment")
	fmt.Printf("  Earnings QoQ: %s%% | Sentiment: %s\n", res.EarningsQoQ, res.AvgSentiment)
	if q := latestQuarter(snap); q != nil {
		fmt.Printf("  Last reported EPS: %s (est %s, surprise %s%%)\n",
			q.ReportedEPS, q.EstimatedEPS, q.SurprisePercentage)
	}

	fmt.Println("Open Interest")
	fmt.Printf("  Total calls OI: %d\n", res.OIChange)

	if strings.Contains(res.Verdict, "BUY") {
		fmt.Println("Swing Setup")
		fmt.Printf("  Entry ~ $%s\n", scoring.FormatPrice(res.Entry))
		fmt.Printf("  Target ~ $%s (+35%%)\n", scoring.FormatPrice(res.Exit))
		fmt.Printf("  Analyst upside: %s%%\n", res.Potential)
	}
}

func latestQuarter(snap *marketdata.Snapshot) *marketdata.QuarterlyEarning {
	if snap == nil || snap.Earnings == nil || len(snap.Earnings.QuarterlyEarnings) == 0 {
		return nil
	}
	return &snap.Earnings.QuarterlyEarnings[0]
}

func check(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
