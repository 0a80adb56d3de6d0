package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/internal/domain/services"
	"chatguard-lab/pkg/logger"
)

// conversationDump is the offline input format: a chat export with
// messages and optional participant metadata.
type conversationDump struct {
	ChatID       string                      `json:"chat_id,omitempty"`
	Messages     []models.TextSample         `json:"messages"`
	Participants []models.ParticipantProfile `json:"participants,omitempty"`
}

func main() {
	var (
		inputPath  = flag.String("input", "-", "conversation dump JSON file, or - for stdin")
		jsonOutput = flag.Bool("json", false, "emit the full report as JSON instead of formatted text")
		quiet      = flag.Bool("quiet", false, "suppress log output")
	)
	flag.Parse()

	log := logger.NewDevelopment()
	if *quiet {
		log = logger.New(logger.Config{Level: "error", Format: "console"})
	}

	dump, err := readDump(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %v\n", err)
		os.Exit(1)
	}
	if len(dump.Messages) == 0 {
		fmt.Fprintln(os.Stderr, "no messages in input")
		os.Exit(1)
	}

	// Offline runs are deterministic-only: no cache, no AI narrative.
	content := services.NewContentAnalyzer(log)
	synthesizer := services.NewReportSynthesizer(nil, 0, log)
	analyzer := services.NewChatAnalyzer(content, synthesizer, 0, log)

	report := analyzer.AnalyzeChat(context.Background(), dump.ChatID, dump.Messages, dump.Participants)

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode report: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Print(report.FormattedReport)
}

func readDump(path string) (*conversationDump, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var dump conversationDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("invalid conversation dump: %w", err)
	}
	return &dump, nil
}
