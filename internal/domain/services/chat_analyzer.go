package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chatguard-lab/internal/domain/models"
	"chatguard-lab/pkg/logger"
)

const centralNodeCount = 5

// ChatAnalyzer runs the per-message pipeline across a whole conversation,
// builds the reply graph and folds participant metadata into an aggregate
// conversation-level risk score. Each call is stateless start-to-finish.
type ChatAnalyzer struct {
	content     *ContentAnalyzer
	scorer      *RiskScorer
	synthesizer *ReportSynthesizer
	parallelism int
	logger      *logger.Logger
}

// NewChatAnalyzer creates a chat analyzer
func NewChatAnalyzer(content *ContentAnalyzer, synthesizer *ReportSynthesizer, parallelism int, log *logger.Logger) *ChatAnalyzer {
	if parallelism <= 0 {
		parallelism = 8
	}
	return &ChatAnalyzer{
		content:     content,
		scorer:      content.Scorer(),
		synthesizer: synthesizer,
		parallelism: parallelism,
		logger:      log.WithComponent("chat-analyzer"),
	}
}

// AnalyzeChat analyzes a batch of messages plus optional participant
// metadata and returns the composite threat report. Messages are analyzed
// in parallel; results are recombined by position, not arrival order.
func (ca *ChatAnalyzer) AnalyzeChat(ctx context.Context, chatID string, samples []models.TextSample, participants []models.ParticipantProfile) *models.ThreatReport {
	start := time.Now()

	report := &models.ThreatReport{
		ID:          uuid.New(),
		ChatID:      chatID,
		GeneratedAt: time.Now(),
		Messages:    make([]models.ContentAnalysis, len(samples)),
	}

	// Per-message pipeline, embarrassingly parallel: the detectors are pure
	// functions with no shared mutable state.
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(ca.parallelism)
	for i, sample := range samples {
		i, sample := i, sample
		g.Go(func() error {
			report.Messages[i] = ca.content.Analyze(sample)
			return nil
		})
	}
	g.Wait() // workers never return errors; worst case is an empty finding

	// Score participants on the account-risk dimension
	report.Participants = make([]models.ParticipantProfile, len(participants))
	for i, p := range participants {
		p.RiskScore, p.RiskLevel = ca.scorer.ScoreAccount(p)
		report.Participants[i] = p
	}

	report.Graph = ca.buildGraph(samples, report.Participants)
	report.PatternsFound = ca.groupPatterns(report.Messages)

	// Conversation aggregate: uncapped content sums plus dampened account
	// risk. Dividing by 5 keeps account flags from dominating content signals.
	aggregate := 0
	for _, msg := range report.Messages {
		aggregate += ca.scorer.ContentRawScore(msg.Findings)
	}
	for _, p := range report.Participants {
		aggregate += p.RiskScore / 5
	}
	report.Risk = ca.scorer.ScoreConversation(aggregate)
	report.Recommendations = ca.buildRecommendations(report)

	ca.synthesizer.Synthesize(ctx, report, firstExcerpt(samples))

	ca.logger.Info().
		Str("chat_id", chatID).
		Int("messages", len(samples)).
		Int("score", report.Risk.Score).
		Str("level", string(report.Risk.Level)).
		Dur("duration", time.Since(start)).
		Msg("chat analyzed")

	return report
}

// buildGraph constructs the reply graph for one analysis pass
func (ca *ChatAnalyzer) buildGraph(samples []models.TextSample, participants []models.ParticipantProfile) *models.ConversationGraph {
	messageCounts := make(map[string]int)
	senderByMessage := make(map[string]string)
	usernames := make(map[string]string)

	for _, s := range samples {
		if s.SenderID == "" {
			continue
		}
		messageCounts[s.SenderID]++
		if s.MessageID != "" {
			senderByMessage[s.MessageID] = s.SenderID
		}
	}

	// Nodes: everyone in participant metadata plus every observed sender
	nodeIDs := make(map[string]bool)
	for _, p := range participants {
		nodeIDs[p.UserID] = true
		usernames[p.UserID] = p.Username
	}
	for sender := range messageCounts {
		nodeIDs[sender] = true
	}

	// Edges: directed reply relationships, weight = reply count
	edgeWeights := make(map[[2]string]int)
	for _, s := range samples {
		if s.ReplyToID == "" || s.SenderID == "" {
			continue
		}
		target, ok := senderByMessage[s.ReplyToID]
		if !ok || target == s.SenderID {
			continue
		}
		edgeWeights[[2]string{s.SenderID, target}]++
	}

	connected := make(map[string]bool)
	graph := &models.ConversationGraph{TotalMessages: len(samples)}
	for pair, weight := range edgeWeights {
		graph.Edges = append(graph.Edges, models.ReplyEdge{From: pair[0], To: pair[1], Weight: weight})
		connected[pair[0]] = true
		connected[pair[1]] = true
	}
	sort.Slice(graph.Edges, func(i, j int) bool {
		if graph.Edges[i].From != graph.Edges[j].From {
			return graph.Edges[i].From < graph.Edges[j].From
		}
		return graph.Edges[i].To < graph.Edges[j].To
	})

	for id := range nodeIDs {
		count := messageCounts[id]
		influence := 0.0
		if graph.TotalMessages > 0 {
			influence = float64(count) / float64(graph.TotalMessages) * 100
		}
		graph.Nodes = append(graph.Nodes, models.ParticipantNode{
			UserID:       id,
			Username:     usernames[id],
			MessageCount: count,
			Influence:    influence,
		})
	}
	sort.Slice(graph.Nodes, func(i, j int) bool { return graph.Nodes[i].UserID < graph.Nodes[j].UserID })

	// Central nodes: top-5 by influence
	byInfluence := append([]models.ParticipantNode(nil), graph.Nodes...)
	sort.SliceStable(byInfluence, func(i, j int) bool { return byInfluence[i].Influence > byInfluence[j].Influence })
	for i := 0; i < len(byInfluence) && i < centralNodeCount; i++ {
		if byInfluence[i].MessageCount == 0 {
			break
		}
		graph.CentralNodes = append(graph.CentralNodes, byInfluence[i].UserID)
	}

	// Isolated nodes: present in participant metadata, silent and unconnected
	for _, p := range participants {
		if messageCounts[p.UserID] == 0 && !connected[p.UserID] {
			graph.IsolatedNodes = append(graph.IsolatedNodes, p.UserID)
		}
	}
	sort.Strings(graph.IsolatedNodes)

	return graph
}

// groupPatterns folds per-message matches into category groups with
// bounded sample previews
func (ca *ChatAnalyzer) groupPatterns(messages []models.ContentAnalysis) []models.PatternGroup {
	order := []models.MatchCategory{
		models.CategoryCoordinate, models.CategoryThreat, models.CategoryPhone,
		models.CategoryCrypto, models.CategoryEncoded, models.CategoryURL,
	}

	samples := make(map[models.MatchCategory][]string)
	counts := make(map[models.MatchCategory]int)

	add := func(cat models.MatchCategory, raw string) {
		counts[cat]++
		if len(samples[cat]) < centralNodeCount {
			samples[cat] = append(samples[cat], raw)
		}
	}

	for _, msg := range messages {
		for _, m := range msg.Findings.Coordinates {
			add(models.CategoryCoordinate, m.Raw)
		}
		for _, kw := range msg.Findings.Keywords {
			add(models.CategoryThreat, kw.Keyword)
		}
		for _, m := range msg.Findings.Phones {
			add(models.CategoryPhone, m.Raw)
		}
		for _, m := range msg.Findings.Crypto {
			add(models.CategoryCrypto, m.Raw)
		}
		for _, m := range msg.Findings.Encoded {
			add(models.CategoryEncoded, m.Raw)
		}
		for _, m := range msg.Findings.URLs {
			add(models.CategoryURL, m.Raw)
		}
	}

	var groups []models.PatternGroup
	for _, cat := range order {
		if counts[cat] == 0 {
			continue
		}
		groups = append(groups, models.PatternGroup{
			Category: cat,
			Count:    counts[cat],
			Samples:  samples[cat],
		})
	}
	return groups
}

// buildRecommendations assembles the free-text recommendation list
func (ca *ChatAnalyzer) buildRecommendations(report *models.ThreatReport) []string {
	recs := []string{report.Risk.Recommendation}

	highRiskAccounts := 0
	for _, p := range report.Participants {
		if p.RiskLevel == models.AccountRiskHigh {
			highRiskAccounts++
		}
	}
	if highRiskAccounts > 0 {
		recs = append(recs, "One or more participants carry high account risk; verify their identities through independent channels.")
	}
	if report.Graph != nil && len(report.Graph.IsolatedNodes) > 0 {
		recs = append(recs, "Silent participants are present; they observe without contributing and may warrant separate review.")
	}

	return recs
}

// firstExcerpt returns a bounded excerpt of the first non-empty sample
func firstExcerpt(samples []models.TextSample) string {
	for _, s := range samples {
		if s.Text != "" {
			return truncate(s.Text, 200)
		}
	}
	return ""
}
