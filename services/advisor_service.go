package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ecoSparkAPI/internal/types/advisor"
	"ecoSparkAPI/utils"
)

const geminiURLFormat = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// fallbackExplanation is served when no Gemini key is configured, so the
// education pages still show something sensible in demos.
const fallbackExplanation = "AI key not configured. For demo: Many e-waste components can leach toxic substances like lead, " +
	"mercury, and brominated flame retardants. These can contaminate soil and water, harm the nervous " +
	"and endocrine systems, and persist in the environment. Always dispose of devices at certified " +
	"recycling centers to reduce exposure and enable safe material recovery."

type AdvisorService struct {
	client *http.Client
}

func NewAdvisorService() *AdvisorService {
	return &AdvisorService{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// generate sends a prompt to Gemini and returns the response text, or the
// static fallback when the key is missing or the call fails.
func (s *AdvisorService) generate(ctx context.Context, prompt string) string {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if apiKey == "" {
		return fallbackExplanation
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": prompt}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("AdvisorService: failed to encode prompt: %v", err)
		return fallbackExplanation
	}

	url := fmt.Sprintf(geminiURLFormat, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("AdvisorService: failed to build request: %v", err)
		return fallbackExplanation
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("AdvisorService: gemini request failed: %v", err)
		return fallbackExplanation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("AdvisorService: gemini returned status %d", resp.StatusCode)
		return fallbackExplanation
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("AdvisorService: failed to decode gemini response: %v", err)
		return fallbackExplanation
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return fallbackExplanation
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return fallbackExplanation
	}
	return text
}

// ExplainTopic explains why an e-waste component is harmful.
func (s *AdvisorService) ExplainTopic(ctx context.Context, topic string) string {
	prompt := fmt.Sprintf(
		"Explain why '%s' in electronic waste (e-waste) is harmful to human health and the environment. "+
			"Focus specifically on '%s' as an e-waste component. If '%s' is not typically found in e-waste, "+
			"clarify that and suggest relevant e-waste components instead. Keep the explanation to 3-4 clear sentences.",
		topic, topic, topic,
	)
	return s.generate(ctx, prompt)
}

// ExplainHazard explains the environmental and health hazards of a
// component when improperly disposed.
func (s *AdvisorService) ExplainHazard(ctx context.Context, component string) string {
	prompt := fmt.Sprintf(
		"Explain how '%s' as an ELECTRONIC WASTE COMPONENT (from discarded electronics like phones, laptops, TVs) "+
			"can harm the environment and human health when improperly disposed. "+
			"If '%s' is NOT typically found in e-waste (like paper, plastic bags, etc.), "+
			"clarify that it's not an e-waste component and suggest relevant e-waste components instead. "+
			"Keep response to 3-4 sentences, focusing on soil contamination, water pollution, and health risks in Indian context.",
		component, component,
	)
	return s.generate(ctx, prompt)
}

// DailyTip returns one practical eco tip. The date salts the prompt so
// the tip varies day to day.
func (s *AdvisorService) DailyTip(ctx context.Context) (string, string) {
	today := time.Now().Format("2006-01-02")
	tip := s.generate(ctx, fmt.Sprintf(
		"Provide one practical eco-friendly tip for daily life, related to e-waste, energy saving, or recycling. "+
			"Keep it to 1-2 sentences, friendly in tone. Date context: %s.", today,
	))
	return tip, today
}

// DirectoryInsight is the one-liner shown on top of the collectors page.
func (s *AdvisorService) DirectoryInsight(ctx context.Context) string {
	return s.generate(ctx,
		"Generate one short sentence (factual) about how most of India's e-waste is handled informally and why connecting with verified collectors matters.")
}

var quizQuestionStart = regexp.MustCompile(`^(?:[1-5]\.|Q[1-5])`)

// GenerateQuiz builds a 5-question multiple-choice quiz from an AI
// response, padding with canned questions when parsing comes up short.
func (s *AdvisorService) GenerateQuiz(ctx context.Context) []advisor.QuizQuestion {
	raw := s.generate(ctx,
		"Create 5 multiple-choice questions about e-waste, sustainability, or recycling. "+
			"For each question, include exactly 4 options labeled A, B, C, D and provide the correct answer letter. "+
			"Return clearly; keep questions concise.")

	questions := parseQuiz(raw)

	for len(questions) < 5 {
		idx := len(questions) + 1
		questions = append(questions, advisor.QuizQuestion{
			Question: fmt.Sprintf("Which is best for e-waste? (Q%d)", idx),
			Options: []advisor.QuizOption{
				{Label: "A", Text: "Throw in regular trash"},
				{Label: "B", Text: "Burn to reduce volume"},
				{Label: "C", Text: "Recycle at certified center"},
				{Label: "D", Text: "Dump in river"},
			},
			Answer: "C",
		})
	}

	return questions[:5]
}

func parseQuiz(raw string) []advisor.QuizQuestion {
	var questions []advisor.QuizQuestion
	current := advisor.QuizQuestion{}

	flush := func() {
		if current.Question != "" && len(current.Options) == 4 && strings.ContainsAny(current.Answer, "ABCD") {
			questions = append(questions, current)
		}
		current = advisor.QuizQuestion{}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(questions) >= 5 {
			continue
		}
		upper := strings.ToUpper(line)

		switch {
		case quizQuestionStart.MatchString(upper):
			flush()
			if i := strings.Index(line, "."); i >= 0 && i < len(line)-1 {
				current.Question = strings.TrimSpace(line[i+1:])
			}
			if current.Question == "" {
				current.Question = line
			}
		case len(upper) > 2 && strings.ContainsAny(upper[:1], "ABCD") && (upper[1] == ':' || upper[1] == ')'):
			current.Options = append(current.Options, advisor.QuizOption{
				Label: upper[:1],
				Text:  strings.TrimSpace(line[2:]),
			})
		case strings.HasPrefix(upper, "ANSWER:") || strings.HasPrefix(upper, "CORRECT:") || strings.HasPrefix(upper, "ANS:"):
			tail := upper[strings.Index(upper, ":")+1:]
			for _, ch := range []string{"A", "B", "C", "D"} {
				if strings.Contains(tail, ch) {
					current.Answer = ch
					break
				}
			}
		}
	}
	flush()

	return questions
}

// ScoreQuiz grades submitted answers against the quiz's answer key.
func ScoreQuiz(req *advisor.QuizScoreRequest) *advisor.QuizScoreResponse {
	score := 0
	for i, q := range req.Questions {
		if req.Answers[strconv.Itoa(i)] == q.Answer {
			score++
		}
	}
	return &advisor.QuizScoreResponse{Score: score, Total: len(req.Questions)}
}

// Decide returns a recycle-or-reuse verdict for an item.
func (s *AdvisorService) Decide(ctx context.Context, item string) *advisor.DecisionResult {
	prompt := fmt.Sprintf(
		"Analyze the item '%s' and determine if it should be RECYCLED or REUSED. "+
			"Consider: Can it be repaired and used again? Is it too old or broken? "+
			"Respond in this exact format: First line: 'RECOMMENDATION: [Recycle OR Reuse]' "+
			"Second line: A brief 2-3 sentence explanation of why this is the best option, "+
			"focusing specifically on '%s' and its condition/age.",
		item, item,
	)
	text := s.generate(ctx, prompt)

	decision := "Recycle"
	reason := text

	if rec, reasoning, ok := splitRecommendation(text); ok {
		if strings.Contains(strings.ToLower(rec), "reuse") {
			decision = "Reuse"
		}
		reason = reasoning
	} else if lower := strings.ToLower(text); strings.HasPrefix(lower, "reuse") || strings.Contains(firstN(lower, 50), " reuse ") {
		decision = "Reuse"
	}

	return &advisor.DecisionResult{Decision: decision, Reason: reason}
}

// splitRecommendation extracts the "RECOMMENDATION: X" line and the text
// that follows it.
func splitRecommendation(text string) (string, string, bool) {
	upper := strings.ToUpper(text)
	i := strings.Index(upper, "RECOMMENDATION:")
	if i < 0 {
		return "", "", false
	}
	rest := strings.TrimSpace(text[i+len("RECOMMENDATION:"):])
	line := rest
	if j := strings.Index(rest, "\n"); j >= 0 {
		line = strings.TrimSpace(rest[:j])
	}
	return line, rest, true
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// ReuseAdvice recommends sell/donate/repair/recycle for a device and,
// when the verdict calls for a shop visit and the caller shared their
// location, attaches nearby repair shops.
func (s *AdvisorService) ReuseAdvice(ctx context.Context, req *advisor.ReuseRequest) *advisor.ReuseResult {
	model := req.Model
	if model == "" {
		model = "electronic device"
	}
	age := req.Age
	if age == "" {
		age = "unknown"
	}
	condition := strings.ToLower(req.Condition)
	if condition == "" {
		condition = "unspecified"
	}

	prompt := fmt.Sprintf(
		"For a %s that is %s years old with condition: %s, "+
			"recommend the best action: SELL, DONATE, REPAIR, or RECYCLE. "+
			"Format your response as: 'RECOMMENDATION: [Action]' on first line, "+
			"then 2-3 sentences explaining why this is best, considering age, condition, and environmental impact.",
		model, age, condition,
	)
	text := s.generate(ctx, prompt)

	result := &advisor.ReuseResult{Reasoning: text}
	if rec, reasoning, ok := splitRecommendation(text); ok {
		result.Recommendation = rec
		result.Reasoning = reasoning
	} else {
		head := strings.ToLower(firstN(text, 100))
		switch {
		case strings.Contains(head, "sell"):
			result.Recommendation = "Sell"
		case strings.Contains(head, "donate"):
			result.Recommendation = "Donate"
		case strings.Contains(head, "repair"):
			result.Recommendation = "Repair"
		default:
			result.Recommendation = "Recycle"
		}
	}

	lowerRec := strings.ToLower(result.Recommendation)
	if strings.Contains(lowerRec, "repair") || strings.Contains(lowerRec, "reuse") || strings.Contains(lowerRec, "donate") {
		result.NeedsLocation = true
		if req.Lat != nil && req.Lng != nil {
			result.Shops = s.findRepairShops(ctx, req.Model, *req.Lat, *req.Lng)
		}
	}

	return result
}

var mockRepairShops = []advisor.RepairShop{
	{Name: "QuickFix Mobiles", Address: "Near your location", Phone: "+91 90000 11111", Rating: "4.2"},
	{Name: "City Laptop Care", Address: "Electronics repair", Phone: "+91 98888 22222", Rating: "4.5"},
	{Name: "Green Repair Hub", Address: "Device servicing", Phone: "+91 97777 33333", Rating: "4.0"},
}

func repairSearchQuery(model string) string {
	lower := strings.ToLower(model)
	for _, term := range []string{"phone", "iphone", "samsung", "mobile", "smartphone", "android"} {
		if strings.Contains(lower, term) {
			return "mobile phone repair shop"
		}
	}
	for _, term := range []string{"laptop", "notebook", "macbook", "dell", "hp", "lenovo", "asus"} {
		if strings.Contains(lower, term) {
			return "laptop computer repair shop"
		}
	}
	for _, term := range []string{"tv", "television", "monitor", "display"} {
		if strings.Contains(lower, term) {
			return "TV electronics repair shop"
		}
	}
	return "electronics repair shop"
}

func (s *AdvisorService) findRepairShops(ctx context.Context, model string, lat, lng float64) []advisor.RepairShop {
	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return mockRepairShops
	}

	payload := map[string]any{
		"textQuery":      fmt.Sprintf("%s near %f,%f", repairSearchQuery(model), lat, lng),
		"maxResultCount": 5,
		"locationBias":   circlePayload(lat, lng, 10000),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return mockRepairShops
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, placesTextURL, bytes.NewReader(body))
	if err != nil {
		return mockRepairShops
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", apiKey)
	req.Header.Set("X-Goog-FieldMask", "places.displayName,places.formattedAddress,places.nationalPhoneNumber,places.rating,places.types")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("AdvisorService: repair shop search failed: %v", err)
		return mockRepairShops
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mockRepairShops
	}

	var data struct {
		Places []struct {
			DisplayName struct {
				Text string `json:"text"`
			} `json:"displayName"`
			FormattedAddress    string   `json:"formattedAddress"`
			NationalPhoneNumber string   `json:"nationalPhoneNumber"`
			Rating              float64  `json:"rating"`
			Types               []string `json:"types"`
		} `json:"places"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return mockRepairShops
	}

	var shops []advisor.RepairShop
	for _, p := range data.Places {
		name := strings.ToLower(p.DisplayName.Text)
		relevant := false
		for _, kw := range []string{"repair", "service", "fix", "mobile", "phone", "laptop", "computer", "electronics"} {
			if strings.Contains(name, kw) {
				relevant = true
				break
			}
		}
		for _, t := range p.Types {
			if t == "electronics_store" || t == "store" {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		shop := advisor.RepairShop{
			Name:    p.DisplayName.Text,
			Address: p.FormattedAddress,
			Phone:   p.NationalPhoneNumber,
			Rating:  "N/A",
		}
		if shop.Name == "" {
			shop.Name = "Unknown"
		}
		if shop.Address == "" {
			shop.Address = "Address not available"
		}
		if shop.Phone == "" {
			shop.Phone = "Phone not available"
		}
		if p.Rating > 0 {
			shop.Rating = strconv.FormatFloat(p.Rating, 'f', 1, 64)
		}
		shops = append(shops, shop)
		if len(shops) >= 5 {
			break
		}
	}

	if len(shops) == 0 {
		return mockRepairShops
	}
	return shops
}

var (
	goldGramsRe   = regexp.MustCompile(`(?i)Gold[:\s]+([\d.]+)\s*g`)
	copperGramsRe = regexp.MustCompile(`(?i)Copper[:\s]+([\d.]+)\s*g`)
	silverGramsRe = regexp.MustCompile(`(?i)Silver[:\s]+([\d.]+)\s*g`)
	goldPriceRe   = regexp.MustCompile(`(?i)Gold\s*₹\s*([\d,]+)`)
	copperPriceRe = regexp.MustCompile(`(?i)Copper\s*₹\s*([\d.]+)`)
	silverPriceRe = regexp.MustCompile(`(?i)Silver\s*₹\s*([\d,.]+)`)
)

// EstimateValue asks the AI for recoverable metal content and prices,
// then computes an age-depreciated payout. Prices fall back to rough
// market defaults when the response does not parse.
func (s *AdvisorService) EstimateValue(ctx context.Context, model string, ageYears float64) *advisor.ValueEstimate {
	prompt := fmt.Sprintf(
		"For the electronic device '%s' that is %g years old, "+
			"provide the approximate recoverable precious metals in GRAMS: "+
			"gold, copper, and silver. Also provide current market prices in INR per gram. "+
			"Format your response as: 'Gold: X.XX g, Copper: YY.Y g, Silver: Z.ZZ g. "+
			"Prices: Gold ₹AAAA per g, Copper ₹BB per g, Silver ₹CCC per g.' "+
			"Be specific and accurate for '%s'.",
		model, ageYears, model,
	)
	text := s.generate(ctx, prompt)

	metals := map[string]float64{"gold_g": 0, "copper_g": 0, "silver_g": 0}
	prices := map[string]float64{"gold_g": 7000, "copper_g": 0.9, "silver_g": 90}

	parseGrams := func(re *regexp.Regexp, key string) {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				metals[key] = v
			}
		}
	}
	parseGrams(goldGramsRe, "gold_g")
	parseGrams(copperGramsRe, "copper_g")
	parseGrams(silverGramsRe, "silver_g")

	parsePrice := func(re *regexp.Regexp, key string) {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
				prices[key] = v
			}
		}
	}
	parsePrice(goldPriceRe, "gold_g")
	parsePrice(copperPriceRe, "copper_g")
	parsePrice(silverPriceRe, "silver_g")

	baseValue := 0.0
	for k, grams := range metals {
		baseValue += grams * prices[k]
	}
	payout := baseValue * utils.DepreciationFactor(ageYears)

	round2 := func(v float64) float64 { return math.Round(v*100) / 100 }

	return &advisor.ValueEstimate{
		Model:           model,
		AgeYears:        ageYears,
		Metals:          metals,
		Prices:          prices,
		BaseValue:       round2(baseValue),
		EstimatedPayout: round2(payout),
	}
}
