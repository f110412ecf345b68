package oracle

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const classifyPrompt = `You are a food technology expert analyzing a photo of raw meat.

GRADING RULES (level 1-5):
1. Excellent: perfect color, dry surface, firm and elastic.
2. Good: appealing color, fit for cooking.
3. Average: early oxidation, darker color, slightly wet surface.
4. At risk: pale or bruised color, slimy drip, faint off smell likely.
5. Spoiled: rot, green-black patches, slime, dangerous.

Species cues:
- Pork: pale pink fresh vs grey/brown rancid.
- Beef: cherry red fresh vs dark brown oxidized.
- Chicken: pink/ivory fresh vs yellow-slimy/grey spoiled.

Fraud warning: unnaturally red (chemicals) or glossy-watery (water injection) meat is level 4 or 5.

Respond ONLY with a valid JSON object containing exactly these fields:
'meatType' (one of "pork", "beef", "chicken", "unknown"),
'freshnessScore' (integer 0-100, 0=rotten, 100=just slaughtered),
'freshnessLevel' (integer 1-5, 1 best),
'safetyStatus' (one of "safe", "caution", "danger", "unknown"),
'observations' (array of 4 short strings: color, fat, texture, moisture),
'summary' (short actionable advice).
No explanations, no markdown.`

const refinePromptFormat = `You are a food safety expert producing a FINAL verdict.

1. PRIOR IMAGE ANALYSIS:
- Meat type: %s
- Image score: %d
- Image level: %d

2. USER SENSORY READINGS (0-100, higher is worse):
- Odor: %d/100
- Texture degradation: %d/100
- Surface sliminess: %d/100
- Drip loss: %d/100

3. RULES:
- Sensory data (odor and sliminess) OUTRANKS the image.
- If odor > 60 or sliminess > 60 the verdict MUST be level 4 or 5, no matter
  how good the image looked (images can be fooled, fresh spoilage may not have
  discolored yet).
- If sensory readings are good but the image was bad, average them but keep the
  user warned.

Respond with the same JSON object shape as the image analysis
(meatType, freshnessScore, freshnessLevel, safetyStatus, observations, summary)
and update observations to reflect the user's input. No markdown.`

type geminiOracle struct {
	httpClient *http.Client
}

func NewGeminiOracle() VerdictOracle {
	return &geminiOracle{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *geminiOracle) Classify(ctx context.Context, image []byte, mimeType string, pro bool) (domain.Verdict, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	parts := []map[string]interface{}{
		{"text": classifyPrompt},
		{
			"inline_data": map[string]interface{}{
				"mime_type": mimeType,
				"data":      base64.StdEncoding.EncodeToString(image),
			},
		},
	}

	text, err := o.generate(ctx, parts, pro)
	if err != nil {
		return domain.Verdict{}, err
	}

	return parseVerdict(text)
}

func (o *geminiOracle) Refine(ctx context.Context, prior domain.Verdict, reading domain.SensoryReading, pro bool) (domain.Verdict, error) {
	prompt := fmt.Sprintf(refinePromptFormat,
		prior.MeatType,
		prior.FreshnessScore,
		prior.FreshnessLevel,
		reading.Odor,
		reading.Texture,
		reading.Sliminess,
		reading.DripLoss,
	)

	text, err := o.generate(ctx, []map[string]interface{}{{"text": prompt}}, pro)
	if err != nil {
		return domain.Verdict{}, err
	}

	return parseVerdict(text)
}

func (o *geminiOracle) generate(ctx context.Context, parts []map[string]interface{}, pro bool) (string, error) {
	apiKey := utils.GetConfig("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured")
	}

	model := utils.GetConfig("GEMINI_MODEL")
	if pro {
		if proModel := utils.GetConfig("GEMINI_PRO_MODEL"); proModel != "" {
			model = proModel
		}
	}
	if model == "" {
		return "", fmt.Errorf("GEMINI_MODEL not configured")
	}

	temperature := 0.4
	if pro {
		temperature = 0.2
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":        temperature,
			"topP":               0.8,
			"topK":               40,
			"response_mime_type": "application/json",
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	geminiURL := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		model, apiKey,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiURL, bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", domain.ErrMalformedOracleResponse
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

var jsonPattern = regexp.MustCompile(`(?s)\{.*\}`)

// verdictPayload is the raw wire shape. Every field is re-validated before a
// domain.Verdict is built from it; unknown enum values are rejected rather than
// stored.
type verdictPayload struct {
	MeatType       string   `json:"meatType"`
	FreshnessScore int      `json:"freshnessScore"`
	FreshnessLevel int      `json:"freshnessLevel"`
	SafetyStatus   string   `json:"safetyStatus"`
	Observations   []string `json:"observations"`
	Summary        string   `json:"summary"`
}

func parseVerdict(responseText string) (domain.Verdict, error) {
	// Models occasionally wrap the JSON in fences or commentary despite the
	// instructions. Pull out the object before parsing.
	if matches := jsonPattern.FindString(responseText); matches != "" {
		responseText = matches
	}
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var payload verdictPayload
	if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: %v", domain.ErrMalformedOracleResponse, err)
	}

	meatType, err := domain.ParseMeatType(strings.ToLower(payload.MeatType))
	if err != nil {
		return domain.Verdict{}, err
	}
	safety, err := domain.ParseSafetyStatus(strings.ToLower(payload.SafetyStatus))
	if err != nil {
		return domain.Verdict{}, err
	}

	verdict := domain.Verdict{
		MeatType:       meatType,
		FreshnessScore: payload.FreshnessScore,
		FreshnessLevel: payload.FreshnessLevel,
		SafetyStatus:   safety,
		Observations:   payload.Observations,
		Summary:        payload.Summary,
		CreatedAt:      time.Now(),
	}

	if err := verdict.Validate(); err != nil {
		return domain.Verdict{}, err
	}

	return verdict, nil
}
