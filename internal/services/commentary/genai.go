package commentary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"FinCycle/internal/domain/models"
	domsvc "FinCycle/internal/domain/service"
	"FinCycle/pkg/config"
	"FinCycle/pkg/util"

	"google.golang.org/genai"
)

const systemInstruction = `You are a macroeconomic analyst. You receive business-cycle indicators with their
year-over-year change, sequential change, acceleration of the YoY change, and a cycle phase:
Phase1 accelerating expansion, Phase2 decelerating expansion, Phase3 accelerating contraction,
Phase4 decelerating contraction or early recovery. Write a short markdown note: one headline,
a paragraph on where the cycle stands, and a bullet per indicator that disagrees with the rest.
Do not invent numbers that are not in the input.`

// generateFunc sends one prompt and returns the model text.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// GenAICommentator summarizes a board with a Gemini model.
type GenAICommentator struct {
	generate generateFunc
	timeout  time.Duration
}

var _ domsvc.Commentator = (*GenAICommentator)(nil)

// NewGenAICommentator returns a commentator. Without an API key it is disabled and
// Summarize returns ErrCommentaryDisabled.
func NewGenAICommentator(ctx context.Context, cfg config.Commentary) (*GenAICommentator, error) {
	c := &GenAICommentator{timeout: cfg.Timeout}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := cfg.Model
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}
	c.generate = func(ctx context.Context, prompt string) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), genCfg)
		if err != nil {
			return "", err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", fmt.Errorf("empty response from model %s", model)
		}
		var sb strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		return sb.String(), nil
	}
	return c, nil
}

func (c *GenAICommentator) Enabled() bool { return c.generate != nil }

// Summarize asks the model for a markdown commentary on views.
func (c *GenAICommentator) Summarize(ctx context.Context, views []models.IndicatorView) (string, error) {
	if !c.Enabled() {
		return "", models.ErrCommentaryDisabled
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := c.generate(ctx, Prompt(views))
	if err != nil {
		return "", fmt.Errorf("generate commentary: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("generate commentary: empty text")
	}
	return text, nil
}

// Prompt renders views as the model input, one line per indicator.
func Prompt(views []models.IndicatorView) string {
	var sb strings.Builder
	sb.WriteString("Indicators (latest observation, YoY %, sequential %, YoY acceleration pp, phase):\n")
	for _, v := range views {
		p := v.Processed
		fmt.Fprintf(&sb, "- %s (%s, %s, %s): latest %s on %s; yoy %s; seq %s; accel %s; %s",
			p.Name, p.ID, p.Kind, p.Frequency,
			util.FormatDecimal(p.LatestValue, 2), p.LatestDate,
			util.FormatDecimal(p.YearOverYearChange, 2),
			util.FormatDecimal(p.SequentialChange, 2),
			util.FormatDecimal(p.YoYAcceleration, 2),
			p.Phase,
		)
		if p.Error != "" {
			fmt.Fprintf(&sb, " (%s)", p.Error)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
