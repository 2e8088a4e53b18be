package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/therapymatch-backend/internal/domain"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("gemini returned no content")

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.4)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ExplainMatch asks the model for a one or two sentence explanation of a match.
func (c *GeminiClient) ExplainMatch(ctx context.Context, prefs *domain.SeekerPreferences, helper *domain.Helper, result domain.MatchResult) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(buildExplainPrompt(prefs, helper, result)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func buildExplainPrompt(prefs *domain.SeekerPreferences, helper *domain.Helper, result domain.MatchResult) string {
	return fmt.Sprintf(`
		A person looking for therapy was matched with a therapist.
		Seeker wants:
		  languages: %v
		  therapy types: %v
		  specialties: %v
		  days: %v, times: %v
		Therapist %q (%s) offers:
		  languages: %v
		  therapy types: %v
		  specialties: %v
		  days: %v, times: %v
		Match score: %.1f/100 (languages %.1f/30, therapy types %.1f/25, specialties %.1f/25, availability %.1f/20).

		Task: In 1-2 warm, factual sentences addressed to the seeker, explain why this therapist fits.
		Do not invent facts that are not listed above. Do not give medical advice.
		Output: Just the explanation text.
	`,
		prefs.Languages, prefs.TherapyTypes, prefs.Specialties,
		prefs.Availability.PreferredDays, prefs.Availability.PreferredTimes,
		helper.Name, helper.Profile.Title,
		helper.Profile.Languages, helper.Profile.TherapyTypes, helper.Profile.Specialties,
		helper.Profile.Availability.AvailableDays, helper.Profile.Availability.AvailableTimes,
		result.Score, result.Breakdown.Languages, result.Breakdown.TherapyTypes,
		result.Breakdown.Specialties, result.Breakdown.Availability,
	)
}
