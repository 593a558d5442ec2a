package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"fittrack/models"

	"github.com/rs/zerolog/log"
)

// ErrGeminiNotConfigured means GEMINI_API_KEY is missing from the environment.
var ErrGeminiNotConfigured = errors.New("gemini api key is not configured")

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiModel is the generation model both plan endpoints use.
const geminiModel = "gemini-2.0-flash"

type GeminiService struct {
	apiKey     string
	baseURL    string
	client     *http.Client
	activities *ActivityService
}

// NewGeminiService initializes the GeminiService with credentials and HTTP client
func NewGeminiService(activities *ActivityService) *GeminiService {
	return &GeminiService{
		apiKey:     os.Getenv("GEMINI_API_KEY"),
		baseURL:    defaultGeminiBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		activities: activities,
	}
}

// WorkoutRequest carries the parameters for a workout plan.
type WorkoutRequest struct {
	Goal         string `json:"goal" binding:"required"`
	Equipment    string `json:"equipment" binding:"required"`
	Duration     string `json:"duration" binding:"required"`
	FitnessLevel string `json:"fitnessLevel"`
}

// RecoveryRequest carries the parameters for a recovery plan.
type RecoveryRequest struct {
	WorkoutType string `json:"workoutType" binding:"required"`
	Intensity   string `json:"intensity" binding:"required"`
	Soreness    string `json:"soreness" binding:"required"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate calls the Gemini generateContent endpoint and returns the joined
// text of the first candidate.
func (s *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", ErrGeminiNotConfigured
	}

	b, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini payload: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, geminiModel, s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("failed to parse gemini JSON: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned an empty plan")
	}
	return text, nil
}

// GenerateWorkout produces a cleaned workout plan and logs it to the feed.
func (s *GeminiService) GenerateWorkout(ctx context.Context, userID uint, req WorkoutRequest) (string, error) {
	level := req.FitnessLevel
	if level == "" {
		level = "intermediate"
	}

	prompt := fmt.Sprintf(`Create a detailed workout plan with the following specifications:
- Fitness Goal: %s
- Available Equipment: %s
- Workout Duration: %s
- Fitness Level: %s

IMPORTANT FORMATTING RULES:
- Use clear line breaks between sections
- Use bullet points (*) for lists
- Use numbered lists for steps
- DO NOT use tables or pipe symbols (|)
- Keep proper spacing between lines

Please provide a structured workout plan with:
1. Warm-up exercises (5-10 minutes)
2. Main workout with specific exercises, sets, reps, and rest periods
3. Cool-down stretches
4. Total estimated time

Format the response with proper line breaks and spacing for easy reading.
Use this format for exercises: "Exercise Name: 3 sets of 8-12 reps, 60 seconds rest"`,
		req.Goal, req.Equipment, req.Duration, level)

	plan, err := s.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	plan = CleanPlanText(plan)

	s.log(ctx, userID, models.CategoryWorkout, "Generated AI workout",
		fmt.Sprintf("Goal: %s, Equipment: %s", req.Goal, req.Equipment))
	return plan, nil
}

// GenerateRecovery produces a recovery plan. When the AI call fails the user
// still gets a canned plan matched to their inputs, flagged via the returned
// fallback bool.
func (s *GeminiService) GenerateRecovery(ctx context.Context, userID uint, req RecoveryRequest) (plan string, fallback bool, err error) {
	if s.apiKey == "" {
		return "", false, ErrGeminiNotConfigured
	}

	prompt := fmt.Sprintf(`Create a detailed, personalized recovery plan for someone who just completed a workout with these specifications:

WORKOUT DETAILS:
- Workout Type: %s
- Intensity Level: %s
- Current Soreness: %s

Please provide a comprehensive recovery plan that includes:

1. IMMEDIATE RECOVERY (0-2 hours post-workout):
   - Specific hydration recommendations (amount, type of fluids)
   - Post-workout nutrition (specific foods, timing, portions)
   - Immediate stretching or mobility exercises

2. SHORT-TERM RECOVERY (2-24 hours):
   - Active recovery activities
   - Sleep optimization tips
   - Nutrition timing and meal suggestions
   - Supplement recommendations if applicable

3. LONG-TERM RECOVERY (24-72 hours):
   - When to train the same muscle group again
   - Progressive recovery activities
   - Signs to watch for (overtraining, injury)

4. SPECIFIC RECOMMENDATIONS:
   - Foam rolling techniques
   - Stretching routines
   - Recovery modalities (ice, heat, compression)
   - Lifestyle factors (stress management, sleep quality)

IMPORTANT FORMATTING:
- Use clear section headers but NO markdown (no #, **, *)
- Use bullet points with • symbols for lists
- Be specific and actionable
- Include timing recommendations
- Keep it practical and evidence-based
- Make it easy to read with proper line breaks

Make the response personalized to the workout type, intensity, and soreness level provided.
Keep the response under 1500 words.`,
		req.WorkoutType, req.Intensity, req.Soreness)

	plan, genErr := s.generate(ctx, prompt)
	if genErr != nil {
		log.Warn().Err(genErr).Msg("recovery generation failed, using fallback plan")
		plan = FallbackRecoveryPlan(req.WorkoutType, req.Intensity, req.Soreness)
		fallback = true
	} else {
		plan = strings.TrimSpace(plan)
	}

	s.log(ctx, userID, models.CategoryRecovery, "Generated AI recovery plan",
		fmt.Sprintf("Workout: %s, Intensity: %s, Soreness: %s", req.WorkoutType, req.Intensity, req.Soreness))
	return plan, fallback, nil
}

func (s *GeminiService) log(ctx context.Context, userID uint, category models.ActivityCategory, action, details string) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Record(ctx, userID, category, action, details); err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("plan ledger append failed")
	}
}

var (
	pipeRe     = regexp.MustCompile(`\|`)
	ruleRe     = regexp.MustCompile(`-{3,}`)
	boldRe     = regexp.MustCompile(`\*\*`)
	blankRunRe = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// CleanPlanText strips table pipes, horizontal rules, and bold markers from a
// generated plan and collapses runs of blank lines.
func CleanPlanText(text string) string {
	text = pipeRe.ReplaceAllString(text, "")
	text = ruleRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// FallbackRecoveryPlan returns a canned plan keyed on workoutType, intensity,
// and soreness, with a generic plan when no key matches.
func FallbackRecoveryPlan(workoutType, intensity, soreness string) string {
	plans := map[string]string{
		"push_light_mild": `RECOVERY PLAN: Post-Light Push Workout (Mild Soreness)

IMMEDIATE RECOVERY (0-2 hours):
• Hydrate with 500ml water + electrolytes
• Consume 20g protein + 40g carbs within 30 minutes
• Light chest and shoulder stretches

SHORT-TERM RECOVERY (2-24 hours):
• Light walking or cycling
• 7-9 hours quality sleep
• Balanced meals with lean protein

LONG-TERM RECOVERY (24-72 hours):
• Train same muscles in 48 hours
• Monitor soreness levels
• Continue light mobility work`,

		"push_medium_moderate": `RECOVERY PLAN: Post-Medium Push Workout (Moderate Soreness)

IMMEDIATE RECOVERY (0-2 hours):
• Hydrate with 750ml water + electrolytes
• Consume 30g protein + 60g carbs within 30 minutes
• Foam roll chest and shoulders

SHORT-TERM RECOVERY (2-24 hours):
• Active recovery: light swimming or yoga
• Focus on sleep quality
• Anti-inflammatory foods

LONG-TERM RECOVERY (24-72 hours):
• Train same muscles in 48-72 hours
• Use compression if needed
• Listen to body signals`,

		"pull_light_mild": `RECOVERY PLAN: Post-Light Pull Workout (Mild Soreness)

IMMEDIATE RECOVERY (0-2 hours):
• Hydrate with 500ml water
• 20g protein + complex carbs
• Back and bicep stretches

SHORT-TERM RECOVERY (2-24 hours):
• Light rowing machine
• Proper sleep positioning
• Hydration focus

Ready for next pull session in 48 hours.`,

		"pull_medium_moderate": `RECOVERY PLAN: Post-Medium Pull Workout (Moderate Soreness)

IMMEDIATE RECOVERY (0-2 hours):
• Hydrate with 750ml electrolyte drink
• 30g protein + 50g carbs
• Foam roll upper back

SHORT-TERM RECOVERY (2-24 hours):
• Light mobility work
• Sleep 8+ hours
• Balanced nutrition

Wait 48-72 hours before next pull session.`,

		"legs_light_mild": `RECOVERY PLAN: Post-Light Legs Workout (Mild Soreness)

IMMEDIATE RECOVERY (0-2 hours):
• Hydrate well
• Protein + carbs meal
• Leg stretches

SHORT-TERM RECOVERY (2-24 hours):
• Light walking
• Elevate legs if needed
• Proper nutrition

Ready for legs in 48 hours.`,

		"legs_medium_moderate": `RECOVERY PLAN: Post-Medium Legs Workout (Moderate Soreness)

IMMEDIATE RECOVERY (0-2 hours):
• Hydrate with electrolytes
• 30g protein + 70g carbs
• Foam roll legs

SHORT-TERM RECOVERY (2-24 hours):
• Light cycling
• Compression garments
• Quality sleep

Wait 72 hours before next legs session.`,
	}

	key := fmt.Sprintf("%s_%s_%s", workoutType, intensity, soreness)
	if plan, ok := plans[key]; ok {
		return plan
	}

	return fmt.Sprintf(`BASIC RECOVERY PLAN

Workout: %s
Intensity: %s
Soreness: %s

GENERAL RECOVERY ADVICE:
• Hydrate well throughout the day
• Consume protein-rich meals
• Get 7-9 hours of sleep
• Light active recovery activities
• Listen to your body's signals
• Consider foam rolling and stretching

Wait 48-72 hours before training the same muscle group intensely again.`,
		workoutType, intensity, soreness)
}
