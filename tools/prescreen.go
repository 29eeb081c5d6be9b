package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

/************************************************
/**** MARK: PRESCREEN VERDICTS ****/
/************************************************/
const PRESCREEN_VERDICT_APPROVED = "approved"
const PRESCREEN_VERDICT_REJECTED = "rejected"
const PRESCREEN_VERDICT_PENDING = "pending"

// PrescreenResponse pede ao OpenAI uma pré-triagem da resposta do produtor:
// approved / rejected / pending. "pending" significa "deixa pro revisor humano".
func PrescreenResponse(ctx context.Context, itemLabel, answer string) (string, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}
	model := getenvDefault("OPENAI_MODEL", "gpt-4.1-mini")

	systemPrompt := getenvDefault(
		"OPENAI_PRESCREEN_PROMPT",
		"Você é um auditor de conformidade agro. Dado um item de checklist e a "+
			"resposta do produtor, responda com uma única palavra: approved se a "+
			"resposta claramente atende ao item, rejected se claramente não atende, "+
			"pending se precisar de revisão humana.",
	)

	input := fmt.Sprintf("Item: %s\nResposta do produtor: %s", itemLabel, answer)

	reqBody := map[string]any{
		"model":        model,
		"instructions": systemPrompt,
		"input":        input,
	}

	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		"https://api.openai.com/v1/responses",
		bytes.NewReader(b),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai error %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Output []struct {
			Type    string `json:"type"`
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, item := range parsed.Output {
		if item.Type == "message" && item.Role == "assistant" {
			for _, c := range item.Content {
				if c.Type == "output_text" {
					sb.WriteString(c.Text)
				}
			}
		}
	}

	return ParsePrescreenVerdict(sb.String())
}

// ParsePrescreenVerdict tolera texto em volta ("Verdict: APPROVED.") e extrai
// o veredito. Texto irreconhecível vira pending.
func ParsePrescreenVerdict(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("empty model output")
	}
	switch {
	case strings.Contains(s, PRESCREEN_VERDICT_REJECTED):
		return PRESCREEN_VERDICT_REJECTED, nil
	case strings.Contains(s, PRESCREEN_VERDICT_APPROVED):
		return PRESCREEN_VERDICT_APPROVED, nil
	default:
		return PRESCREEN_VERDICT_PENDING, nil
	}
}
