package narrator

// Package narrator turns a battle's closing log into a short flavor
// paragraph via an external text-generation endpoint. Everything here is
// best-effort: any failure yields an empty string and the caller serves
// the plain log instead.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/DevelopmentCats/meowventure/internal/constants"
	"github.com/DevelopmentCats/meowventure/internal/logging"
)

// group deduplicates concurrent narration requests keyed by battle id so
// one generation job serves every poller of the same battle.
var group singleflight.Group

// promptTemplate can be set at application startup from the catalog. Use
// the token "{{log}}" where the battle log should be substituted.
var promptTemplate string

// SetPromptTemplate overrides the built-in narration prompt. Call during
// app initialization.
func SetPromptTemplate(t string) {
	promptTemplate = strings.TrimSpace(t)
}

const requestTimeout = 15 * time.Second

// Narrate generates a flavor summary for the battle's log lines. Returns
// an empty string when the narrator is unconfigured or the request fails.
func Narrate(ctx context.Context, battleID string, logLines []string) string {
	apiKey := os.Getenv(constants.EnvNarratorAPIKey)
	url := os.Getenv(constants.EnvNarratorURL)
	if apiKey == "" || url == "" || len(logLines) == 0 {
		return ""
	}

	v, err, _ := group.Do(battleID, func() (interface{}, error) {
		return generate(ctx, apiKey, url, logLines)
	})
	if err != nil {
		logging.Warn("narration failed", err, logging.Fields{
			constants.LogFieldBattleID: battleID,
		})
		return ""
	}
	return v.(string)
}

func generate(ctx context.Context, apiKey, url string, logLines []string) (string, error) {
	prompt := promptTemplate
	if prompt == "" {
		prompt = "Retell this cat battle in two dramatic sentences: {{log}}"
	}
	prompt = strings.ReplaceAll(prompt, "{{log}}", strings.Join(logLines, ". "))

	payload := map[string]interface{}{
		"model":      constants.NarratorModelDefault,
		"prompt":     prompt,
		"max_length": constants.NarratorMaxLengthDefault,
	}
	b, _ := json.Marshal(payload)

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "POST", url, strings.NewReader(string(b)))
	if err != nil {
		return "", err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+apiKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("narrator endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode narrator response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}
