package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/transitoria/internal/classify"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/model"
)

type wireSuggestion struct {
	ID       json.RawMessage `json:"id"`
	Analysis string          `json:"analysis"`
	Risk     string          `json:"risk"`
	Period   string          `json:"period"`
	Category string          `json:"category"`
}

type wireResponse struct {
	Transactions []wireSuggestion          `json:"transactions"`
	Completeness []model.CompletenessIssue `json:"completeness"`
}

// ParseResponse decodes a model answer. A response that is not a JSON object
// of the expected shape is reported as common.ErrClassificationUnavailable;
// individual field values are validated later when merging.
func ParseResponse(raw string) (classify.Result, error) {
	clean := cleanJSON(raw)
	if clean == "" {
		return classify.Result{}, fmt.Errorf("%w: empty response", common.ErrClassificationUnavailable)
	}

	var resp wireResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return classify.Result{}, fmt.Errorf("%w: malformed response: %w", common.ErrClassificationUnavailable, err)
	}

	result := classify.Result{
		Suggestions:  make([]classify.Suggestion, 0, len(resp.Transactions)),
		Completeness: resp.Completeness,
	}
	for _, s := range resp.Transactions {
		id := rawID(s.ID)
		if id == "" {
			continue
		}
		result.Suggestions = append(result.Suggestions, classify.Suggestion{
			ID:       id,
			Analysis: s.Analysis,
			Risk:     s.Risk,
			Period:   s.Period,
			Category: s.Category,
		})
	}
	return result, nil
}

// rawID accepts ids sent as strings or as bare numbers.
func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(raw))
}

// cleanJSON strips markdown fences and any text around the outermost object.
func cleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}
	return s
}
