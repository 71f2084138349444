package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/nutrilog/internal/models"
)

// number accepts a JSON number or a numeric string.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type rawEstimate struct {
	Name     string  `json:"name"`
	Calories *number `json:"calories"`
	Protein  *number `json:"protein"`
	Carbs    *number `json:"carbs"`
	Fat      *number `json:"fat"`
}

// ParseEstimate reads a model reply as an estimate. The whole reply is tried
// first, then the span between the first '{' and the last '}'.
func ParseEstimate(content string) (models.Estimate, error) {
	content = strings.TrimSpace(content)

	var raw rawEstimate
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		obj, xerr := extractJSON(content)
		if xerr != nil {
			return models.Estimate{}, fmt.Errorf("%w: %v", ErrMalformedResponse, xerr)
		}
		raw = rawEstimate{}
		if err := json.Unmarshal([]byte(obj), &raw); err != nil {
			return models.Estimate{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	est := models.Estimate{Name: strings.TrimSpace(raw.Name)}
	if est.Name == "" {
		return models.Estimate{}, fmt.Errorf("%w: missing name", ErrMalformedResponse)
	}

	fields := []struct {
		name string
		src  *number
		dst  *float64
	}{
		{"calories", raw.Calories, &est.Calories},
		{"protein", raw.Protein, &est.Protein},
		{"carbs", raw.Carbs, &est.Carbs},
		{"fat", raw.Fat, &est.Fat},
	}
	for _, f := range fields {
		if f.src == nil {
			return models.Estimate{}, fmt.Errorf("%w: missing %s", ErrMalformedResponse, f.name)
		}
		if *f.src < 0 {
			return models.Estimate{}, fmt.Errorf("%w: negative %s", ErrMalformedResponse, f.name)
		}
		*f.dst = float64(*f.src)
	}
	return est, nil
}

// ParseRelated reads a relatedness reply. Any reply containing "true" counts as food.
func ParseRelated(content string) bool {
	return strings.Contains(strings.ToLower(content), "true")
}

// extractJSON finds the outermost JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
