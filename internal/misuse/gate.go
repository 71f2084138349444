// Package misuse screens free-text submissions before they reach the
// analysis provider.
package misuse

import (
	"context"
	"strings"

	"github.com/julianstephens/nutrilog/internal/logger"
)

// Verdict is the outcome of screening one submission.
type Verdict int

const (
	// Proceed means the text passed both stages.
	Proceed Verdict = iota
	// Blocked means the text is not legitimate food content.
	Blocked
	// ProceedUncertain means the remote check failed and the gate failed open.
	ProceedUncertain
)

func (v Verdict) String() string {
	switch v {
	case Proceed:
		return "proceed"
	case Blocked:
		return "blocked"
	case ProceedUncertain:
		return "proceed-with-uncertainty"
	default:
		return "unknown"
	}
}

// Reason explains a Blocked verdict.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonDenylisted Reason = "denylisted"
	ReasonNotFood    Reason = "not-food"
)

// DefaultDenylist holds the bilingual terms matched by the local filter.
var DefaultDenylist = []string{
	"password", "login", "credit card", "hacker", "hack", "exploit",
	"porn", "sex", "adult", "контрол", "паролa", "admin", "backdoor",
	"script", "инжекция",
}

// Classifier answers whether a text is about food. Implemented by the analysis providers.
type Classifier interface {
	CheckFoodRelated(ctx context.Context, text string) (bool, error)
}

// Decision is the full result of Evaluate.
type Decision struct {
	Verdict Verdict
	Reason  Reason
	Term    string // matched denylist term, if any
}

// Gate runs the local denylist and then the remote relatedness check.
type Gate struct {
	classifier Classifier
	denylist   []string
}

func NewGate(classifier Classifier, denylist []string) *Gate {
	if denylist == nil {
		denylist = DefaultDenylist
	}
	terms := make([]string, 0, len(denylist))
	for _, term := range denylist {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			terms = append(terms, term)
		}
	}
	return &Gate{classifier: classifier, denylist: terms}
}

// Match returns the first denylist term contained in text, case-insensitively.
func (g *Gate) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range g.denylist {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

// Evaluate screens text. A denylist hit blocks without any remote call.
// A failing remote check fails open.
func (g *Gate) Evaluate(ctx context.Context, text string) Decision {
	if term, hit := g.Match(text); hit {
		logger.Component("misuse").Info("submission blocked by local filter", "term", term)
		return Decision{Verdict: Blocked, Reason: ReasonDenylisted, Term: term}
	}

	if g.classifier == nil {
		return Decision{Verdict: ProceedUncertain}
	}

	related, err := g.classifier.CheckFoodRelated(ctx, text)
	if err != nil {
		logger.Component("misuse").Warn("relatedness check failed, allowing submission", "error", err)
		return Decision{Verdict: ProceedUncertain}
	}
	if !related {
		logger.Component("misuse").Info("submission blocked by relatedness check")
		return Decision{Verdict: Blocked, Reason: ReasonNotFood}
	}
	return Decision{Verdict: Proceed}
}
