package misuse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeClassifier struct {
	related bool
	err     error
	calls   int
}

func (f *fakeClassifier) CheckFoodRelated(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.related, f.err
}

func TestLocalFilterBlocksWithoutRemoteCall(t *testing.T) {
	tests := []struct {
		text string
		term string
	}{
		{text: "what is the admin password", term: "password"},
		{text: "How to HACK a bank", term: "hack"},
		{text: "my Credit Card number", term: "credit card"},
		{text: "<script>alert(1)</script> with rice", term: "script"},
		{text: "SQL инжекция в салата", term: "инжекция"},
		{text: "КОНТРОЛ на системата", term: "контрол"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			classifier := &fakeClassifier{related: true}
			gate := NewGate(classifier, nil)

			d := gate.Evaluate(context.Background(), tt.text)

			assert.Equal(t, Blocked, d.Verdict)
			assert.Equal(t, ReasonDenylisted, d.Reason)
			assert.Equal(t, tt.term, d.Term)
			assert.Zero(t, classifier.calls, "remote check must not run on a local hit")
		})
	}
}

func TestRemoteStage(t *testing.T) {
	tests := []struct {
		name       string
		classifier *fakeClassifier
		verdict    Verdict
		reason     Reason
	}{
		{
			name:       "food related proceeds",
			classifier: &fakeClassifier{related: true},
			verdict:    Proceed,
		},
		{
			name:       "not food is blocked",
			classifier: &fakeClassifier{related: false},
			verdict:    Blocked,
			reason:     ReasonNotFood,
		},
		{
			name:       "remote failure fails open",
			classifier: &fakeClassifier{err: errors.New("timeout")},
			verdict:    ProceedUncertain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(tt.classifier, nil)

			d := gate.Evaluate(context.Background(), "200g grilled chicken breast")

			assert.Equal(t, tt.verdict, d.Verdict)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, 1, tt.classifier.calls)
		})
	}
}

func TestCustomDenylistNormalized(t *testing.T) {
	gate := NewGate(&fakeClassifier{related: true}, []string{"  Crypto ", ""})

	_, hit := gate.Match("buy crypto now")
	assert.True(t, hit)
	_, hit = gate.Match("a bowl of porridge")
	assert.False(t, hit)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "proceed", Proceed.String())
	assert.Equal(t, "blocked", Blocked.String())
	assert.Equal(t, "proceed-with-uncertainty", ProceedUncertain.String())
}
