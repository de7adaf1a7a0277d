package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_QueryTypes(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"What is the registered office?", "what"},
		{"Who signed the charter?", "who"},
		{"Where is the head office", "where"},
		{"When was the bank founded", "when"},
		{"How to open an account", "how"},
		{"Why was it rejected", "why"},
		{"List the directors", "list"},
		{"Compare the two policies", "compare"},
		{"Give me a summary", "summarize"},
		{"dividend policy", TypeGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Plan(tt.query, "qa").QueryType)
		})
	}
}

func TestPlan_Complexity(t *testing.T) {
	assert.Equal(t, ComplexityHigh, Plan("Explain the capital structure", "qa").Complexity)
	assert.Equal(t, ComplexityMedium, Plan("Describe the board", "qa").Complexity)
	assert.Equal(t, ComplexityLow, Plan("What is the bank name", "qa").Complexity)
	assert.Equal(t, ComplexityMedium, Plan("dividend policy", "qa").Complexity)
	assert.Equal(t, ComplexityHigh,
		Plan("please give details on dividend policy capital reserves and share issue rules today", "qa").Complexity)
}

func TestPlan_MaxChunks(t *testing.T) {
	p := Plan("What is the bank name", "qa")
	assert.Equal(t, 3, p.MaxChunks)
	assert.False(t, p.RequiresSynthesis)

	p = Plan("Compare the dividend policies", "compare")
	assert.Equal(t, ComplexityHigh, p.Complexity)
	assert.Equal(t, 10, p.MaxChunks)
	assert.True(t, p.RequiresSynthesis)
	assert.True(t, p.RequiresMultiDoc)
	assert.Equal(t, "compare", p.Mode)

	p = Plan("List the directors", "qa")
	assert.Equal(t, 7, p.MaxChunks)
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"registered", "office", "example", "bank"},
		Keywords("What is the registered office of Example Bank?"))
	assert.Empty(t, Keywords("tell me about it"))

	long := Keywords("one1 two2 three four five six seven eight nine ten eleven twelve")
	assert.Len(t, long, 10)
	assert.Equal(t, "one1", long[0])
}

func TestPlan_MultiDoc(t *testing.T) {
	assert.True(t, Plan("how does it differ across documents", "qa").RequiresMultiDoc)
	assert.False(t, Plan("what is the bank name", "qa").RequiresMultiDoc)
}
