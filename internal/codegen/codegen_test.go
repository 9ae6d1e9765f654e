// SPDX-License-Identifier: AGPL-3.0-or-later

package codegen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	"github.com/bartekus/specgen/internal/config"
	"github.com/bartekus/specgen/pkg/spec"
)

var premium = spec.Record{
	Name:       "calculatepremium",
	Purpose:    "computes premium",
	Inputs:     []string{"age", "sum assured"},
	Output:     "premium amount",
	Logic:      []string{"look up rate table", "multiply by sum assured"},
	Validation: "age must be positive",
}

func TestBuildPrompt(t *testing.T) {
	want := `Write a Python function based on the following specification:

Function Name: calculatepremium
Purpose: computes premium
Inputs:
age
sum assured
Output: premium amount
Logic:
look up rate table
multiply by sum assured
Validation: age must be positive

Return only the Python code (with function definition and docstring).
`
	assert.Equal(t, want, BuildPrompt(premium, "python"))
}

func TestBuildPrompt_EmptyFields(t *testing.T) {
	got := BuildPrompt(spec.NewRecord("noop"), "cobol")
	assert.Contains(t, got, "Write a cobol function")
	assert.Contains(t, got, "Inputs:\nOutput: \nLogic:\nValidation: \n")
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", "def f():\n    pass", "def f():\n    pass"},
		{"language fence", "```python\ndef f():\n    pass\n```", "def f():\n    pass"},
		{"bare fence", "```\nx = 1\n```\n", "x = 1"},
		{"single line", "```x = 1```", "x = 1"},
		{"surrounding space", "\n\n```go\nfunc f() {}\n```  \n", "func f() {}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestTemplateGenerator_Python(t *testing.T) {
	gen, err := NewTemplateGenerator("python")
	require.NoError(t, err)
	assert.Equal(t, "template:python", gen.Name())

	code, err := gen.Generate(context.Background(), premium)
	require.NoError(t, err)

	want := `def calculatepremium(age, sum_assured):
    """computes premium

    Args:
        age: age
        sum_assured: sum assured

    Returns:
        premium amount
    """
    # 1. look up rate table
    # 2. multiply by sum assured
    # Validation: age must be positive
    raise NotImplementedError
`
	assert.Equal(t, want, code)
}

func TestTemplateGenerator_Go(t *testing.T) {
	gen, err := NewTemplateGenerator("golang")
	require.NoError(t, err)
	assert.Equal(t, "template:go", gen.Name())

	rec := spec.Record{Name: "calc_premium(Age, Sum)", Purpose: "Computes premium", Inputs: []string{"Sum Assured", "2nd rate"}}
	code, err := gen.Generate(context.Background(), rec)
	require.NoError(t, err)

	assert.Contains(t, code, "// calcPremium computes premium\n")
	assert.Contains(t, code, "func calcPremium(sumAssured any, _2ndRate any) (any, error) {\n")
	assert.Contains(t, code, `return nil, errors.New("calcPremium: not implemented")`)
}

func TestTemplateGenerator_Errors(t *testing.T) {
	_, err := NewTemplateGenerator("cobol")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)

	gen, err := NewTemplateGenerator("")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Generate(ctx, premium)
	require.ErrorIs(t, err, context.Canceled)
}

type fakeModels struct {
	gotModel  string
	gotPrompt string
	gotTemp   float32
	deadline  bool
	resp      *genai.GenerateContentResponse
	err       error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	if cfg != nil && cfg.Temperature != nil {
		f.gotTemp = *cfg.Temperature
	}
	_, f.deadline = ctx.Deadline()
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiGenerator_Generate(t *testing.T) {
	fake := &fakeModels{resp: textResponse("```python\ndef calculatepremium(age, sum_assured):\n    return 1\n```")}
	gen := newGeminiGenerator(fake, GeminiOptions{Model: "gemini-test", Temperature: 0.2, Timeout: time.Minute}, zaptest.NewLogger(t))

	code, err := gen.Generate(context.Background(), premium)
	require.NoError(t, err)

	assert.Equal(t, "def calculatepremium(age, sum_assured):\n    return 1", code)
	assert.Equal(t, "gemini-test", fake.gotModel)
	assert.Equal(t, BuildPrompt(premium, "python"), fake.gotPrompt)
	assert.InDelta(t, 0.2, fake.gotTemp, 1e-6)
	assert.True(t, fake.deadline)
	assert.Equal(t, "gemini:gemini-test", gen.Name())
}

func TestGeminiGenerator_Failures(t *testing.T) {
	boom := errors.New("quota exceeded")

	gen := newGeminiGenerator(&fakeModels{err: boom}, GeminiOptions{}, nil)
	_, err := gen.Generate(context.Background(), premium)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "calculatepremium")

	gen = newGeminiGenerator(&fakeModels{resp: textResponse("   ")}, GeminiOptions{}, nil)
	_, err = gen.Generate(context.Background(), premium)
	require.ErrorIs(t, err, ErrEmptyResponse)

	gen = newGeminiGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, GeminiOptions{}, nil)
	_, err = gen.Generate(context.Background(), premium)
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNew_SelectsProvider(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default().Codegen

	gen, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "template:python", gen.Name())

	cfg.Provider = "gemini"
	cfg.APIKeyEnv = "SPECGEN_TEST_UNSET_KEY"
	t.Setenv("SPECGEN_TEST_UNSET_KEY", "")
	_, err = New(ctx, cfg, nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)

	cfg.Provider = "openai"
	_, err = New(ctx, cfg, nil)
	require.Error(t, err)
}

func TestLanguageHelpers(t *testing.T) {
	assert.Equal(t, "Python", DisplayLanguage("PYTHON"))
	assert.Equal(t, "cobol", DisplayLanguage("cobol"))
	assert.Equal(t, ".py", FileExtension("python"))
	assert.Equal(t, ".go", FileExtension("golang"))
	assert.Equal(t, ".txt", FileExtension("cobol"))
}
