package host

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRoundTripper intercepts the Messages API call, captures the request
// body and answers with a canned response.
type fakeRoundTripper struct {
	status int
	body   []byte

	captured []byte
}

func (f *fakeRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	b, _ := io.ReadAll(req.Body)
	_ = req.Body.Close()
	f.captured = b

	resp := &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewReader(f.body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func testBackend(rt http.RoundTripper) *AnthropicBackend {
	settings := Settings{APIKey: "test-key", Model: "claude-3-7-sonnet-latest", MaxTokens: 1024, MaxTurns: 8}
	return NewAnthropicBackend(settings, option.WithHTTPClient(&http.Client{Transport: rt}))
}

func TestCreateTurn_ParsesTextAndToolUse(t *testing.T) {
	rt := &fakeRoundTripper{status: 200, body: []byte(`{
		"role": "assistant",
		"content": [
			{"type": "text", "text": "Let me add those."},
			{"type": "tool_use", "id": "toolu_1", "name": "add", "input": {"a": 2, "b": 2}}
		]
	}`)}
	backend := testBackend(rt)

	history := []Message{{Role: RoleUser, Content: []ContentBlock{NewTextBlock("what is 2+2")}}}
	blocks, err := backend.CreateTurn(context.Background(), history, nil)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	require.NotNil(t, blocks[0].Text)
	assert.Equal(t, "Let me add those.", blocks[0].Text.Text)

	use := blocks[1].ToolUse
	require.NotNil(t, use)
	assert.Equal(t, "toolu_1", use.ID)
	assert.Equal(t, "add", use.Name)
	assert.Equal(t, map[string]any{"a": float64(2), "b": float64(2)}, use.Input)
}

func TestCreateTurn_UnrecognizedBlockFailsFast(t *testing.T) {
	rt := &fakeRoundTripper{status: 200, body: []byte(`{
		"role": "assistant",
		"content": [{"type": "banana", "text": "?"}]
	}`)}
	backend := testBackend(rt)

	history := []Message{{Role: RoleUser, Content: []ContentBlock{NewTextBlock("hello")}}}
	_, err := backend.CreateTurn(context.Background(), history, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized content block")
}

func TestCreateTurn_SerializesHistory(t *testing.T) {
	rt := &fakeRoundTripper{status: 200, body: []byte(`{"role": "assistant", "content": []}`)}
	backend := testBackend(rt)

	history := []Message{
		{Role: RoleUser, Content: []ContentBlock{NewTextBlock("what is 2+2")}},
		{Role: RoleAssistant, Content: []ContentBlock{
			NewToolUseBlock("toolu_1", "add", map[string]any{"a": float64(2)}),
		}},
		{Role: RoleUser, Content: []ContentBlock{
			NewToolResultBlock("toolu_1", "4", false),
		}},
	}
	_, err := backend.CreateTurn(context.Background(), history, nil)
	require.NoError(t, err)
	require.NotNil(t, rt.captured)

	var body struct {
		Model     string `json:"model"`
		MaxTokens int64  `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content []struct {
				Type      string          `json:"type"`
				Text      string          `json:"text,omitempty"`
				ID        string          `json:"id,omitempty"`
				Name      string          `json:"name,omitempty"`
				Input     json.RawMessage `json:"input,omitempty"`
				ToolUseID string          `json:"tool_use_id,omitempty"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rt.captured, &body))

	assert.Equal(t, "claude-3-7-sonnet-latest", body.Model)
	assert.Equal(t, int64(1024), body.MaxTokens)
	require.Len(t, body.Messages, 3)

	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "text", body.Messages[0].Content[0].Type)

	assert.Equal(t, "assistant", body.Messages[1].Role)
	assert.Equal(t, "tool_use", body.Messages[1].Content[0].Type)
	assert.Equal(t, "toolu_1", body.Messages[1].Content[0].ID)
	assert.Equal(t, "add", body.Messages[1].Content[0].Name)

	assert.Equal(t, "user", body.Messages[2].Role)
	assert.Equal(t, "tool_result", body.Messages[2].Content[0].Type)
	assert.Equal(t, "toolu_1", body.Messages[2].Content[0].ToolUseID)
}

func TestToMessageParams_RejectsEmptyVariant(t *testing.T) {
	history := []Message{{Role: RoleAssistant, Content: []ContentBlock{{}}}}

	_, err := toMessageParams(history)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no variant set")
}
