package llm

import (
	"context"
	"sync"
)

// FakeClient returns canned responses for offline runs and tests.
type FakeClient struct {
	mu        sync.Mutex
	Response  string
	Responses []string // consumed before Response when non-empty
	Err       error
	FailTimes int // fail this many calls with Err before succeeding
	Calls     int
	Prompts   []string
}

func NewFakeClient(response string) *FakeClient {
	if response == "" {
		response = "Sounds good. How does your training feel this week?"
	}
	return &FakeClient{Response: response}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil && (f.FailTimes == 0 || f.Calls <= f.FailTimes) {
		return "", f.Err
	}
	if len(f.Responses) > 0 {
		resp := f.Responses[0]
		f.Responses = f.Responses[1:]
		return resp, nil
	}
	return f.Response, nil
}
