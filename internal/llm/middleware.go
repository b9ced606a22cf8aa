package llm

import (
	llmclient "stride/internal/llmclient"
)

// Middleware wraps a Client with an additional behavior. The state machine
// stays oblivious to transport concerns; retries and throttling live here.
type Middleware func(llmclient.Client) llmclient.Client

// Chain applies middlewares so the first listed is the outermost.
func Chain(c llmclient.Client, mws ...Middleware) llmclient.Client {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		c = mws[i](c)
	}
	return c
}
