package llm

import "context"

// Mock is a scripted Invoker for tests. Responses are returned in order;
// the last entry repeats once the script is exhausted. Errs, when set for
// a call index, takes precedence over the response.
type Mock struct {
	Responses []string
	Errs      map[int]error
	Prompts   []string
	calls     int
}

func (m *Mock) Invoke(_ context.Context, prompt string) (string, error) {
	idx := m.calls
	m.calls++
	m.Prompts = append(m.Prompts, prompt)

	if err, ok := m.Errs[idx]; ok {
		return "", err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// Calls returns how many times Invoke was called.
func (m *Mock) Calls() int {
	return m.calls
}

var _ Invoker = (*Mock)(nil)
