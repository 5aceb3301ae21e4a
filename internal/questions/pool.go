// Package questions loads the interview question pool from a text file and
// draws random question sets from it.
package questions

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"sync"
)

// DefaultCount is how many questions an interview gets.
const DefaultCount = 6

// defaultQuestions is used when no question file is configured.
var defaultQuestions = []string{
	"Can you tell me about yourself?",
	"Why do you want this job?",
	"What are your strengths?",
	"What are your weaknesses?",
	"Where do you see yourself in 5 years?",
}

// Pool holds the current question list. Reload swaps the list atomically, so
// readers never see a partially loaded file.
type Pool struct {
	path string

	mu        sync.RWMutex
	questions []string
	rng       *rand.Rand
}

// NewPool creates a pool backed by path and loads it. An empty path gives a
// pool with the built-in questions.
func NewPool(path string) (*Pool, error) {
	p := &Pool{path: path, rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewStaticPool creates a pool over a fixed list. Used by tests and by the
// chat front-end when an interview has no stored questions.
func NewStaticPool(questions []string, seed uint64) *Pool {
	return &Pool{
		questions: dedupe(questions),
		rng:       rand.New(rand.NewPCG(seed, seed)),
	}
}

// Reload re-reads the question file. On failure the previous list is kept.
func (p *Pool) Reload() error {
	if p.path == "" {
		p.mu.Lock()
		p.questions = append([]string(nil), defaultQuestions...)
		p.mu.Unlock()
		return nil
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("failed to read question file %s: %w", p.path, err)
	}

	loaded := Parse(string(data))
	if len(loaded) == 0 {
		return fmt.Errorf("question file %s has no questions", p.path)
	}

	p.mu.Lock()
	p.questions = loaded
	p.mu.Unlock()
	return nil
}

// Len returns the pool size.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.questions)
}

// Sample draws min(n, pool size) distinct questions without replacement.
func (p *Pool) Sample(n int) []string {
	// The rng is not safe for concurrent use, so sampling takes the write lock.
	p.mu.Lock()
	defer p.mu.Unlock()

	if n <= 0 || len(p.questions) == 0 {
		return nil
	}
	n = min(n, len(p.questions))

	idx := p.rng.Perm(len(p.questions))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, p.questions[i])
	}
	return out
}

// Parse splits file content into questions: one per non-blank line, with
// surrounding whitespace removed and duplicates dropped.
func Parse(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return dedupe(lines)
}

// Format renders questions as a 1-indexed numbered list, one per line.
func Format(questions []string) string {
	lines := make([]string, 0, len(questions))
	for i, q := range questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, q))
	}
	return strings.Join(lines, "\n")
}

// ParseNumbered reverses Format. Lines without a "N. " prefix are kept as-is.
func ParseNumbered(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if num, rest, ok := strings.Cut(line, ". "); ok {
			if _, err := strconv.Atoi(num); err == nil {
				line = strings.TrimSpace(rest)
			}
		}
		out = append(out, line)
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
