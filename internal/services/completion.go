package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TutorSystemPrompt is sent ahead of every user message.
const TutorSystemPrompt = "You are a personal tech tutor skilled in Python, JavaScript, Docker, Git, CLI and software deployment. Explain clearly and give examples"

// ErrEmptyCompletion means the provider answered without any usable text.
var ErrEmptyCompletion = errors.New("completion returned no text")

// Completer sends a system instruction and one user message to an LLM and
// returns the text of the top candidate.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Provider() string
}

// rateBucket caps in-flight completion calls.
type rateBucket chan struct{}

func newRateBucket(size int) rateBucket {
	if size < 1 {
		size = 1
	}
	b := make(rateBucket, size)
	for i := 0; i < size; i++ {
		b <- struct{}{}
	}
	return b
}

// acquire blocks until a rate slot is available
func (b rateBucket) acquire(ctx context.Context) error {
	select {
	case <-b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for completion rate slot")
	}
}

func (b rateBucket) release() {
	b <- struct{}{}
}
