package mail

import (
	"context"
	"fmt"
	"sync"
)

// Recorder is an in-memory Mailer for tests and dry runs. It records every
// call and never talks to the network.
type Recorder struct {
	mu sync.Mutex

	Sent    []*Message
	Labels  map[string]string
	Applied map[string][]string

	SendErr  error
	LabelErr error

	calls  int
	nextID int
}

// NewRecorder returns a Recorder pre-seeded with the given labels.
func NewRecorder(labels map[string]string) *Recorder {
	if labels == nil {
		labels = make(map[string]string)
	}
	return &Recorder{
		Labels:  labels,
		Applied: make(map[string][]string),
	}
}

// Send records the message and returns a synthetic id, or SendErr if set.
func (r *Recorder) Send(ctx context.Context, msg *Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.SendErr != nil {
		return "", r.SendErr
	}
	r.nextID++
	r.Sent = append(r.Sent, msg)
	return fmt.Sprintf("msg-%d", r.nextID), nil
}

// ListLabels returns a copy of the seeded label map.
func (r *Recorder) ListLabels(ctx context.Context) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.LabelErr != nil {
		return nil, r.LabelErr
	}
	out := make(map[string]string, len(r.Labels))
	for name, id := range r.Labels {
		out[name] = id
	}
	return out, nil
}

// CreateLabel registers a new label named after itself.
func (r *Recorder) CreateLabel(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.LabelErr != nil {
		return "", r.LabelErr
	}
	id := "label-" + name
	r.Labels[name] = id
	return id, nil
}

// ApplyLabels records the label ids attached to a message.
func (r *Recorder) ApplyLabels(ctx context.Context, messageID string, labelIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.LabelErr != nil {
		return r.LabelErr
	}
	r.Applied[messageID] = append(r.Applied[messageID], labelIDs...)
	return nil
}

// Calls reports the total number of mailer invocations of any kind.
func (r *Recorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}
