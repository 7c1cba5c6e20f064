package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/curaious/finca/internal/services/detection"
	"github.com/curaious/finca/internal/services/notification"
	"github.com/curaious/finca/internal/services/user"
	"github.com/google/uuid"
)

// MemTokenStore is a single-use token store without expiry
type MemTokenStore struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
}

func NewMemTokenStore() *MemTokenStore {
	return &MemTokenStore{tokens: map[string]uuid.UUID{}}
}

func (m *MemTokenStore) Save(_ context.Context, purpose, token string, userID uuid.UUID, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[purpose+":"+token] = userID
	return nil
}

func (m *MemTokenStore) Consume(_ context.Context, purpose, token string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[purpose+":"+token]
	if !ok {
		return uuid.Nil, user.ErrTokenInvalid
	}
	delete(m.tokens, purpose+":"+token)
	return id, nil
}

// RecordingMailer keeps every mail it is asked to send
type RecordingMailer struct {
	mu    sync.Mutex
	Mails []user.Mail
}

func (r *RecordingMailer) Send(_ context.Context, mail user.Mail) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Mails = append(r.Mails, mail)
	return nil
}

// RecordingPusher keeps every push message. Err, when set, is returned
// after recording.
type RecordingPusher struct {
	mu       sync.Mutex
	Messages []notification.PushMessage
	Err      error
}

func (r *RecordingPusher) Push(_ context.Context, msg notification.PushMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, msg)
	return r.Err
}

func (r *RecordingPusher) Sent() []notification.PushMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.PushMessage(nil), r.Messages...)
}

// StubClassifier answers every image with Prediction, or fails with Err
type StubClassifier struct {
	Prediction detection.Prediction
	Err        error
	Calls      int
}

func (c *StubClassifier) Classify(_ context.Context, _ string, _ *detection.Image) (*detection.Prediction, error) {
	c.Calls++
	if c.Err != nil {
		return nil, c.Err
	}
	p := c.Prediction
	return &p, nil
}

// MemImageStore keeps uploaded images by key
type MemImageStore struct {
	mu     sync.Mutex
	Images map[string][]byte
}

func NewMemImageStore() *MemImageStore {
	return &MemImageStore{Images: map[string][]byte{}}
}

func (m *MemImageStore) Put(_ context.Context, plotID uuid.UUID, img *detection.Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("detections/%s/%s", plotID, uuid.NewString())
	m.Images[key] = append([]byte(nil), img.Data...)
	return key, nil
}
