package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"barangay-request-wizard/models"

	"github.com/redis/go-redis/v9"
)

// ErrNoDraft signals that the durable slot holds nothing usable for the
// resident: either never written, or purged because the stored draft carried
// no identifying signal.
var ErrNoDraft = errors.New("no draft stored")

// Should be safe to use in concurrency
type DraftStorage interface {
	// Store the draft for the given resident, overwriting any prior value.
	// Attachments are not part of the draft and therefore never stored.
	StoreDraft(residentID string, draft *models.RequestDraft) error

	// Load the resident's draft. Returns ErrNoDraft when the slot is empty
	// or when the stored draft has no identifying signal; in the latter
	// case the stale entry is purged as a side effect.
	LoadDraft(residentID string) (*models.RequestDraft, error)

	// Remove the draft. Removing an absent draft is not an error; this is
	// what re-arms profile auto-fill for the next wizard session.
	RemoveDraft(residentID string) error
}

// ------------------------------------------------------------------------------

type InMemoryDraftStorage struct {
	drafts map[string]string
	mutex  sync.Mutex
}

func NewInMemoryDraftStorage() *InMemoryDraftStorage {
	return &InMemoryDraftStorage{
		drafts: make(map[string]string),
	}
}

func (s *InMemoryDraftStorage) StoreDraft(residentID string, draft *models.RequestDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.drafts[residentID] = string(payload)
	return nil
}

func (s *InMemoryDraftStorage) LoadDraft(residentID string) (*models.RequestDraft, error) {
	s.mutex.Lock()
	payload, ok := s.drafts[residentID]
	s.mutex.Unlock()
	if !ok {
		return nil, ErrNoDraft
	}
	return decodeStoredDraft(s, residentID, payload)
}

func (s *InMemoryDraftStorage) RemoveDraft(residentID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.drafts, residentID)
	return nil
}

// ------------------------------------------------------------------------------

type RedisDraftStorage struct {
	client    *redis.Client
	namespace string
}

func NewRedisDraftStorage(client *redis.Client, namespace string) *RedisDraftStorage {
	return &RedisDraftStorage{client: client, namespace: namespace}
}

func createDraftKey(namespace, residentID string) string {
	return fmt.Sprintf("%s:draft:%s", namespace, residentID)
}

// Drafts abandoned mid-wizard expire on their own.
const DraftTimeout time.Duration = 24 * time.Hour

func (s *RedisDraftStorage) StoreDraft(residentID string, draft *models.RequestDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	ctx := context.Background()
	return s.client.Set(ctx, createDraftKey(s.namespace, residentID), payload, DraftTimeout).Err()
}

func (s *RedisDraftStorage) LoadDraft(residentID string) (*models.RequestDraft, error) {
	ctx := context.Background()
	payload, err := s.client.Get(ctx, createDraftKey(s.namespace, residentID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read draft from redis: %w", err)
	}
	return decodeStoredDraft(s, residentID, payload)
}

func (s *RedisDraftStorage) RemoveDraft(residentID string) error {
	ctx := context.Background()
	return s.client.Del(ctx, createDraftKey(s.namespace, residentID)).Err()
}

// ------------------------------------------------------------------------------

// decodeStoredDraft applies the shared load semantics: malformed content and
// drafts without an identifying signal both count as "no draft", and the
// stale entry is removed so the next session starts from auto-fill.
func decodeStoredDraft(storage DraftStorage, residentID, payload string) (*models.RequestDraft, error) {
	var draft models.RequestDraft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		_ = storage.RemoveDraft(residentID)
		return nil, ErrNoDraft
	}
	if !draft.HasIdentity() {
		_ = storage.RemoveDraft(residentID)
		return nil, ErrNoDraft
	}
	return &draft, nil
}
