package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tindog-backend/internal/events"
	"tindog-backend/internal/gemini"
	"tindog-backend/internal/models"
	"tindog-backend/internal/repository"
	"tindog-backend/internal/storage"
)

type fakeDogStore struct {
	mu    sync.Mutex
	dogs  map[string]*models.Dog
	order []string
	err   error
}

func newFakeDogStore(dogs ...*models.Dog) *fakeDogStore {
	s := &fakeDogStore{dogs: map[string]*models.Dog{}}
	for _, d := range dogs {
		_ = s.Create(context.Background(), d)
	}
	return s
}

func (s *fakeDogStore) Create(_ context.Context, dog *models.Dog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *dog
	s.dogs[dog.ID] = &cp
	s.order = append(s.order, dog.ID)
	return nil
}

func (s *fakeDogStore) GetByID(_ context.Context, id string) (*models.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.dogs[id]
	if !ok {
		return nil, fmt.Errorf("dog %s: %w", id, repository.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDogStore) ListExcept(_ context.Context, excluded []string) ([]*models.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	skip := map[string]bool{}
	for _, id := range excluded {
		skip[id] = true
	}
	out := make([]*models.Dog, 0)
	for _, id := range s.order {
		if !skip[id] {
			cp := *s.dogs[id]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeDogStore) Update(_ context.Context, dog *models.Dog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dogs[dog.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *dog
	s.dogs[dog.ID] = &cp
	return nil
}

func (s *fakeDogStore) AppendSeen(_ context.Context, dogID string, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dogs[dogID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	have := map[string]bool{}
	for _, id := range d.Seen {
		have[id] = true
	}
	for _, id := range ids {
		if !have[id] {
			d.Seen = append(d.Seen, id)
			have[id] = true
		}
	}
	return append([]string(nil), d.Seen...), nil
}

type fakeChatStore struct {
	mu        sync.Mutex
	chats     map[string]*models.Chat
	createErr error
	creates   int
}

func newFakeChatStore(chats ...*models.Chat) *fakeChatStore {
	s := &fakeChatStore{chats: map[string]*models.Chat{}}
	for _, c := range chats {
		s.chats[c.ID] = c
	}
	return s
}

func (s *fakeChatStore) Create(_ context.Context, chat *models.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	cp := *chat
	s.chats[chat.ID] = &cp
	return nil
}

func (s *fakeChatStore) GetByID(_ context.Context, id string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[id]
	if !ok {
		return nil, fmt.Errorf("chat %s: %w", id, repository.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *fakeChatStore) ExistsForUsers(_ context.Context, userIDs []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.chats {
		if len(c.UserIDs) == len(userIDs) && sort.StringsAreSorted(userIDs) &&
			c.UserIDs[0] == userIDs[0] && c.UserIDs[1] == userIDs[1] {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeChatStore) UpdateLastMessage(_ context.Context, chatID string, msg models.LastMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chats[chatID]
	if !ok {
		return fmt.Errorf("chat %s: %w", chatID, repository.ErrNotFound)
	}
	c.LastMessage = &msg
	return nil
}

func (s *fakeChatStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chats)
}

type fakeMessageStore struct {
	mu       sync.Mutex
	messages []*models.Message
}

func (s *fakeMessageStore) Create(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeMessageStore) ListByChatID(_ context.Context, chatID string, limit int) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Message, 0)
	for _, m := range s.messages {
		if m.ChatID == chatID && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeGenerator struct {
	text     string
	textErr  error
	data     *models.DogData
	imageErr error
	prompts  []string
	images   []gemini.Image
}

func (g *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.textErr
}

func (g *fakeGenerator) ClassifyImage(_ context.Context, img gemini.Image, prompt string) (*models.DogData, error) {
	g.images = append(g.images, img)
	g.prompts = append(g.prompts, prompt)
	return g.data, g.imageErr
}

type fakeObjectStore struct {
	objects   map[string]string
	public    map[string]bool
	deleted   []string
	deleteErr error
}

func newFakeObjectStore(objects map[string]string) *fakeObjectStore {
	return &fakeObjectStore{objects: objects, public: map[string]bool{}}
}

func (s *fakeObjectStore) Stat(_ context.Context, key string) (*storage.ObjectInfo, error) {
	ct, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, storage.ErrObjectNotFound)
	}
	return &storage.ObjectInfo{Key: key, ContentType: ct}, nil
}

func (s *fakeObjectStore) MakePublic(_ context.Context, key string) error {
	s.public[key] = true
	return nil
}

func (s *fakeObjectStore) PublicURL(key string) string {
	return "https://storage.example.com/tindog/" + key
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) PresignUpload(_ context.Context, key, contentType string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://upload.example.com/%s?type=%s&ttl=%d", key, contentType, int(expires.Seconds())), nil
}

type fakePublisher struct {
	events []events.MessageCreated
	err    error
}

func (p *fakePublisher) PublishMessageCreated(_ context.Context, evt events.MessageCreated) error {
	p.events = append(p.events, evt)
	return p.err
}

func strPtr(s string) *string { return &s }

func sizePtr(s models.Size) *models.Size { return &s }

func dog(id, userID string, seen ...string) *models.Dog {
	return &models.Dog{ID: id, UserID: userID, Name: id, Seen: seen}
}
