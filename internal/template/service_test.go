package template

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu        sync.Mutex
	templates map[string]InvoiceTemplate
	gets      int
}

func newMemStore(seed ...InvoiceTemplate) *memStore {
	s := &memStore{templates: make(map[string]InvoiceTemplate)}
	for _, tpl := range seed {
		s.templates[tpl.ID] = tpl
	}
	return s
}

func (m *memStore) Get(_ context.Context, id string) (InvoiceTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	tpl, ok := m.templates[id]
	if !ok {
		return InvoiceTemplate{}, ErrTemplateNotFound
	}
	return tpl.Clone(), nil
}

func (m *memStore) List(_ context.Context, ownerID string) ([]InvoiceTemplate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []InvoiceTemplate
	for _, tpl := range m.templates {
		if tpl.IsPublic || (tpl.OwnerID != nil && *tpl.OwnerID == ownerID) {
			out = append(out, tpl.Clone())
		}
	}
	return out, nil
}

func (m *memStore) Insert(_ context.Context, tpl InvoiceTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[tpl.ID] = tpl
	return nil
}

func (m *memStore) Update(_ context.Context, tpl InvoiceTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[tpl.ID]; !ok {
		return ErrTemplateNotFound
	}
	m.templates[tpl.ID] = tpl
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(m.templates, id)
	return nil
}

func (m *memStore) IncrementUsage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tpl, ok := m.templates[id]
	if !ok {
		return ErrTemplateNotFound
	}
	tpl.UsageCount++
	m.templates[id] = tpl
	return nil
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return NewService(store, client, logger)
}

func userTemplate(t *testing.T) InvoiceTemplate {
	t.Helper()
	return NewUserTemplate("Shop Invoice", "user-1")
}

func TestServiceGetUsesCache(t *testing.T) {
	tpl := userTemplate(t)
	store := newMemStore(tpl)
	svc := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)
	second, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.gets, "second read served from cache")
}

func TestServiceGetFallsBackToBuiltInDefault(t *testing.T) {
	svc := newTestService(t, newMemStore())

	tpl, err := svc.Get(context.Background(), DefaultTemplate().ID)

	require.NoError(t, err)
	assert.True(t, tpl.IsDefault)
	assert.Equal(t, DefaultTemplate().Name, tpl.Name)
}

func TestServiceCreateClonesDefaultLayout(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	tpl, err := svc.Create(context.Background(), "My Layout", "user-9")

	require.NoError(t, err)
	assert.Equal(t, "My Layout", tpl.Name)
	assert.False(t, tpl.IsDefault)
	require.NotNil(t, tpl.OwnerID)
	assert.Equal(t, "user-9", *tpl.OwnerID)
	assert.Len(t, tpl.Sections, len(DefaultTemplate().Sections))
	assert.NotEqual(t, DefaultTemplate().ID, tpl.ID)
}

func TestServiceMutationInvalidatesCache(t *testing.T) {
	tpl := userTemplate(t)
	store := newMemStore(tpl)
	svc := newTestService(t, store)
	ctx := context.Background()

	// Warm the cache, then mutate.
	_, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)
	updated, err := svc.AddSection(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, updated.Sections, len(tpl.Sections)+1)

	fresh, err := svc.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Len(t, fresh.Sections, len(tpl.Sections)+1, "cache dropped on write")
}

func TestServiceMutationsRejectDefaultTemplate(t *testing.T) {
	store := newMemStore(DefaultTemplate())
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.AddSection(ctx, DefaultTemplate().ID)
	assert.ErrorIs(t, err, ErrDefaultTemplate)

	err = svc.Delete(ctx, DefaultTemplate().ID)
	assert.ErrorIs(t, err, ErrDefaultTemplate)
}

func TestServiceUpdateSectionPersists(t *testing.T) {
	tpl := userTemplate(t)
	store := newMemStore(tpl)
	svc := newTestService(t, store)
	title := "Billed By"

	updated, err := svc.UpdateSection(context.Background(), tpl.ID, tpl.Sections[1].ID, SectionPatch{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "Billed By", updated.Sections[1].Title)

	stored, err := store.Get(context.Background(), tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Billed By", stored.Sections[1].Title)
}

func TestServiceMoveSectionSwapsNeighbours(t *testing.T) {
	tpl := userTemplate(t)
	store := newMemStore(tpl)
	svc := newTestService(t, store)

	second := tpl.Sections[1]
	updated, err := svc.MoveSection(context.Background(), tpl.ID, second.ID, DirectionUp)

	require.NoError(t, err)
	for _, sec := range updated.Sections {
		if sec.ID == second.ID {
			assert.Equal(t, 1, sec.Position)
		}
	}
}

func TestServiceInvalidMutationNotPersisted(t *testing.T) {
	tpl := userTemplate(t)
	store := newMemStore(tpl)
	svc := newTestService(t, store)
	badWidth := 80.0

	sec := tpl.LineItemsSection()
	require.NotNil(t, sec)
	_, err := svc.UpdateColumn(context.Background(), tpl.ID, sec.Columns[0].ID, ColumnPatch{Width: &badWidth})

	assert.ErrorIs(t, err, ErrInvalidTemplate)
	stored, getErr := store.Get(context.Background(), tpl.ID)
	require.NoError(t, getErr)
	assert.Equal(t, sec.Columns[0].Width, stored.LineItemsSection().Columns[0].Width)
}

func TestServiceRecordUsageBumpsCounter(t *testing.T) {
	tpl := userTemplate(t)
	store := newMemStore(tpl)
	svc := newTestService(t, store)

	require.NoError(t, svc.RecordUsage(context.Background(), tpl.ID))

	stored, err := store.Get(context.Background(), tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsageCount)
}
