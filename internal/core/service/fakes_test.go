package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zaiko-app/zaiko/internal/core/domain"
)

// fakeStore is an in-memory stand-in for the repository ports. Its
// mutation methods carry the same optimistic version semantics as the
// SQL store so conflict and concurrency behavior is testable without a
// database.
type fakeStore struct {
	mu        sync.Mutex
	accounts  map[int64]*domain.Account
	teams     map[int64]*domain.Team
	members   []domain.Membership
	items     map[itemKey]*domain.Item
	entries   map[int64]*domain.LedgerEntry
	suppliers map[itemKey]*domain.Supplier
	nextID    int64
	nextSeq   int64
}

type itemKey struct {
	teamID int64
	code   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:  make(map[int64]*domain.Account),
		teams:     make(map[int64]*domain.Team),
		items:     make(map[itemKey]*domain.Item),
		entries:   make(map[int64]*domain.LedgerEntry),
		suppliers: make(map[itemKey]*domain.Supplier),
	}
}

// account repository

func (f *fakeStore) GetAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetAccountByID(_ context.Context, id int64) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateAccount(_ context.Context, account *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == account.Email {
			return domain.ErrDuplicateEmail
		}
	}
	f.nextID++
	account.ID = f.nextID
	copy := *account
	f.accounts[account.ID] = &copy
	return nil
}

func (f *fakeStore) deleteAccount(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.accounts, id)
}

// team repository

func (f *fakeStore) CreateTeam(_ context.Context, team *domain.Team, owner *domain.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	team.ID = f.nextID
	copy := *team
	f.teams[team.ID] = &copy
	f.nextID++
	owner.ID = f.nextID
	owner.TeamID = team.ID
	f.members = append(f.members, *owner)
	return nil
}

func (f *fakeStore) GetTeam(_ context.Context, teamID int64) (*domain.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.teams[teamID]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeStore) ListMemberships(_ context.Context, accountID int64) ([]domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Membership
	for _, m := range f.members {
		if m.AccountID == accountID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetMembership(_ context.Context, accountID, teamID int64) (*domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.AccountID == accountID && m.TeamID == teamID {
			copy := m
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) AddMembership(_ context.Context, m *domain.Membership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	m.ID = f.nextID
	f.members = append(f.members, *m)
	return nil
}

func (f *fakeStore) ListTeamsByAccount(ctx context.Context, accountID int64) ([]domain.Team, error) {
	memberships, _ := f.ListMemberships(ctx, accountID)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Team
	for _, m := range memberships {
		if t, ok := f.teams[m.TeamID]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

// item repository

func (f *fakeStore) GetItem(_ context.Context, teamID int64, itemCode string) (*domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.items[itemKey{teamID, itemCode}]; ok {
		copy := *item
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeStore) CreateItem(_ context.Context, item domain.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := itemKey{item.TeamID, item.ItemCode}
	if _, ok := f.items[key]; ok {
		return domain.ErrDuplicateItem
	}
	f.items[key] = &item
	return nil
}

func (f *fakeStore) UpdateItemMeta(_ context.Context, item domain.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[itemKey{item.TeamID, item.ItemCode}]
	if !ok || stored.Version != item.Version {
		return domain.ErrConflict
	}
	stored.ItemName = item.ItemName
	stored.ItemPrice = item.ItemPrice
	stored.Version++
	stored.UpdatedAt = item.UpdatedAt
	stored.UpdatedBy = item.UpdatedBy
	return nil
}

func (f *fakeStore) DeleteItem(_ context.Context, teamID int64, itemCode string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := itemKey{teamID, itemCode}
	if _, ok := f.items[key]; !ok {
		return domain.ErrItemNotFound
	}
	delete(f.items, key)
	for seq, e := range f.entries {
		if e.TeamID == teamID && e.ItemCode == itemCode {
			delete(f.entries, seq)
		}
	}
	return nil
}

func (f *fakeStore) ListItems(_ context.Context, teamID int64) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Item
	for _, item := range f.items {
		if item.TeamID == teamID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeStore) ListInventory(_ context.Context, teamID int64) ([]domain.InventoryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.InventoryRow
	for _, item := range f.items {
		if item.TeamID != teamID {
			continue
		}
		stock := item.Quantity
		last := item.UpdatedAt
		for _, e := range f.entries {
			if e.TeamID != teamID || e.ItemCode != item.ItemCode {
				continue
			}
			if e.Sequence > item.FoldCursor && e.Status == domain.StatusCommitted {
				stock += e.Signed()
			}
			if e.UpdatedAt.After(last) {
				last = e.UpdatedAt
			}
		}
		out = append(out, domain.InventoryRow{
			ItemCode:     item.ItemCode,
			ItemName:     item.ItemName,
			Stock:        stock,
			LastActivity: last,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActivity.After(out[j].LastActivity) })
	return out, nil
}

// ledger repository

func (f *fakeStore) GetEntry(_ context.Context, teamID, sequence int64) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[sequence]; ok && e.TeamID == teamID {
		copy := *e
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeStore) EntriesSince(_ context.Context, teamID int64, itemCode string, cursor int64) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.TeamID == teamID && e.ItemCode == itemCode && e.Sequence > cursor {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeStore) ListEntries(_ context.Context, teamID int64) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.TeamID == teamID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	return out, nil
}

func (f *fakeStore) ListEntriesByItem(_ context.Context, teamID int64, itemCode string, since *time.Time) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.TeamID != teamID || e.ItemCode != itemCode {
			continue
		}
		if since != nil && e.UpdatedAt.Before(*since) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	return out, nil
}

func (f *fakeStore) ListEntriesBySupplier(_ context.Context, teamID int64, supplierRef, itemCode string, since *time.Time) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range f.entries {
		if e.TeamID != teamID || e.SupplierRef != supplierRef {
			continue
		}
		if itemCode != "" && e.ItemCode != itemCode {
			continue
		}
		if since != nil && e.UpdatedAt.Before(*since) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	return out, nil
}

func (f *fakeStore) ApplyEntry(_ context.Context, item domain.Item, entry domain.LedgerEntry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[itemKey{item.TeamID, item.ItemCode}]
	if !ok || stored.Version != item.Version {
		return 0, domain.ErrConflict
	}
	f.nextSeq++
	entry.Sequence = f.nextSeq
	f.entries[entry.Sequence] = &entry
	stored.Quantity = item.Quantity
	stored.FoldCursor = entry.Sequence
	stored.Version++
	stored.UpdatedAt = item.UpdatedAt
	stored.UpdatedBy = item.UpdatedBy
	return entry.Sequence, nil
}

func (f *fakeStore) AmendEntry(_ context.Context, item domain.Item, entry domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.entries[entry.Sequence]
	if !ok || stored.TeamID != entry.TeamID || stored.Status != domain.StatusCommitted {
		return domain.ErrTransactionNotFound
	}
	it, ok := f.items[itemKey{item.TeamID, item.ItemCode}]
	if !ok || it.Version != item.Version {
		return domain.ErrConflict
	}
	stored.Quantity = entry.Quantity
	stored.Price = entry.Price
	stored.UpdatedAt = entry.UpdatedAt
	stored.UpdatedBy = entry.UpdatedBy
	it.Quantity = item.Quantity
	it.Version++
	it.UpdatedAt = item.UpdatedAt
	it.UpdatedBy = item.UpdatedBy
	return nil
}

func (f *fakeStore) RetractEntry(_ context.Context, item domain.Item, entry domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.entries[entry.Sequence]
	if !ok || stored.TeamID != entry.TeamID || stored.Status != domain.StatusCommitted {
		return domain.ErrTransactionNotFound
	}
	it, ok := f.items[itemKey{item.TeamID, item.ItemCode}]
	if !ok || it.Version != item.Version {
		return domain.ErrConflict
	}
	stored.Status = domain.StatusRetracted
	stored.UpdatedAt = entry.UpdatedAt
	stored.UpdatedBy = entry.UpdatedBy
	it.Quantity = item.Quantity
	it.Version++
	it.UpdatedAt = item.UpdatedAt
	it.UpdatedBy = item.UpdatedBy
	return nil
}

// supplier repository

func (f *fakeStore) ListSuppliers(_ context.Context, teamID int64) ([]domain.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Supplier
	for _, s := range f.suppliers {
		if s.TeamID == teamID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) GetSupplier(_ context.Context, teamID int64, supplierCode string) (*domain.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.suppliers[itemKey{teamID, supplierCode}]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, nil
}

func (f *fakeStore) addSupplier(teamID int64, code, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suppliers[itemKey{teamID, code}] = &domain.Supplier{
		TeamID:       teamID,
		SupplierCode: code,
		SupplierName: name,
		UpdatedAt:    time.Now(),
	}
}

// fakeCache records stock values and invalidations.
type fakeCache struct {
	mu            sync.Mutex
	values        map[itemKey]int64
	hits          int
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[itemKey]int64)}
}

func (c *fakeCache) GetStock(_ context.Context, teamID int64, itemCode string) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[itemKey{teamID, itemCode}]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *fakeCache) SetStock(_ context.Context, teamID int64, itemCode string, stock int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[itemKey{teamID, itemCode}] = stock
	return nil
}

func (c *fakeCache) InvalidateStock(_ context.Context, teamID int64, itemCode string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, itemKey{teamID, itemCode})
	c.invalidations++
	return nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *fakePublisher) Publish(_ context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// seedItem registers an item directly in the fake store.
func (f *fakeStore) seedItem(teamID int64, name string) *domain.Item {
	item := domain.Item{
		TeamID:    teamID,
		ItemCode:  domain.NewItemCode(teamID, name),
		ItemName:  name,
		UpdatedAt: time.Now(),
		UpdatedBy: "seed",
	}
	_ = f.CreateItem(context.Background(), item)
	return &item
}
