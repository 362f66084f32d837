package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/paddocklab/racing-admin/shared/models"
)

var errStoreDown = errors.New("store unreachable")

// fakeDriverStore is an in-memory store.DriverStore.
type fakeDriverStore struct {
	mu      sync.Mutex
	docs    map[string]models.Driver
	nextKey int

	failList   bool
	failCreate bool
	failUpdate bool
	failDelete bool

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	// onDelete runs inside DeleteDriver, before the document is removed.
	onDelete func(docID string)
}

func newFakeDriverStore() *fakeDriverStore {
	return &fakeDriverStore{docs: map[string]models.Driver{}}
}

func (f *fakeDriverStore) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return nil, errStoreDown
	}
	out := make([]models.Driver, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequentialID < out[j].SequentialID })
	return out, nil
}

func (f *fakeDriverStore) MaxSequentialID(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return 0, errStoreDown
	}
	var max int64
	for _, d := range f.docs {
		if d.SequentialID > max {
			max = d.SequentialID
		}
	}
	return max, nil
}

func (f *fakeDriverStore) CreateDriver(ctx context.Context, driver *models.Driver) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreate {
		return "", errStoreDown
	}
	f.nextKey++
	doc := *driver
	doc.DocID = fmt.Sprintf("drv-%03d", f.nextKey)
	f.docs[doc.DocID] = doc
	return doc.DocID, nil
}

func (f *fakeDriverStore) UpdateDriver(ctx context.Context, docID string, driver *models.Driver) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.failUpdate {
		return errStoreDown
	}
	if _, ok := f.docs[docID]; !ok {
		return fmt.Errorf("driver %s not found for update", docID)
	}
	doc := *driver
	doc.DocID = docID
	f.docs[docID] = doc
	return nil
}

func (f *fakeDriverStore) DeleteDriver(ctx context.Context, docID string) error {
	f.mu.Lock()
	hook := f.onDelete
	f.mu.Unlock()
	if hook != nil {
		hook(docID)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.failDelete {
		return errStoreDown
	}
	if _, ok := f.docs[docID]; !ok {
		return fmt.Errorf("driver %s not found for delete", docID)
	}
	delete(f.docs, docID)
	return nil
}

// fakeTeamStore is an in-memory store.TeamStore.
type fakeTeamStore struct {
	mu      sync.Mutex
	docs    map[string]models.Team
	nextKey int

	failList   bool
	failCreate bool
	failDelete bool

	deleteCalls int
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{docs: map[string]models.Team{}}
}

func (f *fakeTeamStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errStoreDown
	}
	out := make([]models.Team, 0, len(f.docs))
	for _, t := range f.docs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequentialID < out[j].SequentialID })
	return out, nil
}

func (f *fakeTeamStore) MaxSequentialID(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return 0, errStoreDown
	}
	var max int64
	for _, t := range f.docs {
		if t.SequentialID > max {
			max = t.SequentialID
		}
	}
	return max, nil
}

func (f *fakeTeamStore) CreateTeam(ctx context.Context, team *models.Team) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return "", errStoreDown
	}
	f.nextKey++
	doc := *team
	doc.DocID = fmt.Sprintf("team-%03d", f.nextKey)
	f.docs[doc.DocID] = doc
	return doc.DocID, nil
}

func (f *fakeTeamStore) UpdateTeam(ctx context.Context, docID string, team *models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[docID]; !ok {
		return fmt.Errorf("team %s not found for update", docID)
	}
	doc := *team
	doc.DocID = docID
	f.docs[docID] = doc
	return nil
}

func (f *fakeTeamStore) DeleteTeam(ctx context.Context, docID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.failDelete {
		return errStoreDown
	}
	if _, ok := f.docs[docID]; !ok {
		return fmt.Errorf("team %s not found for delete", docID)
	}
	delete(f.docs, docID)
	return nil
}
