package service

import (
	"context"
	"fmt"

	"github.com/paddocklab/racing-admin/admin/apperr"
	"github.com/paddocklab/racing-admin/admin/state"
	"github.com/paddocklab/racing-admin/admin/store"
	"github.com/paddocklab/racing-admin/shared/logging"
	"github.com/paddocklab/racing-admin/shared/models"
)

// DriverInput carries the form fields for creating or updating a driver. DOB
// arrives as an ISO date string and is normalized before persistence.
type DriverInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       string `json:"dob"`
	Country   string `json:"country"`
	// SequentialID is ignored on add (the service assigns it) but carried
	// through on update, since updates overwrite the whole document.
	SequentialID int64 `json:"id"`
}

// DriverService encapsulates the data-access logic for the driver collection:
// sequential-id assignment, date normalization, and keeping the dashboard
// state's in-memory list consistent with remote state after each mutation.
type DriverService struct {
	drivers       store.DriverStore
	log           logging.Logger
	strictDeletes bool
}

// NewDriverService creates a new DriverService instance.
func NewDriverService(drivers store.DriverStore, log logging.Logger, strictDeletes bool) *DriverService {
	return &DriverService{drivers: drivers, log: log, strictDeletes: strictDeletes}
}

// List fetches all drivers and replaces the state's in-memory list with the
// result. A fetch failure is recorded on the state, not returned; the caller
// gets whatever list the state currently holds.
func (s *DriverService) List(ctx context.Context, st *state.State) []models.Driver {
	st.BeginOp()
	defer st.EndOp()

	drivers, err := s.drivers.ListDrivers(ctx)
	if err != nil {
		s.log.Error("failed to fetch drivers", logging.Error(err))
		st.SetError(msgFetchDrivers)
		return st.Drivers()
	}

	st.SetDrivers(drivers)
	return drivers
}

// Add assigns the next sequential id, normalizes the date of birth, persists
// the new document, and returns its key. Failures are recorded on the state
// and returned so the form can keep its modal open.
func (s *DriverService) Add(ctx context.Context, st *state.State, input DriverInput) (string, error) {
	st.BeginOp()
	defer st.EndOp()

	driver, err := s.validate(input)
	if err != nil {
		st.SetError(msgSaveDriver)
		return "", apperr.New(apperr.KindValidation, msgSaveDriver, err)
	}

	// Read-max-then-increment. Not transactional: two overlapping adds can
	// both observe the same max and assign duplicate ids.
	maxID, err := s.drivers.MaxSequentialID(ctx)
	if err != nil {
		s.log.Error("failed to query max driver id", logging.Error(err))
		st.SetError(msgSaveDriver)
		return "", apperr.New(apperr.KindWrite, msgSaveDriver, err)
	}
	driver.SequentialID = maxID + 1

	docID, err := s.drivers.CreateDriver(ctx, driver)
	if err != nil {
		s.log.Error("failed to create driver", logging.Error(err))
		st.SetError(msgSaveDriver)
		return "", apperr.New(apperr.KindWrite, msgSaveDriver, err)
	}

	s.log.Info("driver added", logging.String("docId", docID), logging.Int64("id", driver.SequentialID))
	return docID, nil
}

// Update overwrites the whole document identified by docID. An empty docID is
// rejected before any store call: the failure is logged and recorded, and the
// operation aborts without an error reaching the caller.
func (s *DriverService) Update(ctx context.Context, st *state.State, docID string, input DriverInput) error {
	st.BeginOp()
	defer st.EndOp()

	if docID == "" {
		s.log.Error("driver update rejected: missing document key")
		st.SetError(msgSaveDriver)
		return nil
	}

	driver, err := s.validate(input)
	if err != nil {
		st.SetError(msgSaveDriver)
		return apperr.New(apperr.KindValidation, msgSaveDriver, err)
	}

	if err := s.drivers.UpdateDriver(ctx, docID, driver); err != nil {
		s.log.Error("failed to update driver", logging.String("docId", docID), logging.Error(err))
		st.SetError(msgSaveDriver)
		return apperr.New(apperr.KindWrite, msgSaveDriver, err)
	}

	s.log.Info("driver updated", logging.String("docId", docID))
	return nil
}

// Delete removes the driver from the in-memory list before issuing the remote
// delete, then re-fetches to reconcile. A remote failure is recorded but the
// optimistic removal stands, unless strict deletes are enabled, in which case
// the previous list is restored.
func (s *DriverService) Delete(ctx context.Context, st *state.State, docID string) {
	st.BeginOp()
	defer st.EndOp()

	if docID == "" {
		s.log.Error("driver delete rejected: missing document key")
		st.SetError(msgDeleteDriver)
		return
	}

	prev := st.Drivers()
	st.RemoveDriver(docID)

	if err := s.drivers.DeleteDriver(ctx, docID); err != nil {
		s.log.Error("failed to delete driver", logging.String("docId", docID), logging.Error(err))
		st.SetError(msgDeleteDriver)
		if s.strictDeletes {
			st.SetDrivers(prev)
		}
		return
	}

	s.List(ctx, st)
}

// Search filters the state's in-memory list by a case-insensitive substring
// match over the display name and country.
func (s *DriverService) Search(st *state.State, query string) []models.Driver {
	drivers := st.Drivers()
	if query == "" {
		return drivers
	}
	matched := drivers[:0]
	for _, d := range drivers {
		if containsFold(d.DisplayName(), query) || containsFold(d.Country, query) {
			matched = append(matched, d)
		}
	}
	return matched
}

func (s *DriverService) validate(input DriverInput) (*models.Driver, error) {
	if input.FirstName == "" || input.LastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}
	if !models.ValidCountry(input.Country) {
		return nil, fmt.Errorf("unknown country %q", input.Country)
	}
	dob, err := normalizeDOB(input.DOB)
	if err != nil {
		return nil, err
	}
	return &models.Driver{
		SequentialID: input.SequentialID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		DOB:          dob,
		Country:      input.Country,
	}, nil
}
