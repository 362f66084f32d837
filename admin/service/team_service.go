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

// TeamInput carries the form fields for creating or updating a team.
// DriverRefs holds document keys of member drivers.
type TeamInput struct {
	Name       string   `json:"name"`
	Country    string   `json:"country"`
	DriverRefs []string `json:"driverRefs"`
	// SequentialID is ignored on add but carried through on update.
	SequentialID int64 `json:"id"`
}

// TeamService mirrors DriverService for the team collection, adding list-time
// resolution of driver references to display names.
type TeamService struct {
	teams         store.TeamStore
	drivers       store.DriverStore
	log           logging.Logger
	strictDeletes bool
}

// NewTeamService creates a new TeamService instance. It needs the driver
// store to resolve team membership into display names.
func NewTeamService(teams store.TeamStore, drivers store.DriverStore, log logging.Logger, strictDeletes bool) *TeamService {
	return &TeamService{teams: teams, drivers: drivers, log: log, strictDeletes: strictDeletes}
}

// List fetches all teams and resolves each driver reference against one
// snapshot of the driver collection. A reference to a driver missing from the
// snapshot resolves to the raw document key. An empty team collection returns
// immediately without querying drivers at all.
func (s *TeamService) List(ctx context.Context, st *state.State) []models.TeamView {
	st.BeginOp()
	defer st.EndOp()

	teams, err := s.teams.ListTeams(ctx)
	if err != nil {
		s.log.Error("failed to fetch teams", logging.Error(err))
		st.SetError(msgFetchTeams)
		return st.Teams()
	}

	if len(teams) == 0 {
		views := []models.TeamView{}
		st.SetTeams(views)
		return views
	}

	byKey := make(map[string]models.Driver)
	drivers, err := s.drivers.ListDrivers(ctx)
	if err != nil {
		// Resolution degrades to raw keys; the failure is still recorded.
		s.log.Error("failed to fetch drivers for team resolution", logging.Error(err))
		st.SetError(msgFetchTeams)
	} else {
		for _, d := range drivers {
			byKey[d.DocID] = d
		}
	}

	views := make([]models.TeamView, 0, len(teams))
	for _, t := range teams {
		view := models.TeamView{Team: t, DriverNames: make([]string, 0, len(t.DriverRefs))}
		for _, ref := range t.DriverRefs {
			if d, ok := byKey[ref]; ok {
				view.DriverNames = append(view.DriverNames, d.DisplayName())
			} else {
				view.DriverNames = append(view.DriverNames, ref)
			}
		}
		views = append(views, view)
	}

	st.SetTeams(views)
	return views
}

// Add assigns the next sequential team id (numbered independently from
// drivers), persists the new document, and returns its key.
func (s *TeamService) Add(ctx context.Context, st *state.State, input TeamInput) (string, error) {
	st.BeginOp()
	defer st.EndOp()

	team, err := s.validate(input)
	if err != nil {
		st.SetError(msgSaveTeam)
		return "", apperr.New(apperr.KindValidation, msgSaveTeam, err)
	}

	maxID, err := s.teams.MaxSequentialID(ctx)
	if err != nil {
		s.log.Error("failed to query max team id", logging.Error(err))
		st.SetError(msgSaveTeam)
		return "", apperr.New(apperr.KindWrite, msgSaveTeam, err)
	}
	team.SequentialID = maxID + 1

	docID, err := s.teams.CreateTeam(ctx, team)
	if err != nil {
		s.log.Error("failed to create team", logging.Error(err))
		st.SetError(msgSaveTeam)
		return "", apperr.New(apperr.KindWrite, msgSaveTeam, err)
	}

	s.log.Info("team added", logging.String("docId", docID), logging.Int64("id", team.SequentialID))
	return docID, nil
}

// Update overwrites the whole document, including the reference set. An empty
// docID aborts before any store call, recorded but silent to the caller.
func (s *TeamService) Update(ctx context.Context, st *state.State, docID string, input TeamInput) error {
	st.BeginOp()
	defer st.EndOp()

	if docID == "" {
		s.log.Error("team update rejected: missing document key")
		st.SetError(msgSaveTeam)
		return nil
	}

	team, err := s.validate(input)
	if err != nil {
		st.SetError(msgSaveTeam)
		return apperr.New(apperr.KindValidation, msgSaveTeam, err)
	}

	if err := s.teams.UpdateTeam(ctx, docID, team); err != nil {
		s.log.Error("failed to update team", logging.String("docId", docID), logging.Error(err))
		st.SetError(msgSaveTeam)
		return apperr.New(apperr.KindWrite, msgSaveTeam, err)
	}

	s.log.Info("team updated", logging.String("docId", docID))
	return nil
}

// Delete removes the team optimistically from the in-memory list, issues the
// remote delete, then re-fetches to reconcile.
func (s *TeamService) Delete(ctx context.Context, st *state.State, docID string) {
	st.BeginOp()
	defer st.EndOp()

	if docID == "" {
		s.log.Error("team delete rejected: missing document key")
		st.SetError(msgDeleteTeam)
		return
	}

	prev := st.Teams()
	st.RemoveTeam(docID)

	if err := s.teams.DeleteTeam(ctx, docID); err != nil {
		s.log.Error("failed to delete team", logging.String("docId", docID), logging.Error(err))
		st.SetError(msgDeleteTeam)
		if s.strictDeletes {
			st.SetTeams(prev)
		}
		return
	}

	s.List(ctx, st)
}

// AvailableDrivers returns the display-name/key pairs the team form offers in
// its driver selection control. Unlike the list operations, a fetch failure
// here is returned to the caller.
func (s *TeamService) AvailableDrivers(ctx context.Context) ([]models.DriverOption, error) {
	drivers, err := s.drivers.ListDrivers(ctx)
	if err != nil {
		s.log.Error("failed to fetch available drivers", logging.Error(err))
		return nil, apperr.New(apperr.KindFetch, msgFetchDrivers, err)
	}

	options := make([]models.DriverOption, 0, len(drivers))
	for _, d := range drivers {
		options = append(options, models.DriverOption{
			DisplayName: d.DisplayName(),
			DocID:       d.DocID,
		})
	}
	return options, nil
}

// Search filters the state's in-memory team list by a case-insensitive
// substring match over the team name.
func (s *TeamService) Search(st *state.State, query string) []models.TeamView {
	teams := st.Teams()
	if query == "" {
		return teams
	}
	matched := teams[:0]
	for _, t := range teams {
		if containsFold(t.Name, query) {
			matched = append(matched, t)
		}
	}
	return matched
}

func (s *TeamService) validate(input TeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("team name is required")
	}
	if !models.ValidCountry(input.Country) {
		return nil, fmt.Errorf("unknown country %q", input.Country)
	}
	refs := input.DriverRefs
	if refs == nil {
		refs = []string{}
	}
	return &models.Team{
		SequentialID: input.SequentialID,
		Name:         input.Name,
		Country:      input.Country,
		DriverRefs:   refs,
	}, nil
}
