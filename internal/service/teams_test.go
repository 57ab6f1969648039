package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confreg/internal/apperrors"
	"confreg/internal/models"
)

func teamEventCatalog() *fakeEventCatalog {
	return newFakeEventCatalog(
		&models.Event{ID: 1, Title: "Hackathon", Type: models.EventTypeTeam, Status: "published"},
		&models.Event{ID: 2, Title: "Talk", Type: models.EventTypeIndividual, Status: "published"},
	)
}

func TestCreateTeam(t *testing.T) {
	teams := newFakeTeamStore()
	s := NewTeamService(teams, teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	resp, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)

	team, _ := teams.GetByID(context.Background(), resp.ID)
	assert.Equal(t, int64(7), team.LeaderID)
	assert.Equal(t, models.TeamActive, team.Status)

	// The leader is seated as the first active member.
	active, _ := teams.IsActiveMember(context.Background(), resp.ID, 7)
	assert.True(t, active)
}

func TestCreateTeamRejectsIndividualEvent(t *testing.T) {
	s := NewTeamService(newFakeTeamStore(), teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	_, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 2})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCreateTeamNameTaken(t *testing.T) {
	s := NewTeamService(newFakeTeamStore(), teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	_, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)

	_, err = s.Create(context.Background(), 8, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	assert.Equal(t, apperrors.CodeNameTaken, apperrors.CodeOf(err))
}

func TestAddTeamMemberBound(t *testing.T) {
	teams := newFakeTeamStore()
	s := NewTeamService(teams, teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	resp, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)

	// Leader fills the roster to three active members.
	require.NoError(t, s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 8}))
	require.NoError(t, s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 9}))

	err = s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 10})
	assert.Equal(t, apperrors.CodeTeamFull, apperrors.CodeOf(err))
}

func TestAddTeamMemberAfterRemovalFreesSlot(t *testing.T) {
	teams := newFakeTeamStore()
	s := NewTeamService(teams, teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	resp, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)

	require.NoError(t, s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 8}))
	require.NoError(t, s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 9}))
	require.NoError(t, s.RemoveMember(context.Background(), 7, resp.ID, 9))

	err = s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 10})
	assert.NoError(t, err)
}

func TestAddTeamMemberDuplicate(t *testing.T) {
	s := NewTeamService(newFakeTeamStore(), teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	resp, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)

	require.NoError(t, s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 8}))

	err = s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 8})
	assert.Equal(t, apperrors.CodeDuplicateMember, apperrors.CodeOf(err))
}

func TestAddTeamMemberOnlyLeaderOrPrivileged(t *testing.T) {
	s := NewTeamService(newFakeTeamStore(), teamEventCatalog(), newFakeAuthz(99), &fakePublisher{})

	resp, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)

	err = s.AddMember(context.Background(), 8, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 9})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	err = s.AddMember(context.Background(), 99, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 9})
	assert.NoError(t, err)
}

func TestRemoveTeamMemberLeaderProtected(t *testing.T) {
	s := NewTeamService(newFakeTeamStore(), teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	resp, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)

	err = s.RemoveMember(context.Background(), 7, resp.ID, 7)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestRemoveTeamMemberSelf(t *testing.T) {
	teams := newFakeTeamStore()
	s := NewTeamService(teams, teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	resp, err := s.Create(context.Background(), 7, &models.CreateTeamRequest{Name: "Gophers", EventID: 1})
	require.NoError(t, err)
	require.NoError(t, s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: resp.ID, UserID: 8}))

	// Members may leave on their own.
	err = s.RemoveMember(context.Background(), 8, resp.ID, 8)
	require.NoError(t, err)

	active, _ := teams.IsActiveMember(context.Background(), resp.ID, 8)
	assert.False(t, active)
}

func TestTeamNotFound(t *testing.T) {
	s := NewTeamService(newFakeTeamStore(), teamEventCatalog(), newFakeAuthz(), &fakePublisher{})

	err := s.AddMember(context.Background(), 7, &models.AddTeamMemberRequest{TeamID: 404, UserID: 8})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
