package service

import (
	"context"

	"confreg/internal/apperrors"
	"confreg/internal/identity"
	"confreg/internal/models"
)

// TeamService owns team rosters. Creation seats the leader as the first
// active member; the roster is bounded by MaxActiveTeamMembers.
type TeamService struct {
	teams  teamStore
	events eventCatalog
	authz  Authorizer
	nats   Publisher
}

func NewTeamService(teams teamStore, events eventCatalog, authz Authorizer, nats Publisher) *TeamService {
	return &TeamService{
		teams:  teams,
		events: events,
		authz:  authz,
		nats:   nats,
	}
}

// Create registers a new team for an event; the caller becomes its leader.
func (s *TeamService) Create(ctx context.Context, leaderID int64, req *models.CreateTeamRequest) (*models.CreateTeamResponse, error) {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeEventNotFound, "event not found")
	}
	if event.Type == models.EventTypeIndividual {
		return nil, apperrors.E(apperrors.KindValidation, apperrors.CodeMissingField,
			"event does not accept teams")
	}

	team := &models.Team{
		Name:     req.Name,
		EventID:  req.EventID,
		LeaderID: leaderID,
		Status:   models.TeamActive,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}

	return &models.CreateTeamResponse{ID: team.ID}, nil
}

// AddMember adds a user to the roster. Only the leader or a privileged
// actor may do so; the active-member bound is enforced in the store's
// transaction.
func (s *TeamService) AddMember(ctx context.Context, actorID int64, req *models.AddTeamMemberRequest) error {
	team, err := s.teams.GetByID(ctx, req.TeamID)
	if err != nil {
		return err
	}
	if team == nil {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "team not found")
	}

	if team.LeaderID != actorID {
		if err := s.authz.Require(ctx, actorID, identity.ResourceTeam, identity.ActionManage); err != nil {
			return err
		}
	}

	role := req.Role
	if role == "" {
		role = models.MemberRoleMember
	}
	return s.teams.AddMember(ctx, req.TeamID, req.UserID, role)
}

// RemoveMember marks a roster member inactive. The leader cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, actorID int64, teamID, userID int64) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "team not found")
	}
	if team.LeaderID == userID {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeMissingField,
			"team leader cannot be removed from the roster")
	}

	if team.LeaderID != actorID && userID != actorID {
		if err := s.authz.Require(ctx, actorID, identity.ResourceTeam, identity.ActionManage); err != nil {
			return err
		}
	}
	return s.teams.RemoveMember(ctx, teamID, userID)
}
