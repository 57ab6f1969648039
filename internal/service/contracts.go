package service

import (
	"context"

	"confreg/internal/identity"
	"confreg/internal/models"
)

// ContractService manages sponsorship contracts. Activation is always an
// explicit call, decoupled from payment completion.
type ContractService struct {
	contracts contractStore
	authz     Authorizer
}

func NewContractService(contracts contractStore, authz Authorizer) *ContractService {
	return &ContractService{contracts: contracts, authz: authz}
}

// Create opens a contract in negotiation.
func (s *ContractService) Create(ctx context.Context, actorID int64, req *models.CreateContractRequest) (*models.CreateContractResponse, error) {
	if err := s.authz.Require(ctx, actorID, identity.ResourceContract, identity.ActionManage); err != nil {
		return nil, err
	}

	c := &models.SponsorshipContract{
		SponsorID:     req.SponsorID,
		PackageID:     req.PackageID,
		CustomLevelID: req.CustomLevelID,
		Amount:        req.Amount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        models.ContractNegotiation,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, err
	}
	return &models.CreateContractResponse{ID: c.ID, Status: c.Status}, nil
}

// Activate moves a contract from negotiation to active.
func (s *ContractService) Activate(ctx context.Context, actorID int64, req *models.ActivateContractRequest) error {
	if err := s.authz.Require(ctx, actorID, identity.ResourceContract, identity.ActionManage); err != nil {
		return err
	}
	_, err := s.contracts.Activate(ctx, req.ContractID)
	return err
}
