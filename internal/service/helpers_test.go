package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"confreg/internal/apperrors"
	"confreg/internal/models"
)

// In-memory stores mirroring the repository contracts, including the error
// codes the real transactions produce.

type fakeRegStore struct {
	nextID int64
	regs   map[int64]*models.Registration
}

func newFakeRegStore() *fakeRegStore {
	return &fakeRegStore{regs: make(map[int64]*models.Registration)}
}

func (f *fakeRegStore) Create(_ context.Context, reg *models.Registration) error {
	for _, existing := range f.regs {
		if existing.UserID == reg.UserID && existing.EventID == reg.EventID {
			return apperrors.E(apperrors.KindConflict, apperrors.CodeDuplicateRegistration,
				"user already registered for this event")
		}
	}
	f.nextID++
	reg.ID = f.nextID
	stored := *reg
	f.regs[reg.ID] = &stored
	return nil
}

func (f *fakeRegStore) GetByID(_ context.Context, id int64) (*models.Registration, error) {
	reg, ok := f.regs[id]
	if !ok {
		return nil, nil
	}
	copied := *reg
	return &copied, nil
}

func (f *fakeRegStore) GetByUserID(_ context.Context, userID int64) ([]models.Registration, error) {
	var result []models.Registration
	for _, reg := range f.regs {
		if reg.UserID == userID {
			result = append(result, *reg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeRegStore) Transition(_ context.Context, id int64, apply func(*models.Registration) error) (*models.Registration, error) {
	reg, ok := f.regs[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "registration not found")
	}
	if !models.ValidRegistrationStatus(reg.Status) {
		return nil, apperrors.E(apperrors.KindStorageUnavailable, apperrors.CodeStorageUnavailable,
			"registration row holds a status outside the closed set")
	}
	copied := *reg
	if err := apply(&copied); err != nil {
		return nil, err
	}
	f.regs[id] = &copied
	result := copied
	return &result, nil
}

type fakeEventCatalog struct {
	events map[int64]*models.Event
}

func newFakeEventCatalog(events ...*models.Event) *fakeEventCatalog {
	catalog := &fakeEventCatalog{events: make(map[int64]*models.Event)}
	for _, e := range events {
		catalog.events[e.ID] = e
	}
	return catalog
}

func (f *fakeEventCatalog) GetByID(_ context.Context, id int64) (*models.Event, error) {
	return f.events[id], nil
}

type fakeTeamStore struct {
	nextID  int64
	teams   map[int64]*models.Team
	members map[int64]map[int64]string // teamID -> userID -> status
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{
		teams:   make(map[int64]*models.Team),
		members: make(map[int64]map[int64]string),
	}
}

func (f *fakeTeamStore) Create(_ context.Context, team *models.Team) error {
	for _, existing := range f.teams {
		if existing.EventID == team.EventID && existing.Name == team.Name {
			return apperrors.E(apperrors.KindConflict, apperrors.CodeNameTaken,
				"team name already taken for this event")
		}
	}
	f.nextID++
	team.ID = f.nextID
	stored := *team
	f.teams[team.ID] = &stored
	f.members[team.ID] = map[int64]string{team.LeaderID: models.MemberActive}
	return nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, id int64) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, nil
	}
	copied := *team
	return &copied, nil
}

func (f *fakeTeamStore) AddMember(_ context.Context, teamID, userID int64, _ string) error {
	roster, ok := f.members[teamID]
	if !ok {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "team not found")
	}
	if _, exists := roster[userID]; exists {
		return apperrors.E(apperrors.KindConflict, apperrors.CodeDuplicateMember,
			"user already on the roster")
	}
	active := 0
	for _, status := range roster {
		if status == models.MemberActive {
			active++
		}
	}
	if !models.CanAddTeamMember(active) {
		return apperrors.E(apperrors.KindConflict, apperrors.CodeTeamFull,
			fmt.Sprintf("team already has %d active members", active))
	}
	roster[userID] = models.MemberActive
	return nil
}

func (f *fakeTeamStore) IsActiveMember(_ context.Context, teamID, userID int64) (bool, error) {
	return f.members[teamID][userID] == models.MemberActive, nil
}

func (f *fakeTeamStore) RemoveMember(_ context.Context, teamID, userID int64) error {
	roster, ok := f.members[teamID]
	if !ok {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "team not found")
	}
	if _, exists := roster[userID]; !exists {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "member not found")
	}
	roster[userID] = models.MemberInactive
	return nil
}

type fakePaymentStore struct {
	nextID   int64
	payments map[int64]*models.Payment
	regs     *fakeRegStore
}

func newFakePaymentStore(regs *fakeRegStore) *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[int64]*models.Payment), regs: regs}
}

func (f *fakePaymentStore) Create(_ context.Context, p *models.Payment) error {
	f.nextID++
	p.ID = f.nextID
	stored := *p
	f.payments[p.ID] = &stored
	return nil
}

func (f *fakePaymentStore) GetByID(_ context.Context, id int64) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakePaymentStore) UpdateTarget(_ context.Context, id int64, registrationID, contractID *int64) error {
	probe := &models.Payment{Amount: 1, Method: "probe", RelatedRegistrationID: registrationID, RelatedContractID: contractID}
	if err := probe.ValidateTarget(); err != nil {
		return err
	}
	p, ok := f.payments[id]
	if !ok {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "payment not found")
	}
	p.RelatedRegistrationID = registrationID
	p.RelatedContractID = contractID
	return nil
}

func (f *fakePaymentStore) Complete(_ context.Context, paymentID int64) (*models.Payment, models.ReconcileResult, error) {
	p, ok := f.payments[paymentID]
	if !ok {
		return nil, models.ReconcileResult{}, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "payment not found")
	}

	var reg *models.Registration
	if p.RelatedRegistrationID != nil {
		reg = f.regs.regs[*p.RelatedRegistrationID]
	}

	result := models.ApplyPaymentCompleted(p, reg)
	copied := *p
	return &copied, result, nil
}

type fakeContractStore struct {
	nextID    int64
	contracts map[int64]*models.SponsorshipContract
}

func newFakeContractStore() *fakeContractStore {
	return &fakeContractStore{contracts: make(map[int64]*models.SponsorshipContract)}
}

func (f *fakeContractStore) Create(_ context.Context, c *models.SponsorshipContract) error {
	f.nextID++
	c.ID = f.nextID
	stored := *c
	f.contracts[c.ID] = &stored
	return nil
}

func (f *fakeContractStore) GetByID(_ context.Context, id int64) (*models.SponsorshipContract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeContractStore) Activate(_ context.Context, id int64) (*models.SponsorshipContract, error) {
	c, ok := f.contracts[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "contract not found")
	}
	if c.Status != models.ContractNegotiation {
		return nil, apperrors.E(apperrors.KindInvalidTransition, apperrors.CodeInvalidTransition,
			"only a negotiation contract can be activated")
	}
	c.Status = models.ContractActive
	copied := *c
	return &copied, nil
}

type fakeAccStore struct {
	nextID         int64
	accommodations []models.Accommodation
	requests       map[int64]*models.AccommodationRequest
}

func newFakeAccStore(accommodations ...models.Accommodation) *fakeAccStore {
	return &fakeAccStore{
		accommodations: accommodations,
		requests:       make(map[int64]*models.AccommodationRequest),
	}
}

func (f *fakeAccStore) List(_ context.Context) ([]models.Accommodation, error) {
	return f.accommodations, nil
}

func (f *fakeAccStore) CreateRequest(_ context.Context, req *models.AccommodationRequest) error {
	f.nextID++
	req.ID = f.nextID
	stored := *req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeAccStore) GetRequestByID(_ context.Context, id int64) (*models.AccommodationRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	copied := *req
	return &copied, nil
}

func (f *fakeAccStore) ProcessRequest(_ context.Context, requestID int64, decide models.AllocationDecider) (*models.AccommodationRequest, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "accommodation request not found")
	}
	if req.Status != models.RequestPending {
		return nil, apperrors.E(apperrors.KindConflict, apperrors.CodeAlreadyProcessed,
			"request has already been processed")
	}

	var approved []models.AccommodationRequest
	for _, other := range f.requests {
		if other.Status == models.RequestApproved {
			approved = append(approved, *other)
		}
	}

	decision := decide(req, f.accommodations, approved)
	if decision.Approved {
		req.Status = models.RequestApproved
		accID := decision.AccommodationID
		req.AssignedAccommodationID = &accID
	} else {
		req.Status = models.RequestRejected
	}
	note := decision.Note
	req.Note = &note

	copied := *req
	return &copied, nil
}

func (f *fakeAccStore) CancelRequest(_ context.Context, requestID int64) (*models.AccommodationRequest, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "accommodation request not found")
	}
	req.Status = models.RequestCancelled
	copied := *req
	return &copied, nil
}

// fakeAuthz grants every privilege to the listed actors and denies everyone
// else, mirroring the registry's Forbidden error.
type fakeAuthz struct {
	privileged map[int64]bool
}

func newFakeAuthz(privileged ...int64) *fakeAuthz {
	f := &fakeAuthz{privileged: make(map[int64]bool)}
	for _, id := range privileged {
		f.privileged[id] = true
	}
	return f
}

func (f *fakeAuthz) HasPrivilege(_ context.Context, userID int64, _, _ string) (bool, error) {
	return f.privileged[userID], nil
}

func (f *fakeAuthz) Require(ctx context.Context, userID int64, resource, action string) error {
	ok, _ := f.HasPrivilege(ctx, userID, resource, action)
	if !ok {
		return apperrors.E(apperrors.KindForbidden, apperrors.CodeForbidden,
			"actor lacks privilege for this operation")
	}
	return nil
}

// fakePublisher records every published subject.
type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(subject string, _ interface{}) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
}
