package claims

import (
	"errors"
	"testing"

	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubTxRunner struct{}

func (s *stubTxRunner) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockClaimRepository struct {
	mock.Mock
}

func (m *MockClaimRepository) Insert(tx *goqu.TxDatabase, claim *models.Claim) error {
	args := m.Called(tx, claim)
	return args.Error(0)
}

func (m *MockClaimRepository) GetClaim(id int) (*models.Claim, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func (m *MockClaimRepository) GetClaimForUpdate(tx *goqu.TxDatabase, id int) (*models.Claim, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func (m *MockClaimRepository) UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.ClaimStatus, approvedByID *int) (bool, error) {
	args := m.Called(tx, id, from, to, approvedByID)
	return args.Bool(0), args.Error(1)
}

func (m *MockClaimRepository) AppendNote(tx *goqu.TxDatabase, id int, note string) error {
	args := m.Called(tx, id, note)
	return args.Error(0)
}

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) DecreaseStock(tx *goqu.TxDatabase, productID, quantity int) (int, error) {
	args := m.Called(tx, productID, quantity)
	return args.Int(0), args.Error(1)
}

type MockMaterialCounter struct {
	mock.Mock
}

func (m *MockMaterialCounter) IncreaseClaimed(tx *goqu.TxDatabase, projectID, productID, quantity int) (bool, error) {
	args := m.Called(tx, projectID, productID, quantity)
	return args.Bool(0), args.Error(1)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error {
	args := m.Called(tx, actor, action, resourceType, resourceID, description, photoURL, data)
	return args.Error(0)
}

type MockNotificationOutbox struct {
	mock.Mock
}

func (m *MockNotificationOutbox) InsertForRole(tx *goqu.TxDatabase, role, message string, claimID *int) error {
	args := m.Called(tx, role, message, claimID)
	return args.Error(0)
}

type MockNumberGenerator struct {
	mock.Mock
}

func (m *MockNumberGenerator) Next(kind string) (string, error) {
	args := m.Called(kind)
	return args.String(0), args.Error(1)
}

func newTestService() (*ClaimService, *MockClaimRepository, *MockStockLedger, *MockMaterialCounter, *MockAuditRecorder, *MockNotificationOutbox, *MockNumberGenerator) {
	claimRepo := new(MockClaimRepository)
	ledger := new(MockStockLedger)
	materials := new(MockMaterialCounter)
	audit := new(MockAuditRecorder)
	outbox := new(MockNotificationOutbox)
	numbers := new(MockNumberGenerator)

	service := NewService(&stubTxRunner{}, claimRepo, ledger, materials, audit, outbox, numbers)
	return service, claimRepo, ledger, materials, audit, outbox, numbers
}

var testActor = models.Actor{ID: 7, Username: "magazynier", Role: "warehouse"}

func TestSubmitClaimValidation(t *testing.T) {
	service, _, _, _, _, _, _ := newTestService()

	_, err := service.Submit(testActor, SubmitClaimRequest{ProjectID: 1, PhotoURL: "https://img/1.jpg"})
	assert.True(t, custom_error.IsValidation(err))

	_, err = service.Submit(testActor, SubmitClaimRequest{
		ProjectID: 1,
		PhotoURL:  "https://img/1.jpg",
		Items:     []SubmitClaimItem{{ProductID: 2, Quantity: 0}},
	})
	assert.True(t, custom_error.IsValidation(err))

	_, err = service.Submit(testActor, SubmitClaimRequest{
		ProjectID: 1,
		Items:     []SubmitClaimItem{{ProductID: 2, Quantity: 3}},
	})
	assert.True(t, custom_error.IsValidation(err))

	_, err = service.Submit(testActor, SubmitClaimRequest{
		ProjectID: 1,
		PhotoURL:  "https://img/1.jpg",
		ClaimType: "urgent",
		Items:     []SubmitClaimItem{{ProductID: 2, Quantity: 3}},
	})
	assert.True(t, custom_error.IsValidation(err))
}

func TestSubmitClaim(t *testing.T) {
	service, claimRepo, _, _, audit, _, numbers := newTestService()

	numbers.On("Next", "claim").Return("CLM-000042", nil).Once()
	claimRepo.On("Insert", mock.Anything, mock.AnythingOfType("*models.Claim")).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionClaimInitiated, "claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	claim, err := service.Submit(testActor, SubmitClaimRequest{
		ProjectID: 3,
		PhotoURL:  "https://img/claim.jpg",
		Items:     []SubmitClaimItem{{ProductID: 2, Quantity: 5}},
	})

	assert.NoError(t, err)
	assert.Equal(t, "CLM-000042", claim.ClaimNumber)
	assert.Equal(t, models.ClaimStatusPending, claim.Status)
	assert.Equal(t, models.ClaimTypeStandard, claim.ClaimType)
	assert.Equal(t, testActor.ID, claim.RequestedByID)

	claimRepo.AssertExpectations(t)
	numbers.AssertExpectations(t)
}

func TestSubmitClaimUnknownProduct(t *testing.T) {
	service, claimRepo, _, _, _, _, numbers := newTestService()

	numbers.On("Next", "claim").Return("CLM-000043", nil).Once()
	claimRepo.On("Insert", mock.Anything, mock.Anything).
		Return(custom_error.WrapRefError("product referenced by claim item", "23503")).Once()

	_, err := service.Submit(testActor, SubmitClaimRequest{
		ProjectID: 3,
		PhotoURL:  "https://img/claim.jpg",
		Items:     []SubmitClaimItem{{ProductID: 9999, Quantity: 1}},
	})

	assert.True(t, custom_error.IsNotFound(err))
}

func TestApproveClaim(t *testing.T) {
	service, claimRepo, ledger, materials, audit, outbox, _ := newTestService()

	pending := &models.Claim{
		ID:          10,
		ClaimNumber: "CLM-000010",
		ProjectID:   3,
		Status:      models.ClaimStatusPending,
		Items: []models.ClaimItem{
			{ProductID: 2, Quantity: 5},
			{ProductID: 4, Quantity: 1},
		},
	}

	claimRepo.On("GetClaimForUpdate", mock.Anything, 10).Return(pending, nil).Once()
	claimRepo.On("UpdateStatus", mock.Anything, 10, models.ClaimStatusPending, models.ClaimStatusApproved, mock.Anything).Return(true, nil).Once()
	ledger.On("DecreaseStock", mock.Anything, 2, 5).Return(15, nil).Once()
	ledger.On("DecreaseStock", mock.Anything, 4, 1).Return(3, nil).Once()
	materials.On("IncreaseClaimed", mock.Anything, 3, 2, 5).Return(true, nil).Once()
	materials.On("IncreaseClaimed", mock.Anything, 3, 4, 1).Return(true, nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionClaimApproved, "claim", 10, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	outbox.On("InsertForRole", mock.Anything, "admin", mock.Anything, mock.Anything).Return(nil).Once()

	claim, warnings, err := service.Approve(10, testActor)

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, claim.Status)
	assert.Empty(t, warnings)

	claimRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
	materials.AssertExpectations(t)
	outbox.AssertExpectations(t)
}

func TestApproveClaimWarnings(t *testing.T) {
	service, claimRepo, ledger, materials, audit, outbox, _ := newTestService()

	pending := &models.Claim{
		ID:          11,
		ClaimNumber: "CLM-000011",
		ProjectID:   3,
		Status:      models.ClaimStatusPending,
		Items:       []models.ClaimItem{{ProductID: 2, Quantity: 50}},
	}

	claimRepo.On("GetClaimForUpdate", mock.Anything, 11).Return(pending, nil).Once()
	claimRepo.On("UpdateStatus", mock.Anything, 11, models.ClaimStatusPending, models.ClaimStatusApproved, mock.Anything).Return(true, nil).Once()
	ledger.On("DecreaseStock", mock.Anything, 2, 50).Return(-8, nil).Once()
	materials.On("IncreaseClaimed", mock.Anything, 3, 2, 50).Return(false, nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionClaimApproved, "claim", 11, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	outbox.On("InsertForRole", mock.Anything, "admin", mock.Anything, mock.Anything).Return(nil).Once()

	_, warnings, err := service.Approve(11, testActor)

	assert.NoError(t, err)
	assert.Len(t, warnings, 2)
	assert.Equal(t, models.WarningStockShortfall, warnings[0].Code)
	assert.Equal(t, models.WarningBOMDrift, warnings[1].Code)
}

func TestApproveClaimNotPending(t *testing.T) {
	service, claimRepo, _, _, _, _, _ := newTestService()

	approved := &models.Claim{ID: 12, Status: models.ClaimStatusApproved}

	claimRepo.On("GetClaimForUpdate", mock.Anything, 12).Return(approved, nil).Once()
	claimRepo.On("UpdateStatus", mock.Anything, 12, models.ClaimStatusPending, models.ClaimStatusApproved, mock.Anything).Return(false, nil).Once()

	_, _, err := service.Approve(12, testActor)

	assert.True(t, custom_error.IsInvalidTransition(err))
}

func TestApproveClaimRollsBackOnLedgerError(t *testing.T) {
	service, claimRepo, ledger, _, _, _, _ := newTestService()

	pending := &models.Claim{
		ID:     13,
		Status: models.ClaimStatusPending,
		Items:  []models.ClaimItem{{ProductID: 2, Quantity: 5}},
	}

	claimRepo.On("GetClaimForUpdate", mock.Anything, 13).Return(pending, nil).Once()
	claimRepo.On("UpdateStatus", mock.Anything, 13, models.ClaimStatusPending, models.ClaimStatusApproved, mock.Anything).Return(true, nil).Once()
	ledger.On("DecreaseStock", mock.Anything, 2, 5).Return(0, errors.New("connection reset")).Once()

	_, _, err := service.Approve(13, testActor)

	assert.Error(t, err)
	ledger.AssertExpectations(t)
}

func TestDenyClaim(t *testing.T) {
	service, claimRepo, ledger, _, audit, outbox, _ := newTestService()

	pending := &models.Claim{
		ID:          14,
		ClaimNumber: "CLM-000014",
		ProjectID:   3,
		Status:      models.ClaimStatusPending,
		Items:       []models.ClaimItem{{ProductID: 2, Quantity: 5}},
	}

	claimRepo.On("GetClaimForUpdate", mock.Anything, 14).Return(pending, nil).Once()
	claimRepo.On("UpdateStatus", mock.Anything, 14, models.ClaimStatusPending, models.ClaimStatusDenied, mock.Anything).Return(true, nil).Once()
	claimRepo.On("AppendNote", mock.Anything, 14, "Denied: quantities look wrong").Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionClaimDenied, "claim", 14, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	outbox.On("InsertForRole", mock.Anything, "admin", mock.Anything, mock.Anything).Return(nil).Once()

	claim, err := service.Deny(14, testActor, "quantities look wrong")

	assert.NoError(t, err)
	assert.Equal(t, models.ClaimStatusDenied, claim.Status)

	// Denial must not touch stock.
	ledger.AssertNotCalled(t, "DecreaseStock", mock.Anything, mock.Anything, mock.Anything)
	claimRepo.AssertExpectations(t)
}
