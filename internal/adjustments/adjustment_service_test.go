package adjustments

import (
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

type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Insert(tx *goqu.TxDatabase, adjustment *models.StockAdjustment) error {
	args := m.Called(tx, adjustment)
	return args.Error(0)
}

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) ApplyDelta(tx *goqu.TxDatabase, productID, delta int) (int, error) {
	args := m.Called(tx, productID, delta)
	return args.Int(0), args.Error(1)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error {
	args := m.Called(tx, actor, action, resourceType, resourceID, description, photoURL, data)
	return args.Error(0)
}

func newTestService() (*AdjustmentService, *MockAdjustmentRepository, *MockStockLedger, *MockAuditRecorder) {
	adjustmentRepo := new(MockAdjustmentRepository)
	ledger := new(MockStockLedger)
	audit := new(MockAuditRecorder)

	service := NewService(&stubTxRunner{}, adjustmentRepo, ledger, audit)
	return service, adjustmentRepo, ledger, audit
}

var testActor = models.Actor{ID: 1, Username: "admin", Role: "admin"}

func TestRecordAdjustmentValidation(t *testing.T) {
	service, _, _, _ := newTestService()

	_, _, err := service.Record(testActor, RecordAdjustmentRequest{ProductID: 2, QuantityChange: 0, Reason: "damage"})
	assert.True(t, custom_error.IsValidation(err))

	_, _, err = service.Record(testActor, RecordAdjustmentRequest{ProductID: 2, QuantityChange: -5, Reason: "shrinkage"})
	assert.True(t, custom_error.IsValidation(err))
}

func TestRecordAdjustment(t *testing.T) {
	service, adjustmentRepo, ledger, audit := newTestService()

	ledger.On("ApplyDelta", mock.Anything, 2, -5).Return(12, nil).Once()
	adjustmentRepo.On("Insert", mock.Anything, mock.AnythingOfType("*models.StockAdjustment")).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionStockAdjusted, "inventory_item", 2, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	adjustment, warnings, err := service.Record(testActor, RecordAdjustmentRequest{
		ProductID:      2,
		QuantityChange: -5,
		Reason:         models.AdjustmentReasonDamage,
	})

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, -5, adjustment.QuantityChange)
	assert.Equal(t, testActor.Username, adjustment.AdminName)

	adjustmentRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestRecordAdjustmentShortfallWarning(t *testing.T) {
	service, adjustmentRepo, ledger, audit := newTestService()

	ledger.On("ApplyDelta", mock.Anything, 2, -50).Return(-7, nil).Once()
	adjustmentRepo.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionStockAdjusted, "inventory_item", 2, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	_, warnings, err := service.Record(testActor, RecordAdjustmentRequest{
		ProductID:      2,
		QuantityChange: -50,
		Reason:         models.AdjustmentReasonLoss,
	})

	assert.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, models.WarningStockShortfall, warnings[0].Code)
}

func TestLeakageReasons(t *testing.T) {
	assert.True(t, models.IsLeakageReason(models.AdjustmentReasonTheft))
	assert.False(t, models.IsLeakageReason(models.AdjustmentReasonFoundStock))
	assert.False(t, models.IsLeakageReason(models.AdjustmentReasonCorrection))
}
