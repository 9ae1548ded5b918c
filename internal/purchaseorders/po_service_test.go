package purchaseorders

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

type MockPORepository struct {
	mock.Mock
}

func (m *MockPORepository) Insert(tx *goqu.TxDatabase, po *models.PurchaseOrder) error {
	args := m.Called(tx, po)
	return args.Error(0)
}

func (m *MockPORepository) GetPurchaseOrder(id int) (*models.PurchaseOrder, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPORepository) GetForUpdate(tx *goqu.TxDatabase, id int) (*models.PurchaseOrder, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PurchaseOrder), args.Error(1)
}

func (m *MockPORepository) IncreaseReceived(tx *goqu.TxDatabase, itemID, quantity int) (int, error) {
	args := m.Called(tx, itemID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockPORepository) SetReceivedTo(tx *goqu.TxDatabase, itemID, quantity int) error {
	args := m.Called(tx, itemID, quantity)
	return args.Error(0)
}

func (m *MockPORepository) UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.POStatus) (bool, error) {
	args := m.Called(tx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockPORepository) SetStatus(tx *goqu.TxDatabase, id int, to models.POStatus) error {
	args := m.Called(tx, id, to)
	return args.Error(0)
}

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) IncreaseStock(tx *goqu.TxDatabase, productID, quantity int) error {
	args := m.Called(tx, productID, quantity)
	return args.Error(0)
}

func (m *MockStockLedger) DecreaseStock(tx *goqu.TxDatabase, productID, quantity int) (int, error) {
	args := m.Called(tx, productID, quantity)
	return args.Int(0), args.Error(1)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error {
	args := m.Called(tx, actor, action, resourceType, resourceID, description, photoURL, data)
	return args.Error(0)
}

type MockNumberGenerator struct {
	mock.Mock
}

func (m *MockNumberGenerator) Next(kind string) (string, error) {
	args := m.Called(kind)
	return args.String(0), args.Error(1)
}

func newTestService() (*POService, *MockPORepository, *MockStockLedger, *MockAuditRecorder, *MockNumberGenerator) {
	poRepo := new(MockPORepository)
	ledger := new(MockStockLedger)
	audit := new(MockAuditRecorder)
	numbers := new(MockNumberGenerator)

	service := NewService(&stubTxRunner{}, poRepo, ledger, audit, numbers)
	return service, poRepo, ledger, audit, numbers
}

var testActor = models.Actor{ID: 3, Username: "kierownik", Role: "warehouse"}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name     string
		current  models.POStatus
		ordered  int
		received int
		expected models.POStatus
	}{
		{"nothing received yet", models.POStatusSent, 10, 0, models.POStatusSent},
		{"partial delivery", models.POStatusSent, 10, 4, models.POStatusPartial},
		{"exact delivery", models.POStatusPartial, 10, 10, models.POStatusReceived},
		{"over delivery", models.POStatusSent, 10, 12, models.POStatusReceived},
		{"in transit partial", models.POStatusInTransit, 10, 4, models.POStatusPartial},
		{"zero ordered stays put", models.POStatusSent, 0, 0, models.POStatusSent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveStatus(tc.current, tc.ordered, tc.received))
		})
	}
}

func TestCreatePurchaseOrderValidation(t *testing.T) {
	service, _, _, _, _ := newTestService()

	_, err := service.Create(testActor, CreatePORequest{Supplier: "Stalex"})
	assert.True(t, custom_error.IsValidation(err))

	_, err = service.Create(testActor, CreatePORequest{
		Supplier: "Stalex",
		Items:    []CreatePOItem{{ProductID: 1, QuantityOrdered: 0}},
	})
	assert.True(t, custom_error.IsValidation(err))
}

func TestReceiveMovesToPartialThenReceived(t *testing.T) {
	service, poRepo, ledger, audit, _ := newTestService()

	po := &models.PurchaseOrder{
		ID:       20,
		PONumber: "PO-000020",
		Status:   models.POStatusSent,
		Items: []models.PurchaseOrderItem{
			{ID: 201, ProductID: 2, QuantityOrdered: 10, QuantityReceived: 0},
		},
	}

	poRepo.On("GetForUpdate", mock.Anything, 20).Return(po, nil).Once()
	poRepo.On("IncreaseReceived", mock.Anything, 201, 4).Return(4, nil).Once()
	ledger.On("IncreaseStock", mock.Anything, 2, 4).Return(nil).Once()
	poRepo.On("SetStatus", mock.Anything, 20, models.POStatusPartial).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionPOReceived, "purchase_order", 20, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, warnings, err := service.Receive(20, testActor, []ReceiveLine{{ItemID: 201, Quantity: 4}})

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, models.POStatusPartial, got.Status)

	// Second delivery completes the order.
	po2 := &models.PurchaseOrder{
		ID:       20,
		PONumber: "PO-000020",
		Status:   models.POStatusPartial,
		Items: []models.PurchaseOrderItem{
			{ID: 201, ProductID: 2, QuantityOrdered: 10, QuantityReceived: 4},
		},
	}

	poRepo.On("GetForUpdate", mock.Anything, 20).Return(po2, nil).Once()
	poRepo.On("IncreaseReceived", mock.Anything, 201, 6).Return(10, nil).Once()
	ledger.On("IncreaseStock", mock.Anything, 2, 6).Return(nil).Once()
	poRepo.On("SetStatus", mock.Anything, 20, models.POStatusReceived).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionPOReceived, "purchase_order", 20, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, warnings, err = service.Receive(20, testActor, []ReceiveLine{{ItemID: 201, Quantity: 6}})

	assert.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, models.POStatusReceived, got.Status)

	poRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestReceiveOverDelivery(t *testing.T) {
	service, poRepo, ledger, audit, _ := newTestService()

	po := &models.PurchaseOrder{
		ID:       21,
		PONumber: "PO-000021",
		Status:   models.POStatusSent,
		Items: []models.PurchaseOrderItem{
			{ID: 211, ProductID: 2, QuantityOrdered: 10, QuantityReceived: 0},
		},
	}

	poRepo.On("GetForUpdate", mock.Anything, 21).Return(po, nil).Once()
	poRepo.On("IncreaseReceived", mock.Anything, 211, 13).Return(13, nil).Once()
	ledger.On("IncreaseStock", mock.Anything, 2, 13).Return(nil).Once()
	poRepo.On("SetStatus", mock.Anything, 21, models.POStatusReceived).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionPOReceived, "purchase_order", 21, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, warnings, err := service.Receive(21, testActor, []ReceiveLine{{ItemID: 211, Quantity: 13}})

	assert.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Equal(t, models.WarningOverDelivery, warnings[0].Code)
	assert.Equal(t, models.POStatusReceived, got.Status)
}

func TestReceiveRejectsDraftAndCancelled(t *testing.T) {
	service, poRepo, _, _, _ := newTestService()

	for _, status := range []models.POStatus{models.POStatusDraft, models.POStatusCancelled} {
		po := &models.PurchaseOrder{ID: 22, Status: status}
		poRepo.On("GetForUpdate", mock.Anything, 22).Return(po, nil).Once()

		_, _, err := service.Receive(22, testActor, []ReceiveLine{{ItemID: 1, Quantity: 1}})
		assert.True(t, custom_error.IsInvalidTransition(err), "status %s", status)
	}
}

func TestReceiveUnknownLine(t *testing.T) {
	service, poRepo, _, _, _ := newTestService()

	po := &models.PurchaseOrder{
		ID:     23,
		Status: models.POStatusSent,
		Items:  []models.PurchaseOrderItem{{ID: 231, ProductID: 2, QuantityOrdered: 10}},
	}
	poRepo.On("GetForUpdate", mock.Anything, 23).Return(po, nil).Once()

	_, _, err := service.Receive(23, testActor, []ReceiveLine{{ItemID: 999, Quantity: 1}})
	assert.True(t, custom_error.IsNotFound(err))
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	service, poRepo, _, _, _ := newTestService()

	po := &models.PurchaseOrder{ID: 24, Status: models.POStatusReceived}
	poRepo.On("GetForUpdate", mock.Anything, 24).Return(po, nil).Once()

	_, err := service.Transition(24, testActor, models.POStatusCancelled)
	assert.True(t, custom_error.IsInvalidTransition(err))
}

func TestTransitionRejectsDerivedStatuses(t *testing.T) {
	service, _, _, _, _ := newTestService()

	_, err := service.Transition(25, testActor, models.POStatusReceived)
	assert.True(t, custom_error.IsValidation(err))

	_, err = service.Transition(25, testActor, models.POStatusPartial)
	assert.True(t, custom_error.IsValidation(err))
}

func TestCompleteQASplitMustCoverOrder(t *testing.T) {
	service, poRepo, _, _, _ := newTestService()

	po := &models.PurchaseOrder{
		ID:     26,
		Status: models.POStatusSent,
		Items:  []models.PurchaseOrderItem{{ID: 261, ProductID: 2, QuantityOrdered: 10}},
	}
	poRepo.On("GetForUpdate", mock.Anything, 26).Return(po, nil).Once()

	_, err := service.CompleteQA(26, testActor, 6, 3, "https://img/qa.jpg")
	assert.True(t, custom_error.IsValidation(err))
}

func TestCompleteQARequiresPhoto(t *testing.T) {
	service, _, _, _, _ := newTestService()

	_, err := service.CompleteQA(27, testActor, 6, 4, "")
	assert.True(t, custom_error.IsValidation(err))
}

func TestCompleteQAAllocatesGoodUnitsAcrossLines(t *testing.T) {
	service, poRepo, ledger, audit, _ := newTestService()

	po := &models.PurchaseOrder{
		ID:       28,
		PONumber: "PO-000028",
		Status:   models.POStatusSent,
		Items: []models.PurchaseOrderItem{
			{ID: 281, ProductID: 2, QuantityOrdered: 6},
			{ID: 282, ProductID: 4, QuantityOrdered: 4},
		},
	}

	poRepo.On("GetForUpdate", mock.Anything, 28).Return(po, nil).Once()
	poRepo.On("SetReceivedTo", mock.Anything, 281, 6).Return(nil).Once()
	poRepo.On("SetReceivedTo", mock.Anything, 282, 4).Return(nil).Once()
	// 7 good units: the first line absorbs 6, the second gets the last one.
	ledger.On("IncreaseStock", mock.Anything, 2, 6).Return(nil).Once()
	ledger.On("IncreaseStock", mock.Anything, 4, 1).Return(nil).Once()
	poRepo.On("SetStatus", mock.Anything, 28, models.POStatusReceived).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionPOQACompleted, "purchase_order", 28, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := service.CompleteQA(28, testActor, 7, 3, "https://img/qa.jpg")

	assert.NoError(t, err)
	assert.Equal(t, models.POStatusReceived, got.Status)

	poRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestCompleteQAAfterPartialReceiptCreditsOnlyTheRemainder(t *testing.T) {
	service, poRepo, ledger, audit, _ := newTestService()

	po := &models.PurchaseOrder{
		ID:       29,
		PONumber: "PO-000029",
		Status:   models.POStatusPartial,
		Items: []models.PurchaseOrderItem{
			{ID: 291, ProductID: 2, QuantityOrdered: 20, QuantityReceived: 12},
		},
	}

	poRepo.On("GetForUpdate", mock.Anything, 29).Return(po, nil).Once()
	poRepo.On("SetReceivedTo", mock.Anything, 291, 20).Return(nil).Once()
	// 12 units already entered stock through the plain receipt; only the
	// missing 8 may be credited now.
	ledger.On("IncreaseStock", mock.Anything, 2, 8).Return(nil).Once()
	poRepo.On("SetStatus", mock.Anything, 29, models.POStatusReceived).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionPOQACompleted, "purchase_order", 29, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := service.CompleteQA(29, testActor, 20, 0, "https://img/qa.jpg")

	assert.NoError(t, err)
	assert.Equal(t, models.POStatusReceived, got.Status)

	poRepo.AssertExpectations(t)
	ledger.AssertExpectations(t)
	ledger.AssertNotCalled(t, "IncreaseStock", mock.Anything, 2, 20)
}

func TestCompleteQARemovesStockedUnitsThatFailedInspection(t *testing.T) {
	service, poRepo, ledger, audit, _ := newTestService()

	po := &models.PurchaseOrder{
		ID:       30,
		PONumber: "PO-000030",
		Status:   models.POStatusPartial,
		Items: []models.PurchaseOrderItem{
			{ID: 301, ProductID: 2, QuantityOrdered: 20, QuantityReceived: 12},
		},
	}

	poRepo.On("GetForUpdate", mock.Anything, 30).Return(po, nil).Once()
	poRepo.On("SetReceivedTo", mock.Anything, 301, 20).Return(nil).Once()
	// Only 10 of the 12 stocked units passed inspection.
	ledger.On("DecreaseStock", mock.Anything, 2, 2).Return(10, nil).Once()
	poRepo.On("SetStatus", mock.Anything, 30, models.POStatusReceived).Return(nil).Once()
	audit.On("Record", mock.Anything, testActor, models.ActionPOQACompleted, "purchase_order", 30, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	got, err := service.CompleteQA(30, testActor, 10, 10, "https://img/qa.jpg")

	assert.NoError(t, err)
	assert.Equal(t, models.POStatusReceived, got.Status)

	ledger.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
	ledger.AssertExpectations(t)
}
