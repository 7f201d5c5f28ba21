package menuflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/cart"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/productflow"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/catalog"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/pkg/logger"
)

// MockCatalog mocks the catalog side of the order service.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetProductByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalog) GetVariantsByProductID(ctx context.Context, id int64) ([]catalog.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockCatalog) GetAddOnPagesByProductID(ctx context.Context, id int64) ([]catalog.AddOnPage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.AddOnPage), args.Error(1)
}

func (m *MockCatalog) GetGroups(ctx context.Context) ([]catalog.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Group), args.Error(1)
}

func (m *MockCatalog) GetMenuPages(ctx context.Context) ([]catalog.MenuPage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.MenuPage), args.Error(1)
}

func (m *MockCatalog) GetMenuPageAssociations(ctx context.Context, menuID int64) ([]catalog.PageAssociation, error) {
	args := m.Called(ctx, menuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.PageAssociation), args.Error(1)
}

func (m *MockCatalog) GetMenuPageProducts(ctx context.Context, pageID int64) ([]catalog.PageProduct, error) {
	args := m.Called(ctx, pageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.PageProduct), args.Error(1)
}

func (m *MockCatalog) GetAllProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockCatalog) GetMenuByID(ctx context.Context, id int64) (*catalog.Menu, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Menu), args.Error(1)
}

// MockOrderGateway mocks the mutation side of the order service.
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) SaveOrder(ctx context.Context, item order.OrderItem) (order.Order, int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderGateway) AddItemToOrder(ctx context.Context, orderID int64, item order.OrderItem) (int64, error) {
	args := m.Called(ctx, orderID, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderGateway) UpdateOrderItem(ctx context.Context, itemID int64, item order.OrderItem) error {
	args := m.Called(ctx, itemID, item)
	return args.Error(0)
}

func (m *MockOrderGateway) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	args := m.Called(ctx, itemID, quantity)
	return args.Error(0)
}

func (m *MockOrderGateway) RemoveItemFromOrder(ctx context.Context, orderID, itemID int64) error {
	args := m.Called(ctx, orderID, itemID)
	return args.Error(0)
}

func (m *MockOrderGateway) RemoveMenuFromOrder(ctx context.Context, orderID, menuID int64, secondaryID int) error {
	args := m.Called(ctx, orderID, menuID, secondaryID)
	return args.Error(0)
}

func (m *MockOrderGateway) RemoveMenuItemFromOrder(ctx context.Context, orderID, menuID int64, secondaryID int, productID, pageID int64) error {
	args := m.Called(ctx, orderID, menuID, secondaryID, productID, pageID)
	return args.Error(0)
}

func (m *MockOrderGateway) UpdateMenuQuantity(ctx context.Context, orderID, menuID int64, secondaryID, quantity int) error {
	args := m.Called(ctx, orderID, menuID, secondaryID, quantity)
	return args.Error(0)
}

func newFixture(t *testing.T) (*Workflow, *MockCatalog, *MockOrderGateway, *cart.Service) {
	t.Helper()
	catalogGW := new(MockCatalog)
	orderGW := new(MockOrderGateway)
	log, err := logger.NewZapLogger("development")
	require.NoError(t, err)

	cartSvc := cart.NewService(orderGW, nil, log)
	products := productflow.NewWorkflow(catalogGW, cartSvc, log)
	return NewWorkflow(catalogGW, cartSvc, products, log), catalogGW, orderGW, cartSvc
}

// stubLunchDeal wires menu 5 "Lunch Deal" (9.90 incl. 10% tax) with two
// pages: Mains (min 1, max 1; products 10 and 11) and Sides (min 0,
// max 2; products 20 and 21).
func stubLunchDeal(catalogGW *MockCatalog) {
	catalogGW.On("GetMenuByID", mock.Anything, int64(5)).
		Return(&catalog.Menu{ID: 5, Name: "Lunch Deal", Price: 9.90, Tax: 10}, nil)
	catalogGW.On("GetMenuPageAssociations", mock.Anything, int64(5)).
		Return([]catalog.PageAssociation{
			{MenuID: 5, PageID: 2, Minimum: 0, Maximum: 2, Priority: 1},
			{MenuID: 5, PageID: 1, Minimum: 1, Maximum: 1, Priority: 0},
		}, nil)
	catalogGW.On("GetMenuPages", mock.Anything).
		Return([]catalog.MenuPage{
			{ID: 1, Name: "Mains"},
			{ID: 2, Name: "Sides"},
		}, nil)
	catalogGW.On("GetMenuPageProducts", mock.Anything, int64(1)).
		Return([]catalog.PageProduct{
			{ProductID: 10, Name: "Burger", Supplement: 0, Priority: 0},
			{ProductID: 11, Name: "Wrap", Supplement: 1.50, Priority: 1},
		}, nil)
	catalogGW.On("GetMenuPageProducts", mock.Anything, int64(2)).
		Return([]catalog.PageProduct{
			{ProductID: 20, Name: "Fries", Supplement: 0, Priority: 0},
			{ProductID: 21, Name: "Salad", Supplement: 0.50, Priority: 1},
		}, nil)
}

func stubSlotProduct(catalogGW *MockCatalog, productID int64, name string) {
	catalogGW.On("GetProductByID", mock.Anything, productID).
		Return(&catalog.Product{ID: productID, Name: name, Price: 5.50, Tax: 10}, nil)
	catalogGW.On("GetVariantsByProductID", mock.Anything, productID).
		Return([]catalog.Variant{}, nil)
	catalogGW.On("GetAddOnPagesByProductID", mock.Anything, productID).
		Return([]catalog.AddOnPage{}, nil)
}

func confirmSlot(t *testing.T, s *Session, productID int64) order.OrderItem {
	t.Helper()
	ps, err := s.SelectProduct(context.Background(), productID)
	require.NoError(t, err)
	item, err := s.ConfirmSlot(context.Background(), ps)
	require.NoError(t, err)
	return item
}

func TestWorkflow_Start_OrdersPagesByAssociationPriority(t *testing.T) {
	wf, catalogGW, _, _ := newFixture(t)
	stubLunchDeal(catalogGW)

	s, err := wf.Start(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, s.Pages(), 2)
	assert.Equal(t, "Mains", s.Pages()[0].Meta.Name)
	assert.Equal(t, "Sides", s.Pages()[1].Meta.Name)
	assert.Equal(t, 1, s.Pages()[0].Max)
	assert.Equal(t, 2, s.Pages()[1].Max)
	assert.Equal(t, 0, s.SecondaryID())
}

func TestWorkflow_Start_AllocatesNextSecondaryID(t *testing.T) {
	wf, catalogGW, orderGW, _ := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 10, "Burger")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()

	first, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 0, first.SecondaryID())
	confirmSlot(t, first, 10)
	require.NoError(t, first.Complete())

	second, err := wf.Start(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 1, second.SecondaryID())
}

func TestSession_ConfirmSlot_TagsLineWithMenuContext(t *testing.T) {
	wf, catalogGW, orderGW, cartSvc := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 11, "Wrap")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)

	item := confirmSlot(t, s, 11)

	assert.Equal(t, int64(5), item.MenuID)
	assert.Equal(t, "Lunch Deal", item.MenuName)
	assert.Equal(t, 9.00, item.MenuPrice)
	assert.Equal(t, 0.90, item.MenuTax)
	assert.Equal(t, int64(1), item.MenuPageID)
	assert.Equal(t, 1.50, item.Supplement)
	assert.Equal(t, 0, item.MenuSecondaryID)
	assert.True(t, s.IsProcessed(11))
	assert.Len(t, cartSvc.Items(), 1)
}

func TestSession_SelectProduct_PageAtMaximum(t *testing.T) {
	wf, catalogGW, orderGW, _ := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 10, "Burger")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)
	confirmSlot(t, s, 10)

	_, err = s.SelectProduct(context.Background(), 11)

	assert.ErrorIs(t, err, ErrPageFull)
}

func TestSession_SelectProduct_AlreadyConfigured(t *testing.T) {
	wf, catalogGW, orderGW, _ := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 10, "Burger")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)
	confirmSlot(t, s, 10)

	_, err = s.SelectProduct(context.Background(), 10)

	assert.ErrorIs(t, err, ErrAlreadyConfigured)
}

func TestSession_SelectProduct_NotOnPage(t *testing.T) {
	wf, catalogGW, _, _ := newFixture(t)
	stubLunchDeal(catalogGW)

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)

	_, err = s.SelectProduct(context.Background(), 999)

	assert.ErrorIs(t, err, ErrProductNotOnPage)
}

func TestSession_AllPagesComplete_ZeroMinimumCounts(t *testing.T) {
	wf, catalogGW, orderGW, _ := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 10, "Burger")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)

	assert.False(t, s.AllPagesComplete())
	assert.ErrorIs(t, s.Complete(), ErrIncomplete)

	// One main, no sides: page 2 has min 0, so the bundle is complete.
	confirmSlot(t, s, 10)

	assert.True(t, s.AllPagesComplete())
	assert.NoError(t, s.Complete())
}

func TestSession_PageNavigation_Unrestricted(t *testing.T) {
	wf, catalogGW, _, _ := newFixture(t)
	stubLunchDeal(catalogGW)

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 0, s.PageIndex())
	s.NextPage()
	assert.Equal(t, 1, s.PageIndex())
	s.NextPage() // clamped at the last page
	assert.Equal(t, 1, s.PageIndex())
	s.PrevPage()
	assert.Equal(t, 0, s.PageIndex())
	s.PrevPage()
	assert.Equal(t, 0, s.PageIndex())
}

func TestSession_Cancel_NothingProcessedIsLocal(t *testing.T) {
	wf, catalogGW, orderGW, cartSvc := newFixture(t)
	stubLunchDeal(catalogGW)

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(context.Background()))

	orderGW.AssertNotCalled(t, "RemoveMenuFromOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, cart.ModeProduct, cartSvc.Mode())
}

func TestSession_Cancel_RemovesStartedInstance(t *testing.T) {
	wf, catalogGW, orderGW, cartSvc := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 10, "Burger")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()
	orderGW.On("RemoveMenuFromOrder", mock.Anything, int64(42), int64(5), 0).Return(nil).Once()

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)
	confirmSlot(t, s, 10)

	require.NoError(t, s.Cancel(context.Background()))

	assert.Empty(t, cartSvc.Items())
	orderGW.AssertExpectations(t)
}

func TestSession_RemoveProduct_FreesTheSlot(t *testing.T) {
	wf, catalogGW, orderGW, _ := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 10, "Burger")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()
	orderGW.On("RemoveMenuItemFromOrder", mock.Anything, int64(42), int64(5), 0, int64(10), int64(1)).
		Return(nil).Once()

	s, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)
	confirmSlot(t, s, 10)
	require.True(t, s.IsProcessed(10))

	require.NoError(t, s.RemoveProduct(context.Background(), 10))

	assert.False(t, s.IsProcessed(10))
	assert.Equal(t, 0, s.CurrentPage().Processed)

	// The slot is selectable again.
	_, err = s.SelectProduct(context.Background(), 10)
	assert.NoError(t, err)
}

func TestWorkflow_Start_ResumesEditingGroup(t *testing.T) {
	wf, catalogGW, orderGW, cartSvc := newFixture(t)
	stubLunchDeal(catalogGW)
	stubSlotProduct(catalogGW, 10, "Burger")

	orderGW.On("SaveOrder", mock.Anything, mock.Anything).
		Return(order.Order{ID: 42, Status: order.StatusOpen}, int64(100), nil).Once()

	first, err := wf.Start(context.Background(), 5)
	require.NoError(t, err)
	confirmSlot(t, first, 10)
	require.NoError(t, first.Complete())

	_, err = cartSvc.BeginGroupEdit(5, 0)
	require.NoError(t, err)

	resumed, err := wf.Start(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, 0, resumed.SecondaryID())
	assert.True(t, resumed.IsProcessed(10))
	assert.Equal(t, 1, resumed.Pages()[0].Processed)
}

func TestWorkflow_Start_MenuLookupFailure(t *testing.T) {
	wf, catalogGW, _, _ := newFixture(t)
	catalogGW.On("GetMenuByID", mock.Anything, int64(9)).
		Return(nil, assert.AnError)

	_, err := wf.Start(context.Background(), 9)

	assert.Error(t, err)
}
