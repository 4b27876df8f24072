package planning_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appplanning "github.com/fitza/batchtrace-go/internal/application/planning"
	"github.com/fitza/batchtrace-go/internal/domain/planning"
	"github.com/fitza/batchtrace-go/internal/domain/shared"
)

type stubOrderRepository struct {
	orders map[string]planning.Order
}

func newStubOrderRepository() *stubOrderRepository {
	return &stubOrderRepository{orders: make(map[string]planning.Order)}
}

func (r *stubOrderRepository) FindByID(ctx context.Context, orderID string) (*planning.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, &planning.ErrOrderNotFound{OrderID: orderID}
	}
	return &order, nil
}

func (r *stubOrderRepository) Add(ctx context.Context, order *planning.Order) error {
	if _, exists := r.orders[order.OrderID]; exists {
		return &planning.ErrDuplicateOrder{OrderID: order.OrderID}
	}
	r.orders[order.OrderID] = *order
	return nil
}

type fixedLoad int

func (f fixedLoad) ProductionDays(max int) int { return int(f) }

func TestRegisterOrderHandler_AssignsDefaults(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	repo := newStubOrderRepository()
	handler := appplanning.NewRegisterOrderHandler(repo, clock)

	// Act
	response, err := handler.Handle(context.Background(), &appplanning.RegisterOrderCommand{
		Order: planning.Order{
			Items: []planning.LineItem{{ProductType: shared.ProductPepperoni, Quantity: 2}},
		},
	})

	// Assert
	require.NoError(t, err)
	registered := response.(*appplanning.RegisterOrderResponse)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, registered.Order.OrderID)
	assert.Equal(t, "received", registered.Order.Status)
	assert.Equal(t, clock.Now(), registered.Order.OrderDate)

	stored, err := repo.FindByID(context.Background(), registered.Order.OrderID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
}

func TestRegisterOrderHandler_RejectsEmptyOrder(t *testing.T) {
	// Arrange
	handler := appplanning.NewRegisterOrderHandler(newStubOrderRepository(), shared.NewRealClock())

	// Act
	_, err := handler.Handle(context.Background(), &appplanning.RegisterOrderCommand{
		Order: planning.Order{},
	})

	// Assert
	var inputErr *shared.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestComputeRequirementsHandler_LoadsOrderByID(t *testing.T) {
	// Arrange
	repo := newStubOrderRepository()
	repo.orders["ORD-1"] = planning.Order{
		OrderID: "ORD-1",
		Items:   []planning.LineItem{{ProductType: shared.ProductPepperoni, Quantity: 4}},
	}
	handler := appplanning.NewComputeRequirementsHandler(
		planning.NewCalculator(planning.NewCatalog()), repo)

	// Act
	response, err := handler.Handle(context.Background(), &appplanning.ComputeRequirementsCommand{OrderID: "ORD-1"})

	// Assert
	require.NoError(t, err)
	computed := response.(*appplanning.ComputeRequirementsResponse)
	assert.NotEmpty(t, computed.Requirements)
}

func TestComputeRequirementsHandler_MissingOrder(t *testing.T) {
	// Arrange
	handler := appplanning.NewComputeRequirementsHandler(
		planning.NewCalculator(planning.NewCatalog()), newStubOrderRepository())

	// Act
	_, err := handler.Handle(context.Background(), &appplanning.ComputeRequirementsCommand{OrderID: "ORD-404"})

	// Assert
	var notFound *planning.ErrOrderNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestComputeRequirementsHandler_RequiresOrderOrID(t *testing.T) {
	// Arrange
	handler := appplanning.NewComputeRequirementsHandler(
		planning.NewCalculator(planning.NewCatalog()), newStubOrderRepository())

	// Act
	_, err := handler.Handle(context.Background(), &appplanning.ComputeRequirementsCommand{})

	// Assert
	var inputErr *shared.InputError
	require.ErrorAs(t, err, &inputErr)
}

type mapOracle map[string]int64

func (o mapOracle) InStock(ctx context.Context, materialID string, quantity int64) (bool, error) {
	return o[materialID] >= quantity, nil
}

func TestCheckStockHandler_ReportsShortages(t *testing.T) {
	// Arrange
	gate := planning.NewStockGate(mapOracle{"RM-001": 10})
	handler := appplanning.NewCheckStockHandler(gate)

	// Act
	response, err := handler.Handle(context.Background(), &appplanning.CheckStockCommand{
		Requirements: []planning.MaterialRequirement{
			{Material: shared.RawMaterial{MaterialID: "RM-001", Name: "Flour Type 65"}, Quantity: 5},
			{Material: shared.RawMaterial{MaterialID: "RM-002", Name: "Baker's Yeast"}, Quantity: 1},
		},
	})

	// Assert
	require.NoError(t, err)
	checked := response.(*appplanning.CheckStockResponse)
	assert.False(t, checked.Available)
	require.Len(t, checked.Shortages, 1)
	assert.Equal(t, "RM-002", checked.Shortages[0].Material.MaterialID)
}

func TestCheckStockHandler_RejectsEmptyRequirements(t *testing.T) {
	// Arrange
	handler := appplanning.NewCheckStockHandler(planning.NewStockGate(mapOracle{}))

	// Act
	_, err := handler.Handle(context.Background(), &appplanning.CheckStockCommand{})

	// Assert
	var inputErr *shared.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestEstimateDeliveryHandler_BoundedWindow(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	handler := appplanning.NewEstimateDeliveryHandler(
		planning.NewEstimator(fixedLoad(30)), clock)

	// Act - load source answers beyond the window, estimate is clamped
	response, err := handler.Handle(context.Background(), &appplanning.EstimateDeliveryCommand{OrderID: "ORD-1"})

	// Assert
	require.NoError(t, err)
	estimated := response.(*appplanning.EstimateDeliveryResponse)
	assert.Equal(t, time.Date(2025, 3, 24, 9, 0, 0, 0, time.UTC), estimated.DeliveryDate)
}
