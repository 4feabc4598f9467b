package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"my_market_back_end/internal/models"
	"my_market_back_end/internal/store"
)

// --- Fakes en mémoire pour les contrats de persistance ---

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUsers) Save(_ context.Context, user *models.User) error {
	f.users[user.Username] = user
	return nil
}

type fakeCarts struct {
	carts    map[uuid.UUID]*models.Cart
	clearErr error
}

func (f *fakeCarts) FindByID(_ context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, ok := f.carts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *cart
	copied.Items = append([]models.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (f *fakeCarts) Save(_ context.Context, cart *models.Cart) error {
	f.carts[cart.ID] = cart
	return nil
}

func (f *fakeCarts) Clear(_ context.Context, id uuid.UUID) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	if cart, ok := f.carts[id]; ok {
		cart.Items = nil
	}
	return nil
}

type fakeProducts struct {
	stock     map[uuid.UUID]int
	failOn    uuid.UUID
	adjustErr error
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	stock, ok := f.stock[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &models.Product{ID: id, Stock: stock}, nil
}

func (f *fakeProducts) List(context.Context, int) ([]models.Product, error) { return nil, nil }

func (f *fakeProducts) Save(_ context.Context, product *models.Product) error {
	f.stock[product.ID] = product.Stock
	return nil
}

func (f *fakeProducts) AdjustStock(_ context.Context, id uuid.UUID, delta int) error {
	if f.adjustErr != nil && id == f.failOn {
		return f.adjustErr
	}
	f.stock[id] += delta
	return nil
}

type fakeOrders struct {
	orders  map[uuid.UUID]*models.Order
	saveErr error
	deleted []uuid.UUID

	listed     []models.Order
	lastOffset int
	lastLimit  int
	lastState  string

	statRows []store.StatisticRow
	prodRows []store.ProductStatisticRow
}

func (f *fakeOrders) Save(_ context.Context, order *models.Order) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.orders, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *order
	copied.Items = append([]models.OrderItem(nil), order.Items...)
	return &copied, nil
}

func (f *fakeOrders) FindAllByOwner(_ context.Context, _ string, _, _ time.Time, offset, limit int) ([]models.Order, error) {
	f.lastOffset, f.lastLimit = offset, limit
	return f.listed, nil
}

func (f *fakeOrders) FindAll(_ context.Context, _, _ time.Time, offset, limit int, state string) ([]models.Order, error) {
	f.lastOffset, f.lastLimit, f.lastState = offset, limit, state
	return f.listed, nil
}

func (f *fakeOrders) GetStatistic(context.Context, string, time.Time, time.Time) ([]store.StatisticRow, error) {
	return f.statRows, nil
}

func (f *fakeOrders) GetProductStatistic(context.Context, time.Time, time.Time) ([]store.ProductStatisticRow, error) {
	return f.prodRows, nil
}

// --- Montage de test ---

type fixture struct {
	users    *fakeUsers
	carts    *fakeCarts
	products *fakeProducts
	orders   *fakeOrders
	service  *OrderService

	cartID   uuid.UUID
	productA uuid.UUID
	productB uuid.UUID
}

// newFixture reproduit le scénario de référence : le panier contient
// 2×produit A (stock 10) et 1×produit B (stock 5), alice habite "X".
func newFixture() *fixture {
	f := &fixture{
		users:    &fakeUsers{users: map[string]*models.User{}},
		carts:    &fakeCarts{carts: map[uuid.UUID]*models.Cart{}},
		products: &fakeProducts{stock: map[uuid.UUID]int{}},
		orders:   &fakeOrders{orders: map[uuid.UUID]*models.Order{}},
	}
	f.service = NewOrderService(f.users, f.carts, f.products, f.orders)

	f.cartID = uuid.New()
	f.productA = uuid.New()
	f.productB = uuid.New()

	f.users.users["alice"] = &models.User{Username: "alice", Address: "X"}
	f.products.stock[f.productA] = 10
	f.products.stock[f.productB] = 5
	f.carts.carts[f.cartID] = &models.Cart{
		ID: f.cartID,
		Items: []models.CartItem{
			{ProductID: f.productA, Name: "A", Price: 20, Quantity: 2},
			{ProductID: f.productB, Name: "B", Price: 8, Quantity: 1},
		},
	}
	return f
}

func (f *fixture) confirmation(method string) OrderConfirmation {
	return OrderConfirmation{
		Username:      "alice",
		CartID:        f.cartID.String(),
		Address:       "Y",
		PaymentMethod: method,
	}
}

// --- Création de commande ---

func TestCreateFromCart_HappyPath(t *testing.T) {
	f := newFixture()

	order, err := f.service.CreateFromCart(context.Background(), f.confirmation("card"))
	require.NoError(t, err)

	assert.Equal(t, models.StateAwaitingShipment, order.State)
	assert.True(t, order.PaymentState, "carte = payé d'avance")
	assert.Equal(t, "Y", order.DeliveryAddress)
	assert.Equal(t, "X", order.OwnerAddress)
	assert.Equal(t, f.cartID, order.CartID)

	require.Len(t, order.Items, 2)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, "A", order.Items[0].ProductName)
	assert.InDelta(t, 48.0, order.TotalPrice, 1e-9)

	assert.Equal(t, 8, f.products.stock[f.productA])
	assert.Equal(t, 4, f.products.stock[f.productB])
	assert.Empty(t, f.carts.carts[f.cartID].Items, "le panier doit être vidé")

	stored, ok := f.orders.orders[order.ID]
	require.True(t, ok, "la commande doit être persistée")
	assert.Equal(t, order.State, stored.State)
}

func TestCreateFromCart_CashIsNotSettled(t *testing.T) {
	f := newFixture()

	order, err := f.service.CreateFromCart(context.Background(), f.confirmation("cash"))
	require.NoError(t, err)
	assert.False(t, order.PaymentState, "paiement à la livraison = non réglé")
}

func TestCreateFromCart_UnknownUser(t *testing.T) {
	f := newFixture()
	confirm := f.confirmation("card")
	confirm.Username = "bob"

	_, err := f.service.CreateFromCart(context.Background(), confirm)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Aucun effet de bord.
	assert.Empty(t, f.orders.orders)
	assert.Equal(t, 10, f.products.stock[f.productA])
	assert.Len(t, f.carts.carts[f.cartID].Items, 2)
}

func TestCreateFromCart_UnknownCart(t *testing.T) {
	f := newFixture()
	confirm := f.confirmation("card")
	confirm.CartID = uuid.New().String()

	_, err := f.service.CreateFromCart(context.Background(), confirm)
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, f.orders.orders)
}

func TestCreateFromCart_MalformedCartID(t *testing.T) {
	f := newFixture()
	confirm := f.confirmation("card")
	confirm.CartID = "pas-un-uuid"

	_, err := f.service.CreateFromCart(context.Background(), confirm)
	require.ErrorIs(t, err, ErrBadCartID)
	assert.NotErrorIs(t, err, store.ErrNotFound, "id malformé ≠ introuvable")
}

func TestCreateFromCart_StockFailureRollsEverythingBack(t *testing.T) {
	f := newFixture()
	f.products.failOn = f.productB
	f.products.adjustErr = errors.New("écriture stock refusée")

	_, err := f.service.CreateFromCart(context.Background(), f.confirmation("card"))
	require.Error(t, err)

	assert.Empty(t, f.orders.orders, "la commande partielle doit être supprimée")
	assert.NotEmpty(t, f.orders.deleted)
	assert.Equal(t, 10, f.products.stock[f.productA], "le décrément du produit A doit être compensé")
	assert.Equal(t, 5, f.products.stock[f.productB])
	assert.Len(t, f.carts.carts[f.cartID].Items, 2, "le panier doit rester intact")
}

func TestCreateFromCart_ClearFailureRollsEverythingBack(t *testing.T) {
	f := newFixture()
	f.carts.clearErr = errors.New("panier verrouillé")

	_, err := f.service.CreateFromCart(context.Background(), f.confirmation("card"))
	require.Error(t, err)

	assert.Empty(t, f.orders.orders)
	assert.Equal(t, 10, f.products.stock[f.productA])
	assert.Equal(t, 5, f.products.stock[f.productB])
}

// --- Mise à jour de commande ---

func createOrder(t *testing.T, f *fixture) *models.Order {
	t.Helper()
	order, err := f.service.CreateFromCart(context.Background(), f.confirmation("card"))
	require.NoError(t, err)
	return order
}

func TestUpdateOrder_ReturnRestocksOnce(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)

	updated, err := f.service.UpdateOrder(context.Background(), order.ID, "Z", "RETURN")
	require.NoError(t, err)

	assert.Equal(t, models.StateReturn, updated.State)
	assert.Equal(t, "Z", updated.DeliveryAddress)
	assert.Equal(t, 10, f.products.stock[f.productA], "retour = stock restauré")
	assert.Equal(t, 5, f.products.stock[f.productB])
}

func TestUpdateOrder_DeliveredSettlesPaymentIdempotently(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)

	updated, err := f.service.UpdateOrder(context.Background(), order.ID, "Y", "DELIVERED")
	require.NoError(t, err)
	assert.True(t, updated.PaymentState)

	// Rejouer DELIVERED ne change rien et ne touche pas aux stocks.
	updated, err = f.service.UpdateOrder(context.Background(), order.ID, "Y", "DELIVERED")
	require.NoError(t, err)
	assert.True(t, updated.PaymentState)
	assert.Equal(t, 8, f.products.stock[f.productA])
	assert.Equal(t, 4, f.products.stock[f.productB])
}

func TestUpdateOrder_InvalidStateLeavesOrderUntouched(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)

	_, err := f.service.UpdateOrder(context.Background(), order.ID, "Z", "LOST_IN_SPACE")
	require.ErrorIs(t, err, models.ErrUnknownState)

	stored := f.orders.orders[order.ID]
	assert.Equal(t, models.StateAwaitingShipment, stored.State)
	assert.Equal(t, "Y", stored.DeliveryAddress)
	assert.True(t, stored.PaymentState)
	assert.Equal(t, 8, f.products.stock[f.productA], "les stocks ne doivent pas bouger")
}

func TestUpdateOrder_UnknownOrderIsNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.UpdateOrder(context.Background(), uuid.New(), "Z", "DELIVERED")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateOrder_RestockOverflowMutatesNothing(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)

	// Gonfler artificiellement la quantité au-delà de la largeur historique.
	stored := f.orders.orders[order.ID]
	stored.Items[0].Quantity = maxRestockQuantity + 1

	_, err := f.service.UpdateOrder(context.Background(), order.ID, "Z", "RETURN")
	require.ErrorIs(t, err, ErrRestockOverflow)

	assert.Equal(t, 8, f.products.stock[f.productA])
	assert.Equal(t, 4, f.products.stock[f.productB])
	assert.Equal(t, models.StateAwaitingShipment, f.orders.orders[order.ID].State)
}

func TestUpdateOrder_SaveFailureUndoesRestock(t *testing.T) {
	f := newFixture()
	order := createOrder(t, f)
	f.orders.saveErr = errors.New("écriture refusée")

	_, err := f.service.UpdateOrder(context.Background(), order.ID, "Z", "RETURN")
	require.Error(t, err)

	assert.Equal(t, 8, f.products.stock[f.productA], "le réapprovisionnement doit être compensé")
	assert.Equal(t, 4, f.products.stock[f.productB])
}

// --- Recherches et pagination ---

func TestFindByID_AbsenceIsNotAnError(t *testing.T) {
	f := newFixture()

	order, err := f.service.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestPageOffsetArithmetic(t *testing.T) {
	// L'asymétrie de la formule historique est volontairement conservée.
	assert.Equal(t, 0, pageOffset(1, 5))
	assert.Equal(t, 4, pageOffset(2, 5))
	assert.Equal(t, 9, pageOffset(3, 5))
}

func TestFindOrdersByOwnerUsesFixedPageSize(t *testing.T) {
	f := newFixture()
	f.orders.listed = []models.Order{{ID: uuid.New(), Username: "alice", Items: []models.OrderItem{{Quantity: 1}}}}

	result, err := f.service.FindOrdersByOwner(context.Background(), "alice", time.Time{}, time.Now(), 2)
	require.NoError(t, err)

	assert.Equal(t, 4, f.orders.lastOffset)
	assert.Equal(t, 5, f.orders.lastLimit)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ItemsCount)
}

func TestFindAllOrdersPassesStateThrough(t *testing.T) {
	f := newFixture()

	_, err := f.service.FindAllOrders(context.Background(), time.Time{}, time.Now(), 1, "N_IMPORTE_QUOI")
	require.NoError(t, err)
	assert.Equal(t, "N_IMPORTE_QUOI", f.orders.lastState, "l'état n'est pas validé côté service")
	assert.Equal(t, 0, f.orders.lastOffset)
}

// --- Statistiques ---

func TestGetStatisticMapsRowsToDTO(t *testing.T) {
	f := newFixture()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	f.orders.statRows = []store.StatisticRow{{Day: day, Orders: 3, Revenue: 99.5}}

	stats, err := f.service.GetStatistic(context.Background(), "orders", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "2026-03-14", stats[0].Label)
	assert.Equal(t, 3, stats[0].Orders)
	assert.InDelta(t, 99.5, stats[0].Revenue, 1e-9)
}

func TestGetProductStatisticMapsRowsToDTO(t *testing.T) {
	f := newFixture()
	f.orders.prodRows = []store.ProductStatisticRow{
		{ProductID: f.productA, ProductName: "A", Sold: 7, Revenue: 140},
	}

	stats, err := f.service.GetProductStatistic(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "A", stats[0].ProductName)
	assert.Equal(t, 7, stats[0].Sold)
}
