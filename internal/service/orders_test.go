package service

import (
	"encoding/base64"
	"keepify/internal/domain"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOrderService(t *testing.T) (*OrderService, *gorm.DB) {
	db := newTestDB(t)
	return NewOrderService(db, t.TempDir()), db
}

func validOrderInput(items ...ItemInput) CreateOrderInput {
	return CreateOrderInput{
		AllowChecks:         true,
		MonitoringFrequency: "weekly_once",
		PickupRequestedDate: "2025-01-01T10:00",
		PickupAddress:       "123 Main St, long enough",
		ContactPhone:        "0812345678",
		Items:               items,
	}
}

func TestCreateOrder(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)

	in := validOrderInput(
		ItemInput{Name: "  Laptop  ", Quantity: 1, Brand: " Lenovo ", Color: ""},
		ItemInput{Name: "Monitor", Description: "27 inch"},
	)
	in.ExpectedRetrievalDate = "2025-06-01"
	created, err := orders.Create(owner.ID, in)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPendingPickup, created.Status, "status is forced at creation")
	assert.Equal(t, owner.ID, created.OwnerID)
	require.NotNil(t, created.ExpectedRetrievalDate)
	require.Len(t, created.EntrustedItems, 2)

	// Items come back in input order, trimmed, with defaults applied
	first, second := created.EntrustedItems[0], created.EntrustedItems[1]
	assert.Equal(t, "Laptop", first.Name)
	assert.Equal(t, 1, first.Quantity)
	require.NotNil(t, first.Brand)
	assert.Equal(t, "Lenovo", *first.Brand)
	assert.Nil(t, first.Color, "blank optionals are stored as absent")
	assert.Equal(t, "Monitor", second.Name)
	assert.Equal(t, 1, second.Quantity, "quantity defaults to 1")
	assert.Equal(t, created.ID, second.EntrustmentOrderID)
}

func TestCreateOrderValidation(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)

	cases := []struct {
		name    string
		input   CreateOrderInput
		message string
	}{
		{"empty item list", validOrderInput(), "at least one entrusted item is required"},
		{"blank item name", validOrderInput(ItemInput{Name: "Laptop"}, ItemInput{Name: "   "}), "Item 2: name is required"},
		{"bad pickup date", func() CreateOrderInput {
			in := validOrderInput(ItemInput{Name: "Laptop"})
			in.PickupRequestedDate = "not-a-date"
			return in
		}(), "pickupRequestedDate must be a valid date"},
		{"bad frequency", func() CreateOrderInput {
			in := validOrderInput(ItemInput{Name: "Laptop"})
			in.MonitoringFrequency = "hourly"
			return in
		}(), "monitoringFrequency must be one of none, weekly_once, weekly_twice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orders.Create(owner.ID, tc.input)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tc.message, err.Error())
		})
	}

	// Atomicity: failed creations leave no rows in either table
	var orderCount, itemCount int64
	require.NoError(t, db.Model(&domain.EntrustmentOrder{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&domain.EntrustedItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestOwnershipIsolation(t *testing.T) {
	orders, db := newOrderService(t)
	alice := newTestUser(t, db, "alice@x.com", "Passw0rd!", "user", true)
	bob := newTestUser(t, db, "bob@x.com", "Passw0rd!", "user", true)

	created, err := orders.Create(alice.ID, validOrderInput(ItemInput{Name: "Laptop"}))
	require.NoError(t, err)

	// Owner sees the order, anyone else gets not-found
	got, err := orders.OrderForOwner(created.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = orders.OrderForOwner(created.ID, bob.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = orders.OrderForOwner(9999, alice.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOrdersForOwnerNewestFirst(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)

	first, err := orders.Create(owner.ID, validOrderInput(ItemInput{Name: "Laptop"}))
	require.NoError(t, err)
	second, err := orders.Create(owner.ID, validOrderInput(ItemInput{Name: "Monitor"}))
	require.NoError(t, err)
	// Force distinct creation times regardless of timestamp resolution
	require.NoError(t, db.Model(first).Update("created_at", first.CreatedAt.Add(-time.Minute)).Error)

	list, err := orders.OrdersForOwner(owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	// No orders is an empty list, not an error
	empty, err := orders.OrdersForOwner(9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestOwnerSummary(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)
	other := newTestUser(t, db, "other@x.com", "Passw0rd!", "user", true)

	_, err := orders.Create(owner.ID, validOrderInput(
		ItemInput{Name: "Laptop", Quantity: 2},
		ItemInput{Name: "Monitor", Quantity: 1},
	))
	require.NoError(t, err)
	_, err = orders.Create(owner.ID, validOrderInput(ItemInput{Name: "Books", Quantity: 3}))
	require.NoError(t, err)
	// A foreign order must not leak into the summary
	_, err = orders.Create(other.ID, validOrderInput(ItemInput{Name: "Bike", Quantity: 7}))
	require.NoError(t, err)

	summary, err := orders.OwnerSummary(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalOrders)
	assert.Equal(t, 6, summary.TotalItems)
	assert.Equal(t, 2, summary.OrdersByStatus[domain.StatusPendingPickup])
	assert.Equal(t, 0, summary.OrdersByStatus[domain.StatusPickedUp])
	assert.NotContains(t, summary.OrdersByStatus, domain.StatusCancelled)
}

func testSignature() string {
	return base64.StdEncoding.EncodeToString([]byte("signature-bytes"))
}

func TestCompletePickup(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)
	created, err := orders.Create(owner.ID, validOrderInput(ItemInput{Name: "Laptop"}))
	require.NoError(t, err)

	done, err := orders.CompletePickup(created.ID, testSignature())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPickedUp, done.Status)
	require.NotNil(t, done.SignaturePath)
	_, err = os.Stat(*done.SignaturePath)
	require.NoError(t, err, "signature artifact is written to disk")

	// The status lists flip accordingly
	pending, err := orders.OrdersByStatus(domain.StatusPendingPickup)
	require.NoError(t, err)
	assert.Empty(t, pending)
	picked, err := orders.OrdersByStatus(domain.StatusPickedUp)
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, created.ID, picked[0].ID)
	require.NotNil(t, picked[0].Owner, "admin view carries owner identity")
	assert.Equal(t, owner.Email, picked[0].Owner.Email)

	// Completing again is rejected and the row is untouched
	_, err = orders.CompletePickup(created.ID, testSignature())
	require.ErrorIs(t, err, ErrPickupAlreadyDone)
	var after domain.EntrustmentOrder
	require.NoError(t, db.First(&after, created.ID).Error)
	assert.Equal(t, domain.StatusPickedUp, after.Status)
}

func TestCompletePickupErrors(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)
	created, err := orders.Create(owner.ID, validOrderInput(ItemInput{Name: "Laptop"}))
	require.NoError(t, err)

	_, err = orders.CompletePickup(9999, testSignature())
	require.ErrorIs(t, err, ErrNotFound)

	_, err = orders.CompletePickup(created.ID, "   ")
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// The failed attempts left the order pending
	var after domain.EntrustmentOrder
	require.NoError(t, db.First(&after, created.ID).Error)
	assert.Equal(t, domain.StatusPendingPickup, after.Status)
}

func TestOrdersByStatusUnknown(t *testing.T) {
	orders, _ := newOrderService(t)
	_, err := orders.OrdersByStatus("SHIPPED")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestDashboardSummary(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)
	newTestUser(t, db, "admin@x.com", "Passw0rd!", "admin", true)

	created, err := orders.Create(owner.ID, validOrderInput(
		ItemInput{Name: "Laptop"},
		ItemInput{Name: "Monitor"},
	))
	require.NoError(t, err)
	_, err = orders.Create(owner.ID, validOrderInput(ItemInput{Name: "Books"}))
	require.NoError(t, err)
	_, err = orders.CompletePickup(created.ID, testSignature())
	require.NoError(t, err)

	summary, err := orders.DashboardSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalUsers)
	assert.Equal(t, int64(2), summary.TotalOrders)
	assert.Equal(t, int64(3), summary.TotalItems)
	assert.Equal(t, 1, summary.OrdersByStatus[domain.StatusPendingPickup])
	assert.Equal(t, 1, summary.OrdersByStatus[domain.StatusPickedUp])
}

func TestCleanupOrphanedItems(t *testing.T) {
	orders, db := newOrderService(t)
	owner := newTestUser(t, db, "owner@x.com", "Passw0rd!", "user", true)
	created, err := orders.Create(owner.ID, validOrderInput(ItemInput{Name: "Laptop"}))
	require.NoError(t, err)

	// A row whose parent order is gone
	orphan := domain.EntrustedItem{EntrustmentOrderID: 9999, Name: "Ghost", Quantity: 1}
	require.NoError(t, db.Create(&orphan).Error)

	removed, err := orders.CleanupOrphanedItems()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	// The attached item survives
	var remaining []domain.EntrustedItem
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, created.ID, remaining[0].EntrustmentOrderID)
}
