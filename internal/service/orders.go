package service

import (
	"errors"
	"fmt"
	"keepify/internal/domain" // Domain models
	"keepify/internal/utils"  // Signature storage
	"strings"
	"time"

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// OrderService owns the entrustment-order lifecycle: transactional creation,
// owner-scoped queries, summaries and the admin pickup flow.
type OrderService struct {
	DB        *gorm.DB
	UploadDir string // Root directory for signature artifacts
}

func NewOrderService(db *gorm.DB, uploadDir string) *OrderService {
	return &OrderService{DB: db, UploadDir: uploadDir}
}

// ItemInput is one line item of an order payload.
type ItemInput struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	Category            string `json:"category"`
	EstimatedValue      string `json:"estimatedValue"`
	ItemCondition       string `json:"itemCondition"`
	Quantity            int    `json:"quantity"`
	Brand               string `json:"brand"`
	Model               string `json:"model"`
	Color               string `json:"color"`
	SpecialInstructions string `json:"specialInstructions"`
}

// CreateOrderInput is the full order payload.
type CreateOrderInput struct {
	AllowChecks           bool
	MonitoringFrequency   string
	PickupRequestedDate   string
	PickupAddress         string
	ContactPhone          string
	ExpectedRetrievalDate string
	Items                 []ItemInput
	ImagePath             string // Already-stored upload, if any
}

// Accepted layouts for the date fields sent by the frontend.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// itemsInInsertionOrder pins the preload order to the insertion order, so
// items always read back in the order they were submitted.
func itemsInInsertionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

// Create atomically persists an order together with its items. Either the
// order and every item are durably written, or none of them are: all inserts
// and the hydrating read-back run inside one transaction, and any failure
// rolls the whole unit back.
func (s *OrderService) Create(ownerID uint, in CreateOrderInput) (*domain.EntrustmentOrder, error) {
	if len(in.Items) == 0 {
		return nil, NewValidationError("at least one entrusted item is required")
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, NewValidationError(fmt.Sprintf("Item %d: name is required", i+1))
		}
	}
	if strings.TrimSpace(in.PickupAddress) == "" {
		return nil, NewValidationError("pickupAddress is required")
	}
	if strings.TrimSpace(in.ContactPhone) == "" {
		return nil, NewValidationError("contactPhone is required")
	}
	pickupDate, err := parseDate(in.PickupRequestedDate)
	if err != nil {
		return nil, NewValidationError("pickupRequestedDate must be a valid date")
	}
	var retrievalDate *time.Time
	if strings.TrimSpace(in.ExpectedRetrievalDate) != "" {
		t, err := parseDate(in.ExpectedRetrievalDate)
		if err != nil {
			return nil, NewValidationError("expectedRetrievalDate must be a valid date")
		}
		retrievalDate = &t
	}
	frequency := strings.TrimSpace(in.MonitoringFrequency)
	if frequency == "" {
		frequency = domain.MonitoringNone
	}
	if !domain.ValidMonitoringFrequency(frequency) {
		return nil, NewValidationError("monitoringFrequency must be one of none, weekly_once, weekly_twice")
	}

	var created domain.EntrustmentOrder
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order := domain.EntrustmentOrder{
			OwnerID:               ownerID,
			AllowChecks:           in.AllowChecks,
			MonitoringFrequency:   frequency,
			PickupRequestedDate:   pickupDate,
			PickupAddress:         strings.TrimSpace(in.PickupAddress),
			ContactPhone:          strings.TrimSpace(in.ContactPhone),
			ExpectedRetrievalDate: retrievalDate,
			Status:                domain.StatusPendingPickup, // Forced regardless of caller input
			ImagePath:             optional(in.ImagePath),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		// Items are inserted in input order with the generated order id
		for _, item := range in.Items {
			quantity := item.Quantity
			if quantity < 1 {
				quantity = 1
			}
			row := domain.EntrustedItem{
				EntrustmentOrderID:  order.ID,
				Name:                strings.TrimSpace(item.Name),
				Description:         optional(item.Description),
				Category:            optional(item.Category),
				EstimatedValue:      optional(item.EstimatedValue),
				ItemCondition:       optional(item.ItemCondition),
				Quantity:            quantity,
				Brand:               optional(item.Brand),
				Model:               optional(item.Model),
				Color:               optional(item.Color),
				SpecialInstructions: optional(item.SpecialInstructions),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		// Read the hydrated order back within the same transaction
		return tx.Preload("EntrustedItems", itemsInInsertionOrder).First(&created, order.ID).Error
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"owner_id": ownerID,
			"items":    len(in.Items),
			"error":    err.Error(),
		}).Error("Order creation failed")
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"order_id": created.ID,
		"items":    len(created.EntrustedItems),
	}).Info("Entrustment order created")
	return &created, nil
}

// OrdersForOwner returns the owner's orders with items, newest first.
func (s *OrderService) OrdersForOwner(ownerID uint) ([]domain.EntrustmentOrder, error) {
	var orders []domain.EntrustmentOrder
	err := s.DB.Preload("EntrustedItems", itemsInInsertionOrder).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// OrderForOwner returns one order only if it exists and belongs to ownerID.
// A foreign or missing order is ErrNotFound either way, so callers cannot
// probe for other users' order ids.
func (s *OrderService) OrderForOwner(orderID, ownerID uint) (*domain.EntrustmentOrder, error) {
	var order domain.EntrustmentOrder
	err := s.DB.Preload("EntrustedItems", itemsInInsertionOrder).
		Where("id = ? AND owner_id = ?", orderID, ownerID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// OwnerSummary aggregates an owner's orders: total orders, total item
// quantity and a per-status breakdown of the pickup/storage pipeline.
type OwnerSummary struct {
	TotalOrders    int            `json:"totalOrders"`
	TotalItems     int            `json:"totalItems"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
}

// Statuses reported in the owner summary. CANCELLED is intentionally
// excluded: no in-scope operation produces it.
var summaryStatuses = []string{
	domain.StatusPendingPickup,
	domain.StatusPickedUp,
	domain.StatusStored,
	domain.StatusPendingDelivery,
	domain.StatusDelivered,
}

func (s *OrderService) OwnerSummary(ownerID uint) (*OwnerSummary, error) {
	var orders []domain.EntrustmentOrder
	if err := s.DB.Preload("EntrustedItems", itemsInInsertionOrder).Where("owner_id = ?", ownerID).Find(&orders).Error; err != nil {
		return nil, err
	}
	summary := OwnerSummary{
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[string]int, len(summaryStatuses)),
	}
	for _, status := range summaryStatuses {
		summary.OrdersByStatus[status] = 0
	}
	for _, order := range orders {
		for _, item := range order.EntrustedItems {
			summary.TotalItems += item.Quantity
		}
		if _, ok := summary.OrdersByStatus[order.Status]; ok {
			summary.OrdersByStatus[order.Status]++
		}
	}
	return &summary, nil
}

// OrdersByStatus returns all orders system-wide in the given status, with
// items and owner identity, for admin triage.
func (s *OrderService) OrdersByStatus(status string) ([]domain.EntrustmentOrder, error) {
	if !domain.ValidStatus(status) {
		return nil, NewValidationError("unknown order status " + status)
	}
	var orders []domain.EntrustmentOrder
	err := s.DB.Preload("EntrustedItems", itemsInInsertionOrder).Preload("Owner").
		Where("status = ?", status).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// CompletePickup transitions an order from PENDING_PICKUP to PICKED_UP and
// records the courier signature. Only pending orders can be completed;
// anything else is rejected without touching the row.
func (s *OrderService) CompletePickup(orderID uint, signatureBase64 string) (*domain.EntrustmentOrder, error) {
	var order domain.EntrustmentOrder
	if err := s.DB.Preload("EntrustedItems", itemsInInsertionOrder).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.Status != domain.StatusPendingPickup {
		return nil, ErrPickupAlreadyDone
	}
	signaturePath, err := utils.SaveSignatureImage(signatureBase64, s.UploadDir)
	if err != nil {
		return nil, NewValidationError("signatureImage must be a non-empty base64 image")
	}
	update := domain.EntrustmentOrder{Status: domain.StatusPickedUp, SignaturePath: &signaturePath}
	if err := s.DB.Model(&order).Select("status", "signature_path").Updates(update).Error; err != nil {
		return nil, err
	}
	order.Status = update.Status
	order.SignaturePath = update.SignaturePath
	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"owner_id":  order.OwnerID,
		"signature": signaturePath,
	}).Info("Pickup completed")
	return &order, nil
}

// DashboardSummary aggregates system-wide counts for the admin dashboard.
type DashboardSummary struct {
	TotalUsers     int64          `json:"totalUsers"`
	TotalOrders    int64          `json:"totalOrders"`
	TotalItems     int64          `json:"totalItems"`
	OrdersByStatus map[string]int `json:"ordersByStatus"`
}

func (s *OrderService) DashboardSummary() (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := s.DB.Model(&domain.User{}).Count(&summary.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&domain.EntrustmentOrder{}).Count(&summary.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&domain.EntrustedItem{}).Count(&summary.TotalItems).Error; err != nil {
		return nil, err
	}
	var rows []struct {
		Status string
		N      int
	}
	if err := s.DB.Model(&domain.EntrustmentOrder{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	summary.OrdersByStatus = make(map[string]int, len(rows))
	for _, row := range rows {
		summary.OrdersByStatus[row.Status] = row.N
	}
	return &summary, nil
}

// CleanupOrphanedItems removes item rows whose parent order no longer
// exists. Maintenance sweep, run from the migrate command.
func (s *OrderService) CleanupOrphanedItems() (int64, error) {
	res := s.DB.Where(
		"entrustment_order_id NOT IN (?)",
		s.DB.Model(&domain.EntrustmentOrder{}).Select("id"),
	).Delete(&domain.EntrustedItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		logrus.WithField("removed", res.RowsAffected).Info("Removed orphaned items")
	}
	return res.RowsAffected, nil
}
