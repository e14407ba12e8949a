package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/railqa/railcheck/internal/models"
)

// defaultSettleDelay gives the CRM time to process the first approval before
// it is re-applied
const defaultSettleDelay = 5 * time.Second

// OrderProcessingService drives the back-office approval flow for Mature
// railcard orders. Other railcard kinds need no manual approval and are
// skipped.
type OrderProcessingService struct {
	crm         CRMClient
	orders      OrdersClient
	settleDelay time.Duration
}

// NewOrderProcessingService creates an order processing service
func NewOrderProcessingService(crm CRMClient, orders OrdersClient) *OrderProcessingService {
	return &OrderProcessingService{
		crm:         crm,
		orders:      orders,
		settleDelay: defaultSettleDelay,
	}
}

// NewOrderProcessingServiceWithDelay allows a custom settle delay between the
// two approval calls (primarily for testing)
func NewOrderProcessingServiceWithDelay(crm CRMClient, orders OrdersClient, settleDelay time.Duration) *OrderProcessingService {
	return &OrderProcessingService{
		crm:         crm,
		orders:      orders,
		settleDelay: settleDelay,
	}
}

// ProcessMatureOrder walks a Mature railcard order through document receipt,
// validation and approval, then marks it complete. The approval update is
// applied twice with a settle delay between; the CRM needs the second pass to
// hold the status.
func (s *OrderProcessingService) ProcessMatureOrder(ctx context.Context, orderNumber string, kind models.RailcardKind) error {
	if kind != models.RailcardMature {
		log.Printf("Skipping order processing for railcard kind %s", kind)
		return nil
	}

	log.Printf("Processing Mature railcard order %s", orderNumber)

	crmOrderID, err := s.crm.LookupOrderID(ctx, orderNumber)
	if err != nil {
		return fmt.Errorf("failed to look up CRM order for %s: %w", orderNumber, err)
	}

	order, err := s.orders.GetOrder(ctx, crmOrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch railcard order %s: %w", crmOrderID, err)
	}

	orderItemID, err := order.FirstLineItemID()
	if err != nil {
		return fmt.Errorf("failed to extract order line item for %s: %w", crmOrderID, err)
	}

	if err := s.crm.ApproveOrderItem(ctx, orderItemID); err != nil {
		return fmt.Errorf("failed to approve order item %s: %w", orderItemID, err)
	}

	if err := s.wait(ctx); err != nil {
		return err
	}

	if err := s.crm.ApproveOrderItem(ctx, orderItemID); err != nil {
		return fmt.Errorf("failed to re-approve order item %s: %w", orderItemID, err)
	}

	if err := s.crm.CompleteOrder(ctx, crmOrderID); err != nil {
		return fmt.Errorf("failed to complete order %s: %w", crmOrderID, err)
	}

	log.Printf("Successfully approved and completed order %s", orderNumber)
	return nil
}

// wait sleeps for the settle delay, honoring cancellation
func (s *OrderProcessingService) wait(ctx context.Context) error {
	if s.settleDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.settleDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
