package service

import (
	"context"
	"fmt"

	"threadcart/internal/model"
	"threadcart/internal/payment"
	"threadcart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// webhookService implements WebhookService.
type webhookService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	provider    payment.Provider
	logger      zerolog.Logger
}

// NewWebhookService creates a new webhook reconciler.
func NewWebhookService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	provider payment.Provider,
	logger zerolog.Logger,
) WebhookService {
	return &webhookService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		provider:    provider,
		logger:      logger.With().Str("service", "webhook").Logger(),
	}
}

// HandleEvent verifies the signed payload and applies the state transition it
// describes. Unknown event types and events without an order reference are
// acknowledged without effect; duplicates are detected through the event
// ledger so inventory is decremented once per order.
func (s *webhookService) HandleEvent(ctx context.Context, body []byte, signature string) error {
	if s.provider == nil {
		return model.ErrNotConfigured
	}

	event, err := s.provider.VerifyWebhook(body, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case payment.EventCheckoutCompleted:
		return s.handleCompleted(ctx, event)
	case payment.EventCheckoutExpired:
		return s.handleExpired(ctx, event)
	default:
		s.logger.Debug().
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("ignoring unhandled event type")
		return nil
	}
}

func (s *webhookService) handleCompleted(ctx context.Context, event *payment.Event) error {
	orderID, ok := s.orderRef(event)
	if !ok {
		return nil
	}

	if event.PaymentStatus != payment.PaymentStatusPaid {
		s.logger.Info().
			Str("event_id", event.ID).
			Str("order_id", orderID.String()).
			Str("payment_status", event.PaymentStatus).
			Msg("completed session not yet paid, awaiting async payment")
		return nil
	}

	return s.inEventTx(ctx, event, func(tx pgx.Tx) error {
		if err := s.orderRepo.UpdateOrderStatus(ctx, tx, orderID, model.OrderStatusPaid); err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		if err := s.orderRepo.UpdatePaymentStatusByOrder(ctx, tx, orderID, model.PaymentStatusSucceeded); err != nil {
			return fmt.Errorf("failed to mark payment succeeded: %w", err)
		}

		items, err := s.orderRepo.GetItems(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("failed to load order items: %w", err)
		}
		for _, item := range items {
			if err := s.productRepo.DecrementInventory(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("failed to decrement inventory: %w", err)
			}
		}

		s.logger.Info().
			Str("event_id", event.ID).
			Str("order_id", orderID.String()).
			Int("item_count", len(items)).
			Msg("order reconciled as paid")
		return nil
	})
}

func (s *webhookService) handleExpired(ctx context.Context, event *payment.Event) error {
	orderID, ok := s.orderRef(event)
	if !ok {
		return nil
	}

	return s.inEventTx(ctx, event, func(tx pgx.Tx) error {
		if err := s.orderRepo.UpdateOrderStatus(ctx, tx, orderID, model.OrderStatusExpired); err != nil {
			return fmt.Errorf("failed to mark order expired: %w", err)
		}
		if err := s.orderRepo.UpdatePaymentStatusByOrder(ctx, tx, orderID, model.PaymentStatusExpired); err != nil {
			return fmt.Errorf("failed to mark payment expired: %w", err)
		}

		s.logger.Info().
			Str("event_id", event.ID).
			Str("order_id", orderID.String()).
			Msg("order reconciled as expired")
		return nil
	})
}

// orderRef extracts the order id carried in the session metadata. Sessions
// created elsewhere legitimately carry none.
func (s *webhookService) orderRef(event *payment.Event) (uuid.UUID, bool) {
	if event.OrderID == "" {
		s.logger.Warn().
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("event carries no order reference, skipping")
		return uuid.Nil, false
	}
	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		s.logger.Warn().
			Str("event_id", event.ID).
			Str("order_ref", event.OrderID).
			Msg("event carries malformed order reference, skipping")
		return uuid.Nil, false
	}
	return orderID, true
}

// inEventTx runs fn in a transaction guarded by the processed-event ledger.
// Replayed events commit the ledger check and skip fn entirely.
func (s *webhookService) inEventTx(ctx context.Context, event *payment.Event, fn func(tx pgx.Tx) error) error {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to process event: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	fresh, err := s.orderRepo.RecordWebhookEvent(ctx, tx, event.ID, event.Type)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	if !fresh {
		s.logger.Info().
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("duplicate event delivery, already processed")
		err = tx.Commit(ctx)
		return err
	}

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to process event: %w", err)
	}
	return nil
}
