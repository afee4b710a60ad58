package service

import (
	"context"
	"fmt"

	"threadcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// adminService implements AdminService.
type adminService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	logger      zerolog.Logger
}

// NewAdminService creates a new admin maintenance service.
func NewAdminService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		logger:      logger.With().Str("service", "admin").Logger(),
	}
}

// Cleanup runs the selected maintenance task. An empty action runs all of
// them.
func (s *adminService) Cleanup(ctx context.Context, action CleanupAction) (*CleanupResult, error) {
	result := &CleanupResult{}

	if action == "" || action == CleanupRemovePendingOrders {
		removed, err := s.orderRepo.DeletePending(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to remove pending orders: %w", err)
		}
		result.PendingOrdersRemoved = removed
	}

	if action == "" || action == CleanupDedupeAddresses {
		removed, err := s.dedupeAddresses(ctx)
		if err != nil {
			return nil, err
		}
		result.DuplicateAddressesRemoved = removed
	}

	s.logger.Info().
		Str("action", string(action)).
		Int64("pending_orders_removed", result.PendingOrdersRemoved).
		Int("duplicate_addresses_removed", result.DuplicateAddressesRemoved).
		Msg("cleanup run finished")
	return result, nil
}

// dedupeAddresses walks every user's addresses oldest first and removes the
// later copies of any repeated normalized address. The oldest copy survives
// so existing order references stay meaningful.
func (s *adminService) dedupeAddresses(ctx context.Context) (int, error) {
	userIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	removed := 0
	for _, userID := range userIDs {
		addresses, err := s.addressRepo.ListByUser(ctx, userID)
		if err != nil {
			return removed, fmt.Errorf("failed to list addresses: %w", err)
		}
		if len(addresses) < 2 {
			continue
		}

		seen := make(map[string]struct{}, len(addresses))
		var duplicates []uuid.UUID
		for _, a := range addresses {
			key := a.DedupKey()
			if _, ok := seen[key]; ok {
				duplicates = append(duplicates, a.ID)
				continue
			}
			seen[key] = struct{}{}
		}
		if len(duplicates) == 0 {
			continue
		}

		if err := s.addressRepo.DeleteByIDs(ctx, duplicates); err != nil {
			return removed, fmt.Errorf("failed to delete duplicate addresses: %w", err)
		}
		removed += len(duplicates)
	}

	return removed, nil
}
