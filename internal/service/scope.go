package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/auth"
	"github.com/meridian-realty/dashboard-api/internal/repository"
	"gorm.io/gorm"
)

// resolveAgency decides which agency a new record belongs to.
//
// Agents and viewers always write into their own agency and may not name
// another one. Admins and API services must name the agency, either in the
// request body or through the request's agency filter.
func resolveAgency(ctx context.Context, requested *uuid.UUID) (uuid.UUID, error) {
	user, ok := auth.FromContext(ctx)
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}

	if user.IsCrossAgency() {
		if requested != nil && *requested != uuid.Nil {
			return *requested, nil
		}
		if filter := auth.GetEffectiveAgencyFilter(ctx); filter != nil && *filter != uuid.Nil {
			return *filter, nil
		}
		return uuid.Nil, ErrAgencyRequired
	}

	if user.AgencyID == nil {
		return uuid.Nil, ErrForbidden
	}
	if requested != nil && *requested != uuid.Nil && *requested != *user.AgencyID {
		return uuid.Nil, ErrForbidden
	}
	return *user.AgencyID, nil
}

// notFoundOr maps gorm's missing-record error to ErrNotFound
func notFoundOr(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", entity, err)
}

// paginate clamps pagination input
func paginate(page, pageSize int) (int, int) {
	return repository.NormalizePagination(page, pageSize)
}
