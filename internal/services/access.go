package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/apierr"
	"github.com/bundasehat/screening-backend/internal/platform/ctxutil"
)

func caller(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("authentication required")
	}
	return rd, nil
}

// ownerFor resolves which user a request acts for. Admins may act for anyone;
// other callers only for themselves.
func ownerFor(ctx context.Context, requested *uuid.UUID) (uuid.UUID, error) {
	rd, err := caller(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if requested == nil || *requested == uuid.Nil || *requested == rd.UserID {
		return rd.UserID, nil
	}
	if rd.Role != types.RoleAdmin {
		return uuid.Nil, apierr.Forbidden("cannot act for another user")
	}
	return *requested, nil
}
