package httpadapter

import (
	"context"
	"log/slog"

	"locker/contexts/vault-access/cipher-service/application"
	httptransport "locker/contexts/vault-access/cipher-service/transport/http"
)

// Handler maps HTTP DTOs to cipher access decisions.
type Handler struct {
	Authorizer application.Authorizer
	Logger     *slog.Logger
}

func (h Handler) CheckAccessHandler(
	ctx context.Context,
	actorUserID string,
	cipherID string,
) (httptransport.AccessResponse, error) {
	canRead, err := h.Authorizer.CanRead(ctx, actorUserID, cipherID)
	if err != nil {
		return httptransport.AccessResponse{}, err
	}
	canWrite, err := h.Authorizer.CanWrite(ctx, actorUserID, cipherID)
	if err != nil {
		return httptransport.AccessResponse{}, err
	}
	return httptransport.AccessResponse{
		CipherID: cipherID,
		UserID:   actorUserID,
		CanRead:  canRead,
		CanWrite: canWrite,
	}, nil
}
