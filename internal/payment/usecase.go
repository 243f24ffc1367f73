package payment

import (
	"context"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
)

type UseCase interface {
	// RecordPayment stores the payment and completes its order in one
	// transaction.
	RecordPayment(ctx context.Context, input *dto.RecordPaymentInput) (*model.Payment, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
	GetPaymentByReference(ctx context.Context, reference string) (*model.Payment, error)
	ListPayments(ctx context.Context, filters *dto.PaymentFilters) ([]model.Payment, int, error)
}
