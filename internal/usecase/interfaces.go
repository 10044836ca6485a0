package usecase

import (
	"context"

	"github.com/xavierca1/spinnata-waitlist/internal/entity"
)

// MailingListSubscriber registers an address with the external mailing list (double opt-in).
type MailingListSubscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// LeadNotifier tells the operator a lead came in.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead entity.Lead) error
}

type CaptureLeadUseCaseInterface interface {
	Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error)
}
