package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/xavierca1/spinnata-waitlist/internal/entity"
)

const (
	ServiceMailingList  = "mailchimp"
	ServiceNotification = "smtp"
)

type CaptureLeadUseCase struct {
	Repo        entity.LeadRepositoryInterface
	MailingList MailingListSubscriber
	Notifier    LeadNotifier
	Logger      *zap.Logger

	// RecordIntegrationError is called with the service name whenever a side effect fails.
	RecordIntegrationError func(service string)

	inflight sync.WaitGroup
}

func NewCaptureLeadUseCase(
	repo entity.LeadRepositoryInterface,
	mailingList MailingListSubscriber,
	notifier LeadNotifier,
	logger *zap.Logger,
) *CaptureLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptureLeadUseCase{
		Repo:        repo,
		MailingList: mailingList,
		Notifier:    notifier,
		Logger:      logger,
	}
}

// Execute runs honeypot, validation, disposable-domain and sanitization checks,
// upserts the lead and launches the optional integrations without waiting for them.
// Rate limiting happens before this, at the transport.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	// honeypot first: a bot gets the silent drop whatever else it sent
	if IsHoneypotFilled(input.Company) {
		uc.Logger.Debug("honeypot field filled, dropping submission",
			zap.String("ip", input.ClientIP))
		return &CaptureLeadOutput{Status: StatusDropped}, nil
	}


	email := NormalizeEmail(input.Email)
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}


	if IsDisposableDomain(EmailDomain(email)) {
		return nil, ErrDisposableEmail
	}


	lead := &entity.Lead{
		Email:     StripHTML(email),
		Source:    sanitizeOptional(input.Source),
		Campaign:  sanitizeOptional(input.Campaign),
		UserAgent: sanitizeOptional(input.UserAgent),
		IP:        clientIPOrNil(input.ClientIP),
	}

	if err := uc.Repo.Upsert(ctx, lead); err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabaseError,
			Message: "failed to upsert lead",
			Err:     err,
		}
	}

	uc.Logger.Info("✅ lead captured",
		zap.String("id", lead.ID),
		zap.String("email", lead.Email))

	uc.launchSideEffects(context.WithoutCancel(ctx), *lead)

	return &CaptureLeadOutput{
		ID:     lead.ID,
		Status: StatusAccepted,
	}, nil
}

// launchSideEffects fires the mailing-list signup and the operator notification
// as two independent goroutines. Nothing they do reaches the caller.
func (uc *CaptureLeadUseCase) launchSideEffects(ctx context.Context, lead entity.Lead) {
	if uc.MailingList != nil {
		uc.inflight.Add(1)
		go func() {
			defer uc.inflight.Done()
			if err := uc.MailingList.Subscribe(ctx, lead.Email); err != nil {
				uc.integrationFailed(ServiceMailingList, lead, err)
			}
		}()
	}

	if uc.Notifier != nil {
		uc.inflight.Add(1)
		go func() {
			defer uc.inflight.Done()
			if err := uc.Notifier.NotifyNewLead(ctx, lead); err != nil {
				uc.integrationFailed(ServiceNotification, lead, err)
			}
		}()
	}
}

func (uc *CaptureLeadUseCase) integrationFailed(service string, lead entity.Lead, err error) {
	uc.Logger.Warn("⚠️ optional integration failed",
		zap.String("service", service),
		zap.String("lead_id", lead.ID),
		zap.Error(err))
	if uc.RecordIntegrationError != nil {
		uc.RecordIntegrationError(service)
	}
}

// Wait blocks until every side effect launched so far has finished.
// Used on shutdown so in-flight notifications are not cut off.
func (uc *CaptureLeadUseCase) Wait() {
	uc.inflight.Wait()
}
