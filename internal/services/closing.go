package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/mailer"
	"github.com/diewo77/lens-console/internal/models"
	"github.com/diewo77/lens-console/validation"
)

// ClosingSubject is the subject line of the daily closing report.
const ClosingSubject = "Report Chiusura Giornaliera"

// ClosingInput carries the figures typed in at closing time.
type ClosingInput struct {
	CashTotal           decimal.Decimal `json:"cashTotal"`
	ContactLensPackages int             `json:"contactLensPackages" validate:"gte=0"`
	SunglassesSold      int             `json:"sunglassesSold" validate:"gte=0"`
	SunglassesRevenue   decimal.Decimal `json:"sunglassesRevenue"`
	RecipientIDs        []string        `json:"recipientIds"`
}

// ClosingReport is the composed message and how it was handed off.
type ClosingReport struct {
	Date       models.Date `json:"date"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body"`
	Recipients []string    `json:"recipients"`
	MailtoURL  string      `json:"mailtoUrl"`
	Sent       bool        `json:"sent"`
	SendError  string      `json:"sendError,omitempty"`
}

// ComposeClosingBody fills the fixed closing template.
func ComposeClosingBody(date models.Date, today WindowStats, in ClosingInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report di chiusura per la giornata del %s:\n\n", date)
	b.WriteString("RIEPILOGO DATI GIORNALIERI:\n")
	fmt.Fprintf(&b, "  - Totale Fatturato (da Cassa): %s €\n", in.CashTotal.StringFixed(2))
	fmt.Fprintf(&b, "  - Totale Commissionato (WO): %s €\n", today.TotalRevenue.StringFixed(2))
	fmt.Fprintf(&b, "    - Primi: %d\n", today.FirstOrders)
	fmt.Fprintf(&b, "    - Secondi: %d\n", today.SecondOrders)
	fmt.Fprintf(&b, "  - N. Pacchetti LAC: %d\n", in.ContactLensPackages)
	fmt.Fprintf(&b, "  - Occhiali da Sole Venduti: %d\n", in.SunglassesSold)
	fmt.Fprintf(&b, "  - Valore Occhiali da Sole: %s €\n\n", in.SunglassesRevenue.StringFixed(2))
	b.WriteString("Cordiali Saluti,\nIl Sistema Gestionale")
	return b.String()
}

// Mailer hands a composed message to the outgoing mail channel.
type Mailer interface {
	Deliver(ctx context.Context, msg mailer.Message) (mailer.Delivery, error)
}

// ContactLister reads the notification contacts of an owner.
type ContactLister interface {
	ListContacts(ctx context.Context, owner string) ([]models.NotificationContact, error)
}

// ClosingService composes and hands off the daily closing report.
type ClosingService struct {
	contacts ContactLister
	mailer   Mailer
	log      *zap.Logger
	clock    Clock
}

func NewClosingService(contacts ContactLister, m Mailer, log *zap.Logger, clock Clock) *ClosingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ClosingService{contacts: contacts, mailer: m, log: log, clock: clock}
}

func (in ClosingInput) validate() error {
	v := validation.Violations{}
	if err := validation.Struct(in, nil, v); err != nil {
		return err
	}
	validation.NonNegativeDecimal("cashTotal", in.CashTotal, v)
	validation.NonNegativeDecimal("sunglassesRevenue", in.SunglassesRevenue, v)
	if len(in.RecipientIDs) == 0 {
		v.Add("recipientIds", "select_recipient")
	}
	if !v.Empty() {
		return domain.NewValidationError(v)
	}
	return nil
}

// Close computes today's figures from snapshot, merges in the manual
// totals and addresses the report to the selected contacts.
func (s *ClosingService) Close(ctx context.Context, owner string, snapshot []models.Order, in ClosingInput) (*ClosingReport, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if s.mailer == nil {
		return nil, &domain.DependencyError{Dependency: "mailer"}
	}

	contacts, err := s.contacts.ListContacts(ctx, owner)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.NotificationContact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	recipients := make([]string, 0, len(in.RecipientIDs))
	seen := map[string]bool{}
	for _, id := range in.RecipientIDs {
		c, ok := byID[id]
		if !ok {
			return nil, domain.FieldError("recipientIds", "not_found")
		}
		if !seen[c.Email] {
			seen[c.Email] = true
			recipients = append(recipients, c.Email)
		}
	}

	today := s.clock.Today()
	stats := ComputeStatistics(snapshot, today, "it")
	report := &ClosingReport{
		Date:       today,
		Subject:    ClosingSubject,
		Body:       ComposeClosingBody(today, stats.Today, in),
		Recipients: recipients,
	}

	delivery, err := s.mailer.Deliver(ctx, mailer.Message{To: recipients, Subject: report.Subject, Body: report.Body})
	if err != nil {
		return nil, err
	}
	report.MailtoURL = delivery.MailtoURL
	report.Sent = delivery.Sent
	report.SendError = delivery.Failure
	s.log.Info("closing report composed",
		zap.String("owner", owner), zap.Int("recipients", len(recipients)), zap.Bool("sent", delivery.Sent))
	return report, nil
}
