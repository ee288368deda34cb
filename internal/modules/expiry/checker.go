package expiry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"venuehub/internal/domain"
	"venuehub/internal/modules/booking"
	"venuehub/internal/pkg/mailer"

	"github.com/sirupsen/logrus"
)

const deadlineLayout = "2006-01-02 15:04 MST"

type BookingStore interface {
	ListAwaitingPayment(ctx context.Context) ([]domain.Booking, error)
	MarkExpiryNotificationSent(ctx context.Context, bookingID int64) (bool, error)
}

// Expirer performs the system cancellation of an unpaid acceptance.
type Expirer interface {
	ExpireBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type VenueLookup interface {
	GetVenueByID(ctx context.Context, id int64) (*domain.Venue, error)
	GetHallByID(ctx context.Context, id int64) (*domain.Hall, error)
}

type Notifier interface {
	NotifyBookingEvent(ctx context.Context, recipientID, bookingID int64, event domain.NotificationType, message string) error
}

type Config struct {
	PaymentWindow time.Duration
	WarningWindow time.Duration
}

// Report summarises one run of both passes.
type Report struct {
	Checked int `json:"checked"`
	Warned  int `json:"warned"`
	Expired int `json:"expired"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Checker runs the warning pass and the expiry pass over accepted bookings
// that still wait for their deposit. All state lives on the booking rows.
type Checker struct {
	bookings BookingStore
	expirer  Expirer
	users    UserLookup
	venues   VenueLookup
	mail     mailer.Mailer
	notifs   Notifier
	log      *logrus.Logger
	cfg      Config
	now      func() time.Time
}

func NewChecker(
	bookings BookingStore,
	expirer Expirer,
	users UserLookup,
	venues VenueLookup,
	mail mailer.Mailer,
	notifs Notifier,
	log *logrus.Logger,
	cfg Config,
) *Checker {
	return &Checker{
		bookings: bookings,
		expirer:  expirer,
		users:    users,
		venues:   venues,
		mail:     mail,
		notifs:   notifs,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Run executes the warning pass and then the expiry pass. An error is returned only
// when a working set could not be loaded, and the other pass still runs; per-booking
// failures are logged and counted.
func (c *Checker) Run(ctx context.Context) (Report, error) {
	var report Report
	var errs []error

	// each pass loads its own working set, so one failing load does not stop the other
	if err := c.warningPass(ctx, &report); err != nil {
		c.log.WithError(err).Error("expiry warning pass failed")
		errs = append(errs, fmt.Errorf("warning pass: %w", err))
	}
	if err := c.expiryPass(ctx, &report); err != nil {
		c.log.WithError(err).Error("expiry pass failed")
		errs = append(errs, fmt.Errorf("expiry pass: %w", err))
	}
	if len(errs) > 0 {
		return report, errors.Join(errs...)
	}

	c.log.WithFields(logrus.Fields{
		"checked": report.Checked,
		"warned":  report.Warned,
		"expired": report.Expired,
		"skipped": report.Skipped,
		"failed":  report.Failed,
	}).Info("expiry check finished")
	return report, nil
}

func (c *Checker) warningPass(ctx context.Context, report *Report) error {
	list, err := c.bookings.ListAwaitingPayment(ctx)
	if err != nil {
		return err
	}
	report.Checked = len(list)

	now := c.now()
	for i := range list {
		b := &list[i]
		if b.ExpiryNotificationSent {
			continue
		}
		deadline, ok := b.PaymentDeadline(c.cfg.PaymentWindow)
		if !ok {
			continue
		}
		remaining := deadline.Sub(now)
		if remaining <= 0 || remaining > c.cfg.WarningWindow {
			continue
		}

		claimed, err := c.warn(ctx, b, deadline, remaining)
		if err != nil {
			report.Failed++
			c.log.WithError(err).WithField("booking_id", b.ID).Error("expiry warning failed")
			continue
		}
		if !claimed {
			report.Skipped++
			continue
		}
		report.Warned++
	}
	return nil
}

// warn claims the one-time flag before sending. claimed is false when a
// concurrent or earlier run already took it, and then nothing is sent.
func (c *Checker) warn(ctx context.Context, b *domain.Booking, deadline time.Time, remaining time.Duration) (claimed bool, err error) {
	claimed, err = c.bookings.MarkExpiryNotificationSent(ctx, b.ID)
	if err != nil || !claimed {
		return false, err
	}

	parties, err := c.parties(ctx, b)
	if err != nil {
		return true, err
	}

	hoursLeft := int(math.Ceil(remaining.Hours()))
	data := mailer.BookingEmailData{
		BookingID:  b.ID,
		VenueName:  parties.place,
		EventDates: describeDates(b.Range()),
		Deadline:   deadline.UTC().Format(deadlineLayout),
		HoursLeft:  hoursLeft,
		AmountDue:  b.DepositAmount,
	}
	subject := fmt.Sprintf("Payment reminder for booking #%d", b.ID)
	c.sendEmails(ctx, b.ID, mailer.TemplateExpiryWarning, subject, data, parties)

	text := fmt.Sprintf("Booking #%d will be cancelled automatically if payment is not received by %s.",
		b.ID, data.Deadline)
	for _, id := range []int64{b.PlannerID, parties.ownerID} {
		if err := c.notifs.NotifyBookingEvent(ctx, id, b.ID, domain.NotifPaymentDeadlineSoon, text); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"booking_id":   b.ID,
				"recipient_id": id,
			}).Warn("payment deadline notification not sent")
		}
	}

	c.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"hours_left": hoursLeft,
	}).Info("payment deadline warning sent")
	return true, nil
}

func (c *Checker) expiryPass(ctx context.Context, report *Report) error {
	list, err := c.bookings.ListAwaitingPayment(ctx)
	if err != nil {
		return err
	}

	now := c.now()
	for i := range list {
		b := &list[i]
		deadline, ok := b.PaymentDeadline(c.cfg.PaymentWindow)
		if !ok || now.Before(deadline) {
			continue
		}

		expired, err := c.expirer.ExpireBooking(ctx, b.ID)
		if err != nil {
			if errors.Is(err, booking.ErrConcurrentUpdate) {
				// paid or cancelled since the query ran
				report.Skipped++
				c.log.WithField("booking_id", b.ID).Info("booking left the awaiting-payment set, not expiring")
				continue
			}
			report.Failed++
			c.log.WithError(err).WithField("booking_id", b.ID).Error("booking expiry failed")
			continue
		}
		report.Expired++

		parties, err := c.parties(ctx, expired)
		if err != nil {
			c.log.WithError(err).WithField("booking_id", b.ID).Warn("expiry emails skipped")
			continue
		}
		data := mailer.BookingEmailData{
			BookingID:  expired.ID,
			VenueName:  parties.place,
			EventDates: describeDates(expired.Range()),
			Deadline:   deadline.UTC().Format(deadlineLayout),
		}
		subject := fmt.Sprintf("Booking #%d was cancelled: payment not received", expired.ID)
		c.sendEmails(ctx, expired.ID, mailer.TemplateBookingExpired, subject, data, parties)
	}
	return nil
}

type bookingParties struct {
	planner *domain.User
	owner   *domain.User
	ownerID int64
	place   string
}

func (c *Checker) parties(ctx context.Context, b *domain.Booking) (*bookingParties, error) {
	venue, err := c.venues.GetVenueByID(ctx, b.VenueID)
	if err != nil {
		return nil, fmt.Errorf("load venue %d: %w", b.VenueID, err)
	}
	p := &bookingParties{ownerID: venue.OwnerUserID, place: venue.Name}
	if hall, err := c.venues.GetHallByID(ctx, b.HallID); err == nil {
		p.place = venue.Name + ", " + hall.Name
	}

	// a missing user only costs that user's email
	if u, err := c.users.GetByID(ctx, b.PlannerID); err == nil {
		p.planner = u
	} else {
		c.log.WithError(err).WithField("user_id", b.PlannerID).Warn("planner lookup failed")
	}
	if u, err := c.users.GetByID(ctx, venue.OwnerUserID); err == nil {
		p.owner = u
	} else {
		c.log.WithError(err).WithField("user_id", venue.OwnerUserID).Warn("owner lookup failed")
	}
	return p, nil
}

func (c *Checker) sendEmails(ctx context.Context, bookingID int64, template, subject string, data mailer.BookingEmailData, p *bookingParties) {
	recipients := []struct {
		user     *domain.User
		forOwner bool
	}{
		{p.planner, false},
		{p.owner, true},
	}
	for _, r := range recipients {
		if r.user == nil || r.user.Email == "" {
			continue
		}
		d := data
		d.RecipientName = r.user.Name
		d.ForOwner = r.forOwner

		body, err := mailer.Render(template, d)
		if err == nil {
			err = c.mail.Send(ctx, mailer.Message{To: r.user.Email, Subject: subject, HTML: body})
		}
		if err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"booking_id": bookingID,
				"to":         r.user.Email,
				"template":   template,
			}).Warn("booking email not sent")
		}
	}
}

func describeDates(r domain.DateRange) string {
	if r.Start.Equal(r.End) {
		return r.Start.String()
	}
	return r.Start.String() + " to " + r.End.String()
}
