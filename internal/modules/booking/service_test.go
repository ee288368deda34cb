package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"venuehub/internal/database"
	"venuehub/internal/domain"
	"venuehub/internal/repository"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const otherPlannerID int64 = 201

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyBookingEvent(ctx context.Context, recipientID, bookingID int64, event domain.NotificationType, message string) error {
	args := m.Called(ctx, recipientID, bookingID, event, message)
	return args.Error(0)
}

type testEnv struct {
	svc      *Service
	bookings *repository.BookingRepository
	blocked  *repository.BlockedDateRepository
	messages *repository.MessageRepository
	notifs   *MockNotificationSender
	venue    *domain.Venue
	hall     *domain.Hall
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.ConnectSilent(fmt.Sprintf("file:booking_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	ctx := context.Background()
	venues := repository.NewVenueRepository(db)
	venue := &domain.Venue{OwnerUserID: testOwnerID, Name: "Grand Palace", Slug: "grand-palace", City: "Almaty"}
	require.NoError(t, venues.CreateVenue(ctx, venue))
	hall := &domain.Hall{VenueID: venue.ID, Name: "Main Hall", Capacity: 300, Price: 200000, DepositPercentage: 50}
	require.NoError(t, venues.CreateHall(ctx, hall))

	notifs := new(MockNotificationSender)
	notifs.On("NotifyBookingEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	log, _ := test.NewNullLogger()
	env := &testEnv{
		bookings: repository.NewBookingRepository(db),
		blocked:  repository.NewBlockedDateRepository(db),
		messages: repository.NewMessageRepository(db),
		notifs:   notifs,
		venue:    venue,
		hall:     hall,
		now:      time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(env.bookings, venues, env.blocked, env.messages, notifs, log, Config{
		ServiceFeePercent: DefaultServiceFeePercent,
		PaymentWindow:     24 * time.Hour,
	}).WithClock(func() time.Time { return env.now })
	return env
}

func (e *testEnv) request(t *testing.T, plannerID int64, start, end string) *domain.Booking {
	t.Helper()
	in := CreateBookingInput{PlannerID: plannerID, HallID: e.hall.ID, StartDate: domain.MustParseDate(start)}
	if end != "" {
		d := domain.MustParseDate(end)
		in.EndDate = &d
	}
	b, err := e.svc.CreateBooking(context.Background(), in)
	require.NoError(t, err)
	return b
}

func (e *testEnv) transition(actor Actor, id int64, target domain.BookingStatus, reason string) (*TransitionResult, error) {
	return e.svc.TransitionStatus(context.Background(), TransitionInput{
		BookingID:          id,
		Actor:              actor,
		TargetStatus:       string(target),
		CancellationReason: reason,
	})
}

func (e *testEnv) reload(t *testing.T, id int64) *domain.Booking {
	t.Helper()
	b, err := e.bookings.GetByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

func TestCreateBooking_PricesFromHall(t *testing.T) {
	e := newTestEnv(t)

	b := e.request(t, testPlannerID, "2025-06-01", "")

	assert.Equal(t, domain.BookingRequested, b.Status)
	assert.Equal(t, domain.PaymentUnpaid, b.PaymentStatus)
	assert.Equal(t, e.venue.ID, b.VenueID)
	assert.Equal(t, int64(210000), b.TotalAmount)
	assert.Equal(t, int64(105000), b.DepositAmount)
	assert.Equal(t, int64(105000), b.BalanceAmount)
	assert.Equal(t, b.TotalAmount, b.DepositAmount+b.BalanceAmount)
	assert.Nil(t, b.EndDate)
	assert.Nil(t, b.AcceptedAt)

	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, testOwnerID, b.ID, domain.NotifBookingRequested, mock.Anything)

	multi := e.request(t, testPlannerID, "2025-07-01", "2025-07-03")
	assert.Equal(t, int64(630000), multi.TotalAmount)
	assert.Equal(t, multi.TotalAmount, multi.DepositAmount+multi.BalanceAmount)
}

func TestCreateBooking_Rejections(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreateBooking(ctx, CreateBookingInput{PlannerID: testPlannerID, HallID: e.hall.ID, StartDate: domain.MustParseDate("2025-04-30")})
	assert.ErrorIs(t, err, ErrValidation)

	end := domain.MustParseDate("2025-06-01")
	_, err = e.svc.CreateBooking(ctx, CreateBookingInput{PlannerID: testPlannerID, HallID: e.hall.ID, StartDate: domain.MustParseDate("2025-06-05"), EndDate: &end})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.svc.CreateBooking(ctx, CreateBookingInput{PlannerID: testPlannerID, HallID: 9999, StartDate: domain.MustParseDate("2025-06-01")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.svc.BlockDate(ctx, owner, e.hall.ID, domain.MustParseDate("2025-06-10"), "maintenance")
	require.NoError(t, err)
	blockedEnd := domain.MustParseDate("2025-06-11")
	_, err = e.svc.CreateBooking(ctx, CreateBookingInput{PlannerID: testPlannerID, HallID: e.hall.ID, StartDate: domain.MustParseDate("2025-06-09"), EndDate: &blockedEnd})
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestCreateBooking_PendingRequestsMayOverlap(t *testing.T) {
	e := newTestEnv(t)

	first := e.request(t, testPlannerID, "2025-06-01", "")
	second := e.request(t, otherPlannerID, "2025-06-01", "")

	assert.NotEqual(t, first.ID, second.ID)
}

func TestScenarioA_AcceptCancelsCompetingRequests(t *testing.T) {
	e := newTestEnv(t)

	b1 := e.request(t, testPlannerID, "2025-06-01", "")
	b2 := e.request(t, otherPlannerID, "2025-06-01", "")
	unrelated := e.request(t, otherPlannerID, "2025-06-02", "")

	e.now = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	res, err := e.transition(owner, b1.ID, domain.BookingAccepted, "")
	require.NoError(t, err)

	assert.Equal(t, domain.BookingAccepted, res.Booking.Status)
	require.NotNil(t, res.Booking.AcceptedAt)
	assert.WithinDuration(t, e.now, *res.Booking.AcceptedAt, time.Second)
	assert.Equal(t, []int64{b2.ID}, res.AutoCancelledIDs)

	loser := e.reload(t, b2.ID)
	assert.Equal(t, domain.BookingCancelled, loser.Status)
	assert.Equal(t, "Another booking for this date has been accepted by the venue owner.", loser.CancellationReason)
	assert.Equal(t, domain.BookingRequested, e.reload(t, unrelated.ID).Status)

	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, testPlannerID, b1.ID, domain.NotifBookingAccepted, mock.Anything)
	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, otherPlannerID, b2.ID, domain.NotifBookingAutoCancelled, mock.Anything)

	// at most one non-cancelled booking per overlapping range after acceptance
	live, err := e.bookings.FindOverlapping(context.Background(), e.hall.ID, b1.Range(), domain.ActiveBookingStatuses, 0)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, b1.ID, live[0].ID)

	// the accepted booking now holds the date against new requests
	_, err = e.svc.CreateBooking(context.Background(), CreateBookingInput{PlannerID: otherPlannerID, HallID: e.hall.ID, StartDate: domain.MustParseDate("2025-06-01")})
	assert.ErrorIs(t, err, ErrNotAvailable)

	msgs, err := e.svc.ListMessages(context.Background(), planner, b1.ID)
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Contains(t, msgs[len(msgs)-1].Body, "pay within 24 hours")
}

func TestAccept_RejectsWhenFirmBookingOverlaps(t *testing.T) {
	e := newTestEnv(t)

	b1 := e.request(t, testPlannerID, "2025-06-01", "2025-06-03")
	b2 := e.request(t, otherPlannerID, "2025-06-03", "")

	_, err := e.transition(owner, b1.ID, domain.BookingAccepted, "")
	require.NoError(t, err)

	// b2 was cancelled by the resolver; reviving an overlapping accept must fail too
	require.Equal(t, domain.BookingCancelled, e.reload(t, b2.ID).Status)

	b3 := &domain.Booking{
		VenueID: e.venue.ID, HallID: e.hall.ID, PlannerID: otherPlannerID,
		StartDate: domain.MustParseDate("2025-06-02"), Status: domain.BookingRequested,
		PaymentStatus: domain.PaymentUnpaid,
	}
	require.NoError(t, e.bookings.Create(context.Background(), b3))

	_, err = e.transition(owner, b3.ID, domain.BookingAccepted, "")
	assert.ErrorIs(t, err, ErrNotAvailable)
	assert.Equal(t, domain.BookingRequested, e.reload(t, b3.ID).Status)
}

func TestAccept_ConcurrentOverlappingAcceptsLeaveOneAccepted(t *testing.T) {
	e := newTestEnv(t)

	b1 := e.request(t, testPlannerID, "2025-06-01", "2025-06-02")
	b2 := e.request(t, otherPlannerID, "2025-06-02", "2025-06-03")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []int64{b1.ID, b2.ID} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.transition(owner, id, domain.BookingAccepted, "")
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		// the loser either saw the winner's firm booking or was already auto-cancelled
		assert.True(t, errors.Is(err, ErrNotAvailable) || errors.Is(err, ErrConcurrentUpdate) ||
			errors.Is(err, ErrInvalidStatusTransition), err)
	}
	assert.Equal(t, 1, succeeded)

	firm, err := e.bookings.FindOverlapping(context.Background(), e.hall.ID,
		domain.NewDateRange(domain.MustParseDate("2025-06-01"), ptrDate("2025-06-03")), domain.FirmBookingStatuses, 0)
	require.NoError(t, err)
	assert.Len(t, firm, 1)
}

func ptrDate(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}

func TestScenarioC_PlannerMustRequestCancellationAfterPayment(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	b := e.request(t, testPlannerID, "2025-06-01", "")
	_, err := e.transition(owner, b.ID, domain.BookingAccepted, "")
	require.NoError(t, err)

	paid, err := e.svc.RecordPayment(ctx, b.ID, PaymentDeposit)
	require.NoError(t, err)
	require.Equal(t, domain.BookingPaid, paid.Status)
	assert.True(t, paid.DepositPaid)
	assert.False(t, paid.BalancePaid)
	assert.Equal(t, domain.PaymentDepositPaid, paid.PaymentStatus)

	_, err = e.transition(planner, b.ID, domain.BookingCancelled, "")
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, "Cannot cancel directly after payment. Please request cancellation instead.", err.Error())
	assert.Equal(t, domain.BookingPaid, e.reload(t, b.ID).Status)

	res, err := e.transition(planner, b.ID, domain.BookingCancellationRequested, "Family emergency")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancellationRequested, res.Booking.Status)
	assert.Equal(t, "Family emergency", res.Booking.CancellationReason)
	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, testOwnerID, b.ID, domain.NotifCancellationRequested, mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "Family emergency")
	}))

	res, err = e.transition(owner, b.ID, domain.BookingConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, res.Booking.Status)
	assert.Equal(t, domain.BookingConfirmed, e.reload(t, b.ID).Status)
}

func TestRoundTrip_BookedDates(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	b := e.request(t, testPlannerID, "2025-12-01", "")

	dates, err := e.svc.GetHallBookedDates(ctx, e.hall.ID)
	require.NoError(t, err)
	require.Len(t, dates, 1)
	assert.Equal(t, "2025-12-01", dates[0].String())

	_, err = e.transition(planner, b.ID, domain.BookingCancelled, "")
	require.NoError(t, err)

	dates, err = e.svc.GetHallBookedDates(ctx, e.hall.ID)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestGetHallAvailability_SeparatesBookedAndBlocked(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	e.request(t, testPlannerID, "2025-06-01", "2025-06-03")
	e.request(t, otherPlannerID, "2025-06-02", "")
	done := e.request(t, otherPlannerID, "2025-06-20", "")
	_, err := e.transition(owner, done.ID, domain.BookingCancelled, "Venue closed")
	require.NoError(t, err)

	block, err := e.svc.BlockDate(ctx, owner, e.hall.ID, domain.MustParseDate("2025-06-10"), "private event")
	require.NoError(t, err)

	av, err := e.svc.GetHallAvailability(ctx, e.hall.ID)
	require.NoError(t, err)

	var booked []string
	for _, d := range av.BookedDates {
		booked = append(booked, d.String())
	}
	assert.Equal(t, []string{"2025-06-01", "2025-06-02", "2025-06-03"}, booked)
	require.Len(t, av.BlockedDates, 1)
	assert.Equal(t, block.ID, av.BlockedDates[0].ID)
	assert.Equal(t, "private event", av.BlockedDates[0].Reason)

	_, err = e.svc.GetHallAvailability(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlockDate_Rules(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	date := domain.MustParseDate("2025-06-10")

	_, err := e.svc.BlockDate(ctx, planner, e.hall.ID, date, "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.svc.BlockDate(ctx, Actor{Kind: ActorVenueOwner, UserID: 999}, e.hall.ID, date, "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.svc.BlockDate(ctx, owner, e.hall.ID, domain.MustParseDate("2025-04-01"), "")
	assert.ErrorIs(t, err, ErrValidation)

	block, err := e.svc.BlockDate(ctx, admin, e.hall.ID, date, "")
	require.NoError(t, err)
	_, err = e.svc.BlockDate(ctx, owner, e.hall.ID, date, "again")
	assert.ErrorIs(t, err, ErrAlreadyBlocked)

	assert.ErrorIs(t, e.svc.UnblockDate(ctx, owner, e.hall.ID, block.ID+100), ErrNotFound)
	require.NoError(t, e.svc.UnblockDate(ctx, owner, e.hall.ID, block.ID))

	bookable := e.svc.IsBookable(ctx, e.hall.ID, domain.NewDateRange(date, nil), domain.DateOf(e.now))
	assert.NoError(t, bookable)
}

func TestTransitionStatus_ValidationOrder(t *testing.T) {
	e := newTestEnv(t)
	b := e.request(t, testPlannerID, "2025-06-01", "")
	stranger := Actor{Kind: ActorPlanner, UserID: 999}

	_, err := e.transition(owner, 424242, "archived", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.transition(stranger, b.ID, "archived", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = e.transition(stranger, b.ID, domain.BookingCancelled, "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.transition(planner, b.ID, domain.BookingCancellationRequested, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = e.transition(owner, b.ID, domain.BookingCompleted, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	assert.Equal(t, domain.BookingRequested, e.reload(t, b.ID).Status)
}

// staleBookingRepository simulates another writer winning the conditional update.
type staleBookingRepository struct {
	*repository.BookingRepository
}

func (staleBookingRepository) UpdateStatusIf(context.Context, int64, domain.BookingStatus, repository.StatusUpdate) (bool, error) {
	return false, nil
}

func (staleBookingRepository) AcceptIfFree(context.Context, *domain.Booking, repository.StatusUpdate) (bool, bool, error) {
	return false, false, nil
}

func TestTransitionStatus_LostRaceIsReported(t *testing.T) {
	e := newTestEnv(t)
	b := e.request(t, testPlannerID, "2025-06-01", "")

	e.svc.bookings = staleBookingRepository{e.bookings}
	_, err := e.transition(owner, b.ID, domain.BookingAccepted, "")

	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	e.notifs.AssertNotCalled(t, "NotifyBookingEvent", mock.Anything, testPlannerID, b.ID, domain.NotifBookingAccepted, mock.Anything)
}

func TestTransitionStatus_NotificationFailureDoesNotRollBack(t *testing.T) {
	e := newTestEnv(t)
	b := e.request(t, testPlannerID, "2025-06-01", "")

	failing := new(MockNotificationSender)
	failing.On("NotifyBookingEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("smtp down"))
	e.svc.notifs = failing

	res, err := e.transition(owner, b.ID, domain.BookingAccepted, "")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, res.Booking.Status)
	assert.Equal(t, domain.BookingAccepted, e.reload(t, b.ID).Status)
	failing.AssertNumberOfCalls(t, "NotifyBookingEvent", 1)
}

func TestExpireBooking(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	b := e.request(t, testPlannerID, "2025-06-01", "")
	_, err := e.svc.ExpireBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrConcurrentUpdate, "requested bookings are not awaiting payment")

	_, err = e.transition(owner, b.ID, domain.BookingAccepted, "")
	require.NoError(t, err)

	expired, err := e.svc.ExpireBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, expired.Status)
	assert.Equal(t, "Automatically expired: payment not received before deadline", expired.CancellationReason)
	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, testPlannerID, b.ID, domain.NotifBookingExpired, mock.Anything)
	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, testOwnerID, b.ID, domain.NotifBookingExpired, mock.Anything)

	_, err = e.svc.ExpireBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
}

func TestExpireBooking_SkipsPaidBooking(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	b := e.request(t, testPlannerID, "2025-06-01", "")
	_, err := e.transition(owner, b.ID, domain.BookingAccepted, "")
	require.NoError(t, err)
	_, err = e.svc.RecordPayment(ctx, b.ID, PaymentDeposit)
	require.NoError(t, err)

	_, err = e.svc.ExpireBooking(ctx, b.ID)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, domain.BookingPaid, e.reload(t, b.ID).Status)
}

func TestRecordPayment(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	b := e.request(t, testPlannerID, "2025-06-01", "")
	_, err := e.svc.RecordPayment(ctx, b.ID, PaymentDeposit)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = e.transition(owner, b.ID, domain.BookingAccepted, "")
	require.NoError(t, err)
	_, err = e.svc.RecordPayment(ctx, b.ID, PaymentBalance)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = e.svc.RecordPayment(ctx, b.ID, PaymentDeposit)
	require.NoError(t, err)
	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, testOwnerID, b.ID, domain.NotifPaymentReceived, mock.Anything)
	e.notifs.AssertCalled(t, "NotifyBookingEvent", mock.Anything, testPlannerID, b.ID, domain.NotifPaymentSuccessful, mock.Anything)

	settled, err := e.svc.RecordPayment(ctx, b.ID, PaymentBalance)
	require.NoError(t, err)
	assert.True(t, settled.BalancePaid)
	assert.Equal(t, domain.PaymentPaid, settled.PaymentStatus)
	assert.Equal(t, domain.BookingPaid, settled.Status)

	_, err = e.svc.RecordPayment(ctx, b.ID, PaymentBalance)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = e.svc.RecordPayment(ctx, b.ID, "refund")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordPayment_FullDepositHall(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	venues := e.svc.venues.(*repository.VenueRepository)
	full := &domain.Hall{VenueID: e.venue.ID, Name: "Terrace", Price: 1000, DepositPercentage: 100}
	require.NoError(t, venues.CreateHall(ctx, full))

	b, err := e.svc.CreateBooking(ctx, CreateBookingInput{PlannerID: testPlannerID, HallID: full.ID, StartDate: domain.MustParseDate("2025-06-01")})
	require.NoError(t, err)
	assert.Zero(t, b.BalanceAmount)

	_, err = e.transition(owner, b.ID, domain.BookingAccepted, "")
	require.NoError(t, err)
	paid, err := e.svc.RecordPayment(ctx, b.ID, PaymentDeposit)
	require.NoError(t, err)
	assert.True(t, paid.BalancePaid)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)
}

func TestGetBookingAndLists_Visibility(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	b := e.request(t, testPlannerID, "2025-06-01", "")

	_, err := e.svc.GetBooking(ctx, planner, b.ID)
	assert.NoError(t, err)
	_, err = e.svc.GetBooking(ctx, owner, b.ID)
	assert.NoError(t, err)
	_, err = e.svc.GetBooking(ctx, admin, b.ID)
	assert.NoError(t, err)
	_, err = e.svc.GetBooking(ctx, Actor{Kind: ActorPlanner, UserID: otherPlannerID}, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	mine, err := e.svc.ListPlannerBookings(ctx, planner, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	list, err := e.svc.ListVenueBookings(ctx, owner, e.venue.ID, "requested", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = e.svc.ListVenueBookings(ctx, owner, e.venue.ID, "bogus", 10, 0)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = e.svc.ListVenueBookings(ctx, Actor{Kind: ActorVenueOwner, UserID: 999}, e.venue.ID, "", 10, 0)
	assert.ErrorIs(t, err, ErrForbidden)
}
