package bookingService

import (
	"context"
	"errors"
	"testing"

	"github.com/ktrillos2/brahneyker/internal/api/booking"
	"github.com/ktrillos2/brahneyker/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPhone = "573001112233"

func turn(t *testing.T, svc *bookingService, text string) booking.WebhookResponse {
	t.Helper()
	res, err := svc.ProcessMessage(context.Background(), booking.WebhookRequest{Phone: testPhone, Text: text})
	require.NoError(t, err)
	return res
}

func TestGuidedBookingFlow(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, sender, _ := newTestService(repo, conversations)

	res := turn(t, svc, "Hola")
	assert.Equal(t, booking.StatusWelcome, res.Status)
	assert.Contains(t, res.Reply, "1. Agendar cita de uñas")

	res = turn(t, svc, "1")
	assert.Equal(t, booking.StatusAskService, res.Status)
	assert.Contains(t, res.Reply, "Polygel")

	res = turn(t, svc, "a")
	assert.Equal(t, booking.StatusAskProfessional, res.Status)
	assert.Contains(t, res.Reply, "Damaris")

	res = turn(t, svc, "1")
	assert.Equal(t, booking.StatusAskDate, res.Status)

	res = turn(t, svc, "el viernes a las 3 de la tarde")
	assert.Equal(t, booking.StatusAskName, res.Status)

	res = turn(t, svc, "Sofía")
	assert.Equal(t, booking.StatusConfirmBooking, res.Status)
	assert.Contains(t, res.Reply, "Polygel con Damaris")
	assert.Contains(t, res.Reply, "Sofía")

	res = turn(t, svc, "sí")
	assert.Equal(t, booking.StatusBooked, res.Status)

	require.Len(t, repo.store.appointments, 1)
	appt := repo.store.appointments[0]
	assert.Equal(t, "2026-09-04", appt.Date)
	assert.Equal(t, "15:00", appt.Time)
	assert.Equal(t, "Damaris", appt.Professional)
	assert.Equal(t, "Polygel", appt.ServiceType)
	assert.Equal(t, "Sofía", appt.ClientName)
	assert.Equal(t, string(entity.AppointmentStatusConfirmed), appt.Status)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, 1, repo.commits)

	// Conversation memory is gone once the booking stands.
	_, ok := conversations.states[testPhone]
	assert.False(t, ok)

	// Every turn answered over WhatsApp too.
	assert.Len(t, sender.sent, 7)

	// With a booking on file the bot leaves follow-ups to the staff.
	res = turn(t, svc, "sí")
	assert.Equal(t, booking.StatusIgnored, res.Status)
}

func TestOneShotMessageSkipsToName(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	svc, _, _ := newTestService(repo, newFakeConversationStore())

	res := turn(t, svc, "Quiero polygel con damaris mañana a las 3pm")
	assert.Equal(t, booking.StatusAskName, res.Status)
}

func TestOneShotForTwoClientsAtOnce(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	turn(t, svc, "semipermanente con damaris y fabiola mañana a las 2 de la tarde")
	turn(t, svc, "Laura")
	res := turn(t, svc, "sí")
	assert.Equal(t, booking.StatusBooked, res.Status)

	require.Len(t, repo.store.appointments, 2)
	assert.Equal(t, "Damaris", repo.store.appointments[0].Professional)
	assert.Equal(t, "Fabiola", repo.store.appointments[1].Professional)
	for _, appt := range repo.store.appointments {
		assert.Equal(t, "2026-09-01", appt.Date)
		assert.Equal(t, "14:00", appt.Time)
		assert.Equal(t, "Semipermanente", appt.ServiceType)
		assert.Equal(t, "Laura", appt.ClientName)
	}
}

func TestAmbiguousTimeAsksMeridiem(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	res := turn(t, svc, "polygel con damaris mañana a las 9")
	assert.Equal(t, booking.StatusAskMeridiem, res.Status)
	assert.Contains(t, res.Reply, "mañana o en la tarde")

	res = turn(t, svc, "en la mañana")
	assert.Equal(t, booking.StatusAskName, res.Status)

	state := conversations.states[testPhone]
	assert.Equal(t, "09:00", state.Slots.Time)
	assert.False(t, state.Slots.TimeAmbiguous)
}

func TestMeridiemAnswerCanLandOutsideHours(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	turn(t, svc, "polygel con damaris mañana a las 9")
	res := turn(t, svc, "en la noche")
	assert.Equal(t, booking.StatusUnavailable, res.Status)
	assert.Contains(t, res.Reply, "cerrado")

	// The date is dropped but the service choice survives the retry.
	state := conversations.states[testPhone]
	assert.Equal(t, entity.StepSelectDate, state.Step)
	assert.Empty(t, state.Slots.Date)
	require.Len(t, state.Slots.Requests, 1)
	assert.Equal(t, "Polygel", state.Slots.Requests[0].Service)
}

func TestOccupiedSlotOffersAnotherDate(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{appointments: []entity.Appointment{{
		ID:           "existing",
		Date:         "2026-09-01",
		Time:         "15:00",
		Duration:     60,
		Professional: "Damaris",
		Status:       string(entity.AppointmentStatusConfirmed),
		ClientPhone:  "573009998877",
	}}}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	res := turn(t, svc, "polygel con damaris mañana a las 3pm")
	assert.Equal(t, booking.StatusUnavailable, res.Status)
	assert.Contains(t, res.Reply, "Damaris ya tiene una cita")

	state := conversations.states[testPhone]
	assert.Equal(t, entity.StepSelectDate, state.Step)
	assert.Empty(t, state.Slots.Date)
	assert.Len(t, state.Slots.Requests, 1)
}

func TestConfirmRaceFallsBackToDate(t *testing.T) {
	store := &fakeAppointmentStore{}
	repo := &fakeRepository{store: store}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	conversations.states[testPhone] = entity.ConversationState{
		Phone: testPhone,
		Step:  entity.StepConfirmBooking,
		Slots: entity.SlotData{
			Requests:   []entity.BookingRequest{{Professional: "Damaris", Service: "Polygel"}},
			Date:       "2026-09-01",
			Time:       "15:00",
			ClientName: "Sofía",
		},
	}

	// Someone else books the slot between the summary and the confirmation.
	store.appointments = append(store.appointments, entity.Appointment{
		ID:           "race-winner",
		Date:         "2026-09-01",
		Time:         "15:00",
		Duration:     60,
		Professional: "Damaris",
		Status:       string(entity.AppointmentStatusConfirmed),
		ClientPhone:  "573009998877",
	})

	res := turn(t, svc, "sí")
	assert.Equal(t, booking.StatusUnavailable, res.Status)
	assert.Equal(t, 1, repo.rollbacks)
	assert.Zero(t, repo.commits)
	require.Len(t, store.appointments, 1)

	state := conversations.states[testPhone]
	assert.Equal(t, entity.StepSelectDate, state.Step)
}

func TestNonAffirmativeConfirmationRestartsDate(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	turn(t, svc, "polygel con damaris mañana a las 3pm")
	turn(t, svc, "Sofía")
	res := turn(t, svc, "mejor no")
	assert.Equal(t, booking.StatusAskDate, res.Status)

	state := conversations.states[testPhone]
	assert.Equal(t, entity.StepSelectDate, state.Step)
	assert.Empty(t, state.Slots.Date)
	assert.Empty(t, repo.store.appointments)
	// The name survives, only the date is renegotiated.
	assert.Equal(t, "Sofía", state.Slots.ClientName)
}

func TestOtherServiceHandsOff(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, mailer := newTestService(repo, conversations)

	res := turn(t, svc, "Hacen cortes de cabello?")
	assert.Equal(t, booking.StatusHandoff, res.Status)
	assert.NotEmpty(t, res.Reply)
	assert.Len(t, mailer.alerts, 1)

	// Follow-ups stay silent until a human takes over.
	res = turn(t, svc, "hola?")
	assert.Equal(t, booking.StatusHandoff, res.Status)
	assert.Empty(t, res.Reply)
	assert.Len(t, mailer.alerts, 1)
}

func TestWelcomeMenuOptionTwoHandsOff(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	svc, _, mailer := newTestService(repo, newFakeConversationStore())

	turn(t, svc, "hola")
	res := turn(t, svc, "2")
	assert.Equal(t, booking.StatusHandoff, res.Status)
	assert.Len(t, mailer.alerts, 1)
}

func TestGroupMessagesIgnored(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	svc, sender, _ := newTestService(repo, newFakeConversationStore())

	res, err := svc.ProcessMessage(context.Background(), booking.WebhookRequest{
		Phone: testPhone, Text: "hola", IsGroup: true,
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusIgnored, res.Status)
	assert.Empty(t, sender.sent)
}

func TestBusyTurnLockDropsMessage(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	conversations.lockBusy = true
	svc, _, _ := newTestService(repo, conversations)

	res := turn(t, svc, "hola")
	assert.Equal(t, booking.StatusIgnored, res.Status)
}

func TestExistingFutureBookingIgnoresNewConversation(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{appointments: []entity.Appointment{{
		ID:          "future",
		Date:        "2026-09-10",
		Time:        "10:00",
		Status:      string(entity.AppointmentStatusConfirmed),
		ClientPhone: testPhone,
	}}}}
	svc, sender, _ := newTestService(repo, newFakeConversationStore())

	res := turn(t, svc, "hola")
	assert.Equal(t, booking.StatusIgnored, res.Status)
	assert.Empty(t, sender.sent)
}

func TestKnownClientSkipsNameQuestion(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{appointments: []entity.Appointment{{
		ID:          "past",
		Date:        "2026-08-01",
		Time:        "10:00",
		Status:      string(entity.AppointmentStatusCompleted),
		ClientPhone: testPhone,
		ClientName:  "Valentina",
	}}}}
	svc, _, _ := newTestService(repo, newFakeConversationStore())

	res := turn(t, svc, "polygel con damaris mañana a las 3pm")
	assert.Equal(t, booking.StatusConfirmBooking, res.Status)
	assert.Contains(t, res.Reply, "Valentina")
}

func TestGreetingResetsMidFlow(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	turn(t, svc, "polygel con damaris mañana a las 3pm")
	res := turn(t, svc, "reiniciar")
	assert.Equal(t, booking.StatusWelcome, res.Status)

	state := conversations.states[testPhone]
	assert.Empty(t, state.Slots.Requests)
}

func TestStateStoreFailureApologizes(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	conversations.upsertErr = errors.New("redis down")
	svc, sender, _ := newTestService(repo, conversations)

	res := turn(t, svc, "hola")
	assert.Equal(t, booking.StatusError, res.Status)
	assert.Contains(t, res.Reply, "inténtalo de nuevo")
	require.Len(t, sender.sent, 1)
}

func TestMissingPhoneOrTextRejected(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	svc, _, _ := newTestService(repo, newFakeConversationStore())

	_, err := svc.ProcessMessage(context.Background(), booking.WebhookRequest{Phone: testPhone, Text: "   "})
	assert.ErrorIs(t, err, booking.ErrMissingPhoneOrText)

	_, err = svc.ProcessMessage(context.Background(), booking.WebhookRequest{Text: "hola"})
	assert.ErrorIs(t, err, booking.ErrMissingPhoneOrText)
}

func TestPastClockTodayAsksForDateAgain(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	// 09:00 already passed at the fixed test clock, so the mention yields
	// no date at all and the bot asks for one.
	res := turn(t, svc, "polygel con damaris hoy a las 9 de la mañana")
	assert.Equal(t, booking.StatusAskDate, res.Status)

	state := conversations.states[testPhone]
	assert.Empty(t, state.Slots.Date)
	require.Len(t, state.Slots.Requests, 1)

	res = turn(t, svc, "el viernes a las 3 de la tarde")
	assert.Equal(t, booking.StatusAskName, res.Status)
	assert.Len(t, repo.store.appointments, 0)
}

func TestMeridiemAnswerLandingInThePastReprompts(t *testing.T) {
	repo := &fakeRepository{store: &fakeAppointmentStore{}}
	conversations := newFakeConversationStore()
	svc, _, _ := newTestService(repo, conversations)

	res := turn(t, svc, "polygel con damaris hoy a las 9")
	assert.Equal(t, booking.StatusAskMeridiem, res.Status)

	// "mañana" here means morning, and 09:00 today is already behind now.
	res = turn(t, svc, "mañana")
	assert.Equal(t, booking.StatusAskDate, res.Status)
	assert.Contains(t, res.Reply, "ya pasó")

	state := conversations.states[testPhone]
	assert.Empty(t, state.Slots.Date)
	assert.Empty(t, state.Slots.Time)
	assert.False(t, state.Slots.TimeAmbiguous)
	require.Len(t, state.Slots.Requests, 1)

	res = turn(t, svc, "el viernes a las 3 de la tarde")
	assert.Equal(t, booking.StatusAskName, res.Status)
}

func TestFillServiceLeavesCompletePairsAlone(t *testing.T) {
	slots := &entity.SlotData{Requests: []entity.BookingRequest{
		{Service: "Polygel", Professional: "Damaris"},
	}}

	fillService(slots, "Semipermanente")
	require.Len(t, slots.Requests, 1)
	assert.Equal(t, "Polygel", slots.Requests[0].Service)

	slots.Requests = append(slots.Requests, entity.BookingRequest{Professional: "Fabiola"})
	fillService(slots, "Semipermanente")
	assert.Equal(t, "Semipermanente", slots.Requests[1].Service)

	empty := &entity.SlotData{}
	fillService(empty, "Polygel")
	require.Len(t, empty.Requests, 1)
	assert.Equal(t, "Polygel", empty.Requests[0].Service)
}
