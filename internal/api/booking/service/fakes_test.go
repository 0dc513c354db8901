package bookingService

import (
	"io"
	"time"

	bookingRepository "github.com/ktrillos2/brahneyker/internal/api/booking/repository"
	"github.com/ktrillos2/brahneyker/internal/api/booking"
	"github.com/ktrillos2/brahneyker/internal/entity"
	"github.com/ktrillos2/brahneyker/pkg/nlp"
	redisPkg "github.com/ktrillos2/brahneyker/pkg/redis"
	"github.com/ktrillos2/brahneyker/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var testNow = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

type fakeAppointmentStore struct {
	appointments []entity.Appointment
	createErr    error
	lockCalls    int
}

func (f *fakeAppointmentStore) Create(_ context.Context, appointment entity.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.appointments = append(f.appointments, appointment)
	return nil
}

func (f *fakeAppointmentStore) GetByID(_ context.Context, id string) (entity.Appointment, error) {
	for _, appt := range f.appointments {
		if appt.ID == id {
			return appt, nil
		}
	}
	return entity.Appointment{}, booking.ErrAppointmentNotFound
}

func (f *fakeAppointmentStore) ListActiveByProfessionalAndDate(_ context.Context, professional, date string) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, appt := range f.appointments {
		if appt.Professional == professional && appt.Date == date && appt.Status != string(entity.AppointmentStatusCancelled) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListByPhone(_ context.Context, phone string) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, appt := range f.appointments {
		if appt.ClientPhone == phone {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) LockProfessionalDay(c context.Context, professional, date string) ([]entity.Appointment, error) {
	f.lockCalls++
	return f.ListActiveByProfessionalAndDate(c, professional, date)
}

func (f *fakeAppointmentStore) HasFutureActive(_ context.Context, phone, fromDate string) (bool, error) {
	for _, appt := range f.appointments {
		if appt.ClientPhone == phone && appt.Date >= fromDate && appt.Status != string(entity.AppointmentStatusCancelled) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointmentStore) LatestClientName(_ context.Context, phone string) (string, error) {
	for i := len(f.appointments) - 1; i >= 0; i-- {
		if f.appointments[i].ClientPhone == phone && f.appointments[i].ClientName != "" {
			return f.appointments[i].ClientName, nil
		}
	}
	return "", nil
}

func (f *fakeAppointmentStore) UpdateStatus(_ context.Context, id, status string) error {
	if !entity.IsValidAppointmentStatus(status) {
		return booking.ErrInvalidStatus
	}
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments[i].Status = status
			return nil
		}
	}
	return booking.ErrAppointmentNotFound
}

func (f *fakeAppointmentStore) Delete(_ context.Context, id string) error {
	for i := range f.appointments {
		if f.appointments[i].ID == id {
			f.appointments = append(f.appointments[:i], f.appointments[i+1:]...)
			return nil
		}
	}
	return booking.ErrAppointmentNotFound
}

type fakeRepository struct {
	store     *fakeAppointmentStore
	clientErr error
	commits   int
	rollbacks int
}

func (f *fakeRepository) NewClient(tx bool) (bookingRepository.Client, error) {
	if f.clientErr != nil {
		return bookingRepository.Client{}, f.clientErr
	}
	return bookingRepository.Client{
		Appointment: f.store,
		Commit:      func() error { f.commits++; return nil },
		Rollback:    func() error { f.rollbacks++; return nil },
	}, nil
}

type fakeConversationStore struct {
	states    map[string]entity.ConversationState
	upsertErr error
	lockBusy  bool
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{states: make(map[string]entity.ConversationState)}
}

func (f *fakeConversationStore) GetState(_ context.Context, phone string) (entity.ConversationState, error) {
	state, ok := f.states[phone]
	if !ok {
		return entity.ConversationState{}, redisPkg.ErrStateNotFound
	}
	return state, nil
}

func (f *fakeConversationStore) UpsertState(_ context.Context, state entity.ConversationState) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.states[state.Phone] = state
	return nil
}

func (f *fakeConversationStore) DeleteState(_ context.Context, phone string) error {
	delete(f.states, phone)
	return nil
}

func (f *fakeConversationStore) AcquireTurnLock(_ context.Context, _ string) (bool, error) {
	return !f.lockBusy, nil
}

func (f *fakeConversationStore) ReleaseTurnLock(_ context.Context, _ string) error {
	return nil
}

type fakeSender struct {
	connected bool
	sent      []string
}

func (f *fakeSender) SendMessage(_ context.Context, _, message string) error {
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeSender) Disconnect() error { return nil }
func (f *fakeSender) IsConnected() bool { return f.connected }

type fakeMailer struct {
	alerts []string
}

func (f *fakeMailer) SendHandoffAlert(clientPhone, _, lastMessage string) error {
	f.alerts = append(f.alerts, clientPhone+": "+lastMessage)
	return nil
}

func newTestService(repo *fakeRepository, conversations *fakeConversationStore) (*bookingService, *fakeSender, *fakeMailer) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	sender := &fakeSender{connected: true}
	mailer := &fakeMailer{}

	svc := &bookingService{
		log:           logger,
		bookingRepo:   repo,
		conversations: conversations,
		sender:        sender,
		mailer:        mailer,
		utils:         utils.New(),
		extractor:     nlp.NewExtractor(),
		hours:         BusinessHours{OpenHour: 8, CloseHour: 19},
		now:           func() time.Time { return testNow },
	}
	return svc, sender, mailer
}
