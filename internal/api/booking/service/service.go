package bookingService

import (
	"time"

	"github.com/ktrillos2/brahneyker/internal/api/booking"
	bookingRepository "github.com/ktrillos2/brahneyker/internal/api/booking/repository"
	"github.com/ktrillos2/brahneyker/internal/entity"
	"github.com/ktrillos2/brahneyker/pkg/nlp"
	redisPkg "github.com/ktrillos2/brahneyker/pkg/redis"
	"github.com/ktrillos2/brahneyker/pkg/smtp"
	"github.com/ktrillos2/brahneyker/pkg/utils"
	"github.com/ktrillos2/brahneyker/pkg/whatsapp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type IBookingService interface {
	ProcessMessage(ctx context.Context, req booking.WebhookRequest) (booking.WebhookResponse, error)
	GetAppointment(ctx context.Context, id string) (entity.Appointment, error)
	ListAppointmentsByPhone(ctx context.Context, phone string) ([]entity.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id, status string) error
	DeleteAppointment(ctx context.Context, id string) error
}

type bookingService struct {
	log           *logrus.Logger
	bookingRepo   bookingRepository.Repository
	conversations redisPkg.IConversationStore
	sender        whatsapp.IWhatsappSender
	mailer        smtp.ItfSmtp
	utils         utils.IUtils
	extractor     *nlp.Extractor
	hours         BusinessHours
	now           func() time.Time
}

func NewBookingService(log *logrus.Logger, br bookingRepository.Repository, conversations redisPkg.IConversationStore, sender whatsapp.IWhatsappSender, mailer smtp.ItfSmtp, utils utils.IUtils) IBookingService {
	return &bookingService{
		log:           log,
		bookingRepo:   br,
		conversations: conversations,
		sender:        sender,
		mailer:        mailer,
		utils:         utils,
		extractor:     nlp.NewExtractor(),
		hours:         NewBusinessHoursFromEnv(),
		now:           time.Now,
	}
}
