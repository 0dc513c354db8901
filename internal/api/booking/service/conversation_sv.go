package bookingService

import (
	"errors"
	"strings"

	"github.com/ktrillos2/brahneyker/internal/api/booking"
	"github.com/ktrillos2/brahneyker/internal/entity"
	"github.com/ktrillos2/brahneyker/pkg/nlp"
	contextPkg "github.com/ktrillos2/brahneyker/pkg/context"
	redisPkg "github.com/ktrillos2/brahneyker/pkg/redis"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

// ProcessMessage runs one conversational turn for one inbound WhatsApp
// message. It loads the actor's dialogue state, merges whatever the message
// contributed, walks the slots in fixed order and answers with the next
// question, a confirmation summary, or the booked receipt.
func (s *bookingService) ProcessMessage(ctx context.Context, req booking.WebhookRequest) (booking.WebhookResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Phone == "" || strings.TrimSpace(req.Text) == "" {
		return booking.WebhookResponse{}, booking.ErrMissingPhoneOrText
	}
	if req.IsGroup {
		return booking.WebhookResponse{Status: booking.StatusIgnored}, nil
	}

	acquired, err := s.conversations.AcquireTurnLock(ctx, req.Phone)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"phone":      req.Phone,
			"error":      err.Error(),
		}).Error("Failed to acquire turn lock")
		return s.apologyTurn(ctx, req, err)
	}
	if !acquired {
		// Another turn for this phone is still in flight.
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"phone":      req.Phone,
		}).Warn("Turn lock busy, dropping message")
		return booking.WebhookResponse{Status: booking.StatusIgnored}, nil
	}
	defer func() {
		if err := s.conversations.ReleaseTurnLock(ctx, req.Phone); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"phone":      req.Phone,
				"error":      err.Error(),
			}).Warn("Failed to release turn lock")
		}
	}()

	state, err := s.conversations.GetState(ctx, req.Phone)
	if errors.Is(err, redisPkg.ErrStateNotFound) {
		state = entity.ConversationState{Phone: req.Phone, Step: entity.StepWelcome}
	} else if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"phone":      req.Phone,
			"error":      err.Error(),
		}).Error("Failed to load conversation state")
		return s.apologyTurn(ctx, req, err)
	}

	// Once handed off, the bot stays silent until the conversation record
	// expires or is reset by staff.
	if state.Step == entity.StepHandoff {
		return booking.WebhookResponse{Status: booking.StatusHandoff}, nil
	}

	// A client with a future appointment already booked gets a human, not
	// the bot, so a fresh conversation never starts for them.
	if state.Step == entity.StepWelcome {
		has, err := s.hasFutureActiveBooking(ctx, req.Phone)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"phone":      req.Phone,
				"error":      err.Error(),
			}).Error("Failed to check existing bookings")
			return s.apologyTurn(ctx, req, err)
		}
		if has {
			return booking.WebhookResponse{Status: booking.StatusIgnored}, nil
		}
	}

	if s.extractor.IsGreeting(req.Text) || s.extractor.IsReset(req.Text) {
		return s.welcomeTurn(ctx, req)
	}

	parsed := s.extractor.Extract(req.Text, s.now())

	// "2" straight after the welcome menu means another kind of service.
	if (state.Step == entity.StepWelcome || state.Step == entity.StepSelectService) && s.extractor.MenuOption(req.Text) == 2 {
		return s.handoffTurn(ctx, req, state)
	}
	if parsed.Intent == nlp.IntentOtherService {
		return s.handoffTurn(ctx, req, state)
	}

	prevStep := state.Step

	switch state.Step {
	case entity.StepAskName:
		state.Slots.ClientName = strings.TrimSpace(req.Text)

	case entity.StepConfirmBooking:
		if s.extractor.IsAffirmative(req.Text) {
			return s.commitBooking(ctx, req, state)
		}
		state.Slots.Date = ""
		state.Slots.Time = ""
		state.Slots.TimeAmbiguous = false
		state.Slots.PendingHour, state.Slots.PendingMinute = 0, 0
		state.Step = entity.StepSelectDate
		return s.replyTurn(ctx, req, state, booking.StatusAskDate, promptNewDate)

	case entity.StepSelectMeridiem:
		mer := s.extractor.MeridiemAnswer(req.Text)
		if mer == nlp.MeridiemNone && parsed.DateTime == nil {
			return s.replyTurn(ctx, req, state, booking.StatusAskMeridiem, replyInvalidOption+" "+promptMeridiem)
		}
		if mer != nlp.MeridiemNone && state.Slots.TimeAmbiguous {
			hour := state.Slots.PendingHour
			if mer == nlp.MeridiemPM && hour < 12 {
				hour += 12
			}
			minute := state.Slots.PendingMinute
			state.Slots.TimeAmbiguous = false
			state.Slots.PendingHour, state.Slots.PendingMinute = 0, 0
			if s.clockPassed(state.Slots.Date, hour, minute) {
				state.Slots.Date = ""
				state.Slots.Time = ""
				state.Step = entity.StepSelectDate
				return s.replyTurn(ctx, req, state, booking.StatusAskDate, promptTimePassed)
			}
			state.Slots.Time = nlp.Clock(hour, minute)
		} else {
			// The client answered with a whole new time instead.
			s.mergeExtraction(&state.Slots, state.Step, req.Text, parsed)
		}
		return s.advance(ctx, req, state, prevStep)

	default:
		s.mergeExtraction(&state.Slots, state.Step, req.Text, parsed)
	}

	return s.advance(ctx, req, state, prevStep)
}

// mergeExtraction folds one message's extraction into the accumulated slots.
// Complete pairs replace whatever was gathered so far, partial mentions fill
// gaps, and short answers are interpreted against the step that asked.
func (s *bookingService) mergeExtraction(slots *entity.SlotData, step entity.Step, rawText string, parsed nlp.ParsedMessage) {
	if len(parsed.Requests) > 0 {
		allComplete := true
		for _, cand := range parsed.Requests {
			if !cand.Complete() {
				allComplete = false
				break
			}
		}
		switch {
		case allComplete:
			slots.Requests = slots.Requests[:0]
			for _, cand := range parsed.Requests {
				slots.Requests = append(slots.Requests, entity.BookingRequest{Professional: cand.Professional, Service: cand.Service})
			}
		case len(slots.Requests) == 0:
			for _, cand := range parsed.Requests {
				slots.Requests = append(slots.Requests, entity.BookingRequest{Professional: cand.Professional, Service: cand.Service})
			}
		default:
			for _, cand := range parsed.Requests {
				if cand.Professional != "" {
					fillProfessional(slots, cand.Professional)
				}
				if cand.Service != "" {
					fillService(slots, cand.Service)
				}
			}
		}
	}

	switch step {
	case entity.StepSelectService, entity.StepSelectServiceSpecific:
		svc := s.extractor.MatchService(rawText)
		if svc == "" {
			svc = s.extractor.ServiceOption(rawText)
		}
		if svc != "" {
			fillService(slots, svc)
		}
	case entity.StepSelectProfessional:
		pro := s.extractor.MatchProfessional(rawText)
		if pro == "" {
			pro = s.extractor.ProfessionalOption(rawText)
		}
		if pro != "" {
			fillProfessional(slots, pro)
		}
	}

	if parsed.DateTime != nil {
		slots.Date = parsed.DateTime.Date
		if parsed.DateTime.HasTime {
			if parsed.DateTime.Ambiguous {
				slots.Time = ""
				slots.PendingHour = parsed.DateTime.Hour
				slots.PendingMinute = parsed.DateTime.Minute
				slots.TimeAmbiguous = true
			} else {
				slots.Time = parsed.DateTime.Clock()
				slots.TimeAmbiguous = false
				slots.PendingHour, slots.PendingMinute = 0, 0
			}
		}
	}
}

// fillService puts the service on the first request missing one, seeding the
// list when nothing was gathered yet. A mention while every pair already has
// a service changes nothing.
func fillService(slots *entity.SlotData, svc string) {
	for i := range slots.Requests {
		if !slots.Requests[i].HasService() {
			slots.Requests[i].Service = svc
			return
		}
	}
	if len(slots.Requests) == 0 {
		slots.Requests = append(slots.Requests, entity.BookingRequest{Service: svc})
	}
}

func fillProfessional(slots *entity.SlotData, pro string) {
	for i := range slots.Requests {
		if !slots.Requests[i].HasProfessional() {
			slots.Requests[i].Professional = pro
			return
		}
	}
	if len(slots.Requests) == 0 {
		slots.Requests = append(slots.Requests, entity.BookingRequest{Professional: pro})
	}
}

// advance walks the slots in fixed order and answers with the first question
// still unanswered, the availability verdict, or the confirmation summary.
func (s *bookingService) advance(ctx context.Context, req booking.WebhookRequest, state entity.ConversationState, prevStep entity.Step) (booking.WebhookResponse, error) {
	slots := &state.Slots

	if !slots.AllServicesFilled() {
		reply := servicePrompt(s.extractor.ServiceMenu())
		if prevStep == entity.StepSelectServiceSpecific {
			reply = replyInvalidOption + "\n" + reply
		}
		state.Step = entity.StepSelectServiceSpecific
		return s.replyTurn(ctx, req, state, booking.StatusAskService, reply)
	}

	if !slots.AllProfessionalsFilled() {
		reply := professionalPrompt(s.extractor.Roster())
		if prevStep == entity.StepSelectProfessional {
			reply = replyInvalidOption + "\n" + reply
		}
		state.Step = entity.StepSelectProfessional
		return s.replyTurn(ctx, req, state, booking.StatusAskProfessional, reply)
	}

	if !slots.HasDate() || (!slots.HasTime() && !slots.TimeAmbiguous) {
		reply := promptDate
		switch {
		case slots.HasDate():
			reply = promptHourOnly
		case prevStep == entity.StepSelectDate:
			reply = promptDateRetry
		}
		state.Step = entity.StepSelectDate
		return s.replyTurn(ctx, req, state, booking.StatusAskDate, reply)
	}

	if slots.TimeAmbiguous {
		state.Step = entity.StepSelectMeridiem
		return s.replyTurn(ctx, req, state, booking.StatusAskMeridiem, promptMeridiem)
	}

	failures, err := s.checkAvailability(ctx, *slots)
	if err != nil {
		return s.apologyTurn(ctx, req, err)
	}
	if len(failures) > 0 {
		slots.Date = ""
		slots.Time = ""
		state.Step = entity.StepSelectDate
		return s.replyTurn(ctx, req, state, booking.StatusUnavailable, unavailablePrompt(failures))
	}

	if slots.ClientName == "" {
		if name := s.knownName(ctx, req.Phone); name != "" {
			slots.ClientName = name
		} else {
			reply := promptName
			if prevStep == entity.StepAskName {
				reply = promptNameRetry
			}
			state.Step = entity.StepAskName
			return s.replyTurn(ctx, req, state, booking.StatusAskName, reply)
		}
	}

	state.Step = entity.StepConfirmBooking
	return s.replyTurn(ctx, req, state, booking.StatusConfirmBooking, confirmationPrompt(*slots))
}

// checkAvailability validates every pending request against that
// professional's existing appointments for the chosen date.
func (s *bookingService) checkAvailability(ctx context.Context, slots entity.SlotData) ([]string, error) {
	repo, err := s.bookingRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	var failures []string
	for _, r := range slots.Requests {
		existing, err := repo.Appointment.ListActiveByProfessionalAndDate(ctx, r.Professional, slots.Date)
		if err != nil {
			return nil, err
		}
		result := resolveAvailability(s.hours, slots.Time, existing)
		if result.Available {
			continue
		}
		switch result.Reason {
		case reasonClosed:
			failures = append(failures, closedReason(s.hours))
		case reasonOccupied:
			failures = append(failures, occupiedReason(r.Professional, slots.Time))
		}
	}
	return failures, nil
}

// welcomeTurn resets the conversation and presents the main menu.
func (s *bookingService) welcomeTurn(ctx context.Context, req booking.WebhookRequest) (booking.WebhookResponse, error) {
	state := entity.ConversationState{Phone: req.Phone, Step: entity.StepSelectService}

	name := s.knownName(ctx, req.Phone)
	if name == "" {
		name = strings.TrimSpace(req.Name)
	}
	return s.replyTurn(ctx, req, state, booking.StatusWelcome, welcomePrompt(name))
}

// handoffTurn parks the conversation and alerts the staff inbox. The notice
// is the last thing the bot says on this thread.
func (s *bookingService) handoffTurn(ctx context.Context, req booking.WebhookRequest, state entity.ConversationState) (booking.WebhookResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	state.Step = entity.StepHandoff
	if err := s.mailer.SendHandoffAlert(req.Phone, state.Slots.ClientName, req.Text); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"phone":      req.Phone,
			"error":      err.Error(),
		}).Warn("Failed to send handoff alert email")
	}
	return s.replyTurn(ctx, req, state, booking.StatusHandoff, promptHandoff)
}

// replyTurn persists the new state, pushes the reply over WhatsApp and echoes
// it to the gateway. A send failure is logged only, the gateway response still
// carries the text.
func (s *bookingService) replyTurn(ctx context.Context, req booking.WebhookRequest, state entity.ConversationState, status, reply string) (booking.WebhookResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	state.LastUpdated = s.now()
	if err := s.conversations.UpsertState(ctx, state); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"phone":      req.Phone,
			"error":      err.Error(),
		}).Error("Failed to persist conversation state")
		return s.apologyTurn(ctx, req, err)
	}

	s.sendReply(ctx, req.Phone, reply)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"phone":      req.Phone,
		"step":       state.Step.String(),
		"status":     status,
	}).Info("Turn processed")

	return booking.WebhookResponse{Status: status, Reply: reply}, nil
}

// apologyTurn answers a failed turn without touching the stored state, so the
// client can simply resend the message.
func (s *bookingService) apologyTurn(ctx context.Context, req booking.WebhookRequest, cause error) (booking.WebhookResponse, error) {
	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"phone":      req.Phone,
		"error":      cause.Error(),
	}).Error("Turn failed")

	s.sendReply(ctx, req.Phone, replyApology)
	return booking.WebhookResponse{Status: booking.StatusError, Reply: replyApology}, nil
}

func (s *bookingService) sendReply(ctx context.Context, phone, text string) {
	if s.sender == nil || !s.sender.IsConnected() {
		return
	}
	if err := s.sender.SendMessage(ctx, phone, text); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"phone":      phone,
			"error":      err.Error(),
		}).Warn("Failed to send WhatsApp message")
	}
}
