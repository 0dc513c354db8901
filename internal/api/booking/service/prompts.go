package bookingService

import (
	"fmt"
	"strings"

	"github.com/ktrillos2/brahneyker/internal/entity"
)

const (
	promptDate         = "¿Para qué día y hora te gustaría tu cita? Puedes escribirlo como quieras, por ejemplo: \"mañana a las 3pm\" o \"el viernes a las 10 de la mañana\"."
	promptDateRetry    = "¿Qué día y a qué hora?"
	promptHourOnly     = "¡Perfecto! ¿Y a qué hora te gustaría la cita ese día?"
	promptMeridiem     = "¿En la mañana o en la tarde?"
	promptName         = "¡Ya casi terminamos! ¿A nombre de quién agendo la cita?"
	promptNameRetry    = "¿Tu nombre, por favor?"
	promptHandoff      = "¡Gracias por escribirnos! En un momento una de nuestras asesoras te atenderá personalmente. 💕"
	promptNewDate      = "Entendido, no agendamos esa fecha. ¿Para qué otro día y hora te gustaría?"
	promptTimePassed   = "Esa hora ya pasó. ¿Para qué día y hora te gustaría la cita?"
	replyApology       = "Lo sentimos, tuvimos un problema procesando tu mensaje. Por favor inténtalo de nuevo en un momento. 🙏"
	replyInvalidOption = "Opción no válida."
)

func welcomePrompt(name string) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "¡Hola %s! 💅 Bienvenida a Brahneyker Salón.\n\n", name)
	} else {
		b.WriteString("¡Hola! 💅 Bienvenida a Brahneyker Salón.\n\n")
	}
	b.WriteString("¿En qué te podemos ayudar?\n")
	b.WriteString("1. Agendar cita de uñas\n")
	b.WriteString("2. Otro servicio")
	return b.String()
}

func servicePrompt(menu []string) string {
	var b strings.Builder
	b.WriteString("¡Genial! ¿Qué técnica te gustaría?\n")
	letters := "abcde"
	for i, svc := range menu {
		if i < len(letters) {
			fmt.Fprintf(&b, "%c. %s\n", letters[i], svc)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func professionalPrompt(roster []string) string {
	var b strings.Builder
	b.WriteString("¿Con cuál de nuestras profesionales te gustaría tu cita?\n")
	for i, name := range roster {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func confirmationPrompt(slots entity.SlotData) string {
	var b strings.Builder
	b.WriteString("¡Listo! Confírmame por favor tu cita:\n\n")
	for _, r := range slots.Requests {
		fmt.Fprintf(&b, "💅 %s con %s\n", r.Service, r.Professional)
	}
	fmt.Fprintf(&b, "📅 %s a las %s\n", humanDate(slots.Date), humanTime(slots.Time))
	fmt.Fprintf(&b, "🙋 A nombre de %s\n\n", slots.ClientName)
	b.WriteString("¿Confirmas? (sí / no)")
	return b.String()
}

func bookedPrompt(slots entity.SlotData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Tu cita quedó agendada, %s! 🎉\n\n", slots.ClientName)
	for _, r := range slots.Requests {
		fmt.Fprintf(&b, "💅 %s con %s\n", r.Service, r.Professional)
	}
	fmt.Fprintf(&b, "📅 %s a las %s\n\n", humanDate(slots.Date), humanTime(slots.Time))
	b.WriteString("Te esperamos. Si necesitas cambiarla, escríbenos con gusto.")
	return b.String()
}

func unavailablePrompt(failures []string) string {
	var b strings.Builder
	b.WriteString("Lo sentimos 😔\n")
	for _, f := range failures {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("\n¿Te gustaría otro día u otra hora?")
	return b.String()
}

func closedReason(hours BusinessHours) string {
	return fmt.Sprintf("A esa hora el salón está cerrado. Nuestro horario es de %d:00 a %d:00.", hours.OpenHour, hours.CloseHour)
}

func occupiedReason(professional, clock string) string {
	return fmt.Sprintf("%s ya tiene una cita a las %s.", professional, humanTime(clock))
}

var spanishMonths = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

// humanDate renders "2026-09-04" as "4 de septiembre". Falls back to the raw
// value when it does not parse.
func humanDate(date string) string {
	var y, m, d int
	if _, err := fmt.Sscanf(date, "%d-%d-%d", &y, &m, &d); err != nil || m < 1 || m > 12 {
		return date
	}
	return fmt.Sprintf("%d de %s", d, spanishMonths[m-1])
}

// humanTime renders "15:00" as "3:00 PM".
func humanTime(clock string) string {
	minute := entity.MinuteOfDay(clock)
	if minute < 0 {
		return clock
	}
	h, m := minute/60, minute%60
	suffix := "AM"
	switch {
	case h == 0:
		h = 12
	case h == 12:
		suffix = "PM"
	case h > 12:
		h -= 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}
