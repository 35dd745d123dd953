package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/diagnosis/dalmatia-stays/internal/utils"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/services/notify/internal/mailer"
)

const dateLayout = "Mon, Jan 2, 2006"

var (
	guestHTML = template.Must(template.New("guest").Parse(`
<h2>Your stay is confirmed</h2>
<p>Hi {{.FirstName}},</p>
<p>You're going to <strong>{{.Event.AccommodationName}}</strong> in {{.Event.Location}}.</p>
<table>
  <tr><td>Check-in</td><td>{{.CheckIn}}</td></tr>
  <tr><td>Check-out</td><td>{{.CheckOut}}</td></tr>
  <tr><td>Nights</td><td>{{.Event.Nights}}</td></tr>
  <tr><td>Total</td><td>{{.Event.TotalPrice}} {{.Event.Currency}}</td></tr>
</table>
<p>Booking reference: {{.Event.BookingID}}</p>
`))

	hostHTML = template.Must(template.New("host").Parse(`
<h2>New booking for {{.Event.AccommodationName}}</h2>
<p>Hi {{.FirstName}},</p>
<p>{{.Event.GuestName}} ({{.Event.GuestEmail}}) booked {{.Event.Nights}} night(s)
from {{.CheckIn}} to {{.CheckOut}}.</p>
<p>Total: {{.Event.TotalPrice}} {{.Event.Currency}}</p>
`))

	welcomeHTML = template.Must(template.New("welcome").Parse(`
<h2>Welcome to Dalmatia Stays</h2>
<p>Hi {{.FirstName}},</p>
<p>{{.Line}}</p>
`))
)

type bookingView struct {
	FirstName string
	CheckIn   string
	CheckOut  string
	Event     events.BookingCreatedEvent
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func guestConfirmation(evt events.BookingCreatedEvent) (mailer.Message, error) {
	name := utils.DisplayName(evt.GuestName, evt.GuestEmail)
	view := bookingView{
		FirstName: utils.FirstName(name),
		CheckIn:   evt.CheckIn.Format(dateLayout),
		CheckOut:  evt.CheckOut.Format(dateLayout),
		Event:     evt,
	}
	html, err := render(guestHTML, view)
	if err != nil {
		return mailer.Message{}, err
	}
	text := fmt.Sprintf("Hi %s,\n\nYour stay at %s in %s is confirmed.\nCheck-in: %s\nCheck-out: %s\nNights: %d\nTotal: %s %s\n\nBooking reference: %s\n",
		view.FirstName, evt.AccommodationName, evt.Location, view.CheckIn, view.CheckOut,
		evt.Nights, evt.TotalPrice, evt.Currency, evt.BookingID)

	return mailer.Message{
		ToEmail: evt.GuestEmail,
		ToName:  name,
		Subject: "Booking confirmed: " + evt.AccommodationName,
		Text:    text,
		HTML:    html,
	}, nil
}

func hostNotice(evt events.BookingCreatedEvent) (mailer.Message, error) {
	name := utils.DisplayName(evt.HostName, evt.HostEmail)
	view := bookingView{
		FirstName: utils.FirstName(name),
		CheckIn:   evt.CheckIn.Format(dateLayout),
		CheckOut:  evt.CheckOut.Format(dateLayout),
		Event:     evt,
	}
	html, err := render(hostHTML, view)
	if err != nil {
		return mailer.Message{}, err
	}
	text := fmt.Sprintf("Hi %s,\n\n%s (%s) booked %s for %d night(s), %s to %s.\nTotal: %s %s\n",
		view.FirstName, evt.GuestName, evt.GuestEmail, evt.AccommodationName, evt.Nights,
		view.CheckIn, view.CheckOut, evt.TotalPrice, evt.Currency)

	return mailer.Message{
		ToEmail: evt.HostEmail,
		ToName:  name,
		Subject: "New booking for " + evt.AccommodationName,
		Text:    text,
		HTML:    html,
	}, nil
}

func welcome(evt events.UserSignedUpEvent) (mailer.Message, error) {
	name := utils.DisplayName(evt.FullName, evt.Email)
	line := "Browse stays along the Dalmatian coast and book your next getaway."
	if evt.Role == "host" {
		line = "List your first accommodation and start welcoming guests."
	}
	view := struct{ FirstName, Line string }{utils.FirstName(name), line}

	html, err := render(welcomeHTML, view)
	if err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{
		ToEmail: evt.Email,
		ToName:  name,
		Subject: "Welcome to Dalmatia Stays",
		Text:    fmt.Sprintf("Hi %s,\n\n%s\n", view.FirstName, line),
		HTML:    html,
	}, nil
}
