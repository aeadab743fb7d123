package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/abhi21121211/roomloop-client-sub000/domain"
	"github.com/abhi21121211/roomloop-client-sub000/domain/event"
)

// consolePrinter renders routed events for the terminal. It implements
// contract.EventSink and only ever sees events for the bound room.
type consolePrinter struct {
	localUser domain.User
}

func (p *consolePrinter) Consume(e event.DomainEvent) {
	switch evt := e.(type) {
	case event.MessageReceived:
		p.printMessage(evt.Message)
	case event.ReactionReceived:
		r := evt.Reaction
		color.Gray.Printf("  %s reacted %s\n", r.User.DisplayName, r.Emoji)
	}
}

func (p *consolePrinter) printMessage(msg domain.Message) {
	stamp := msg.CreatedAt.Format(time.TimeOnly)
	switch {
	case msg.Kind == domain.KindSystem:
		color.Gray.Printf("[%s] * %s\n", stamp, msg.Content)
	case msg.Sender.Is(p.localUser):
		color.Cyan.Printf("[%s] %s: ", stamp, msg.Sender.DisplayName)
		fmt.Println(msg.Content)
	default:
		color.Green.Printf("[%s] %s: ", stamp, msg.Sender.DisplayName)
		fmt.Println(msg.Content)
	}
}

func printRoomInfo(room domain.Room) {
	color.Bold.Printf("\n%s  ", room.Title)
	switch room.Status {
	case domain.StatusLive:
		color.Green.Println("[live]")
	case domain.StatusClosed:
		color.Red.Println("[closed]")
	default:
		color.Yellow.Println("[scheduled]")
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Participant", "ID"})
	for _, u := range room.Participants {
		table.Append([]string{u.DisplayName, u.ID})
	}
	table.SetFooter([]string{"ends", room.EndsAt.Format(time.RFC822)})
	table.Render()
}
