package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"roomdesk/internal/domain"
)

const bookingQueue = "booking.events"

type bookingEvent struct {
	Kind              Kind   `json:"kind"`
	BookingID         string `json:"bookingId"`
	RoomID            string `json:"roomId"`
	RoomName          string `json:"roomName"`
	OwnerName         string `json:"ownerName"`
	OwnerEmail        string `json:"ownerEmail"`
	ParticipantEmails string `json:"participantEmails,omitempty"`
	Date              string `json:"date"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Title             string `json:"title"`
}

// AMQPNotifier publishes booking events to a durable RabbitMQ queue. A
// downstream mailer consumes the queue and renders the actual emails.
type AMQPNotifier struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(bookingQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &AMQPNotifier{conn: conn, ch: ch}, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, kind Kind, booking domain.Booking) error {
	body, err := json.Marshal(bookingEvent{
		Kind:              kind,
		BookingID:         booking.ID.String(),
		RoomID:            booking.RoomID,
		RoomName:          booking.RoomName,
		OwnerName:         booking.OwnerName,
		OwnerEmail:        booking.OwnerEmail,
		ParticipantEmails: booking.ParticipantEmails,
		Date:              booking.Date,
		StartTime:         booking.StartTime,
		EndTime:           booking.EndTime,
		Title:             booking.Title,
	})
	if err != nil {
		return err
	}

	return n.ch.PublishWithContext(ctx, "", bookingQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (n *AMQPNotifier) Close() error {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
