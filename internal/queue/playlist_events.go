// Package queue publishes playlist change notifications to RabbitMQ so depot
// tooling can nudge trucks to re-pull instead of waiting for their poll cycle.
package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

const (
	exchangeName = "fleetboard.events"
	routingKey   = "playlist.updated"
)

type PlaylistUpdatedEvent struct {
	TruckID string    `json:"truck_id"`
	Date    string    `json:"date"`
	Version string    `json:"version"`
	At      time.Time `json:"at"`
}

// PlaylistEventPublisher is nil-safe: a nil publisher (no AMQP_URL
// configured) turns every publish into a no-op.
type PlaylistEventPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewPlaylistEventPublisher(amqpURL string) (*PlaylistEventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &PlaylistEventPublisher{conn: conn, channel: channel}, nil
}

func (p *PlaylistEventPublisher) PublishPlaylistUpdated(truckID string, date time.Time, version string) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(PlaylistUpdatedEvent{
		TruckID: truckID,
		Date:    date.Format("2006-01-02"),
		Version: version,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.channel.Publish(exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (p *PlaylistEventPublisher) Close() {
	if p == nil {
		return
	}
	p.channel.Close()
	p.conn.Close()
}
