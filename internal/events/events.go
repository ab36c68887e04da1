// Package events notifies subscribed clients that a vehicle's fill-up
// history changed so they can re-render their dashboards.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/models"
	"github.com/ukydev/tanque-cheio/internal/monitoring"
)

const FillUpCreatedType = "fillup.created"

var ErrPublishTimeout = errors.New("mqtt publish timed out")

// Event is a message published to the broker.
type Event interface {
	Type() string
	Topic(prefix string) string
}

// FillUpCreated is published after a fill-up is stored.
type FillUpCreated struct {
	UserID     string    `json:"user_id"`
	VehicleID  string    `json:"vehicle_id"`
	FillUpID   string    `json:"fill_up_id"`
	Date       time.Time `json:"date"`
	Odometer   float64   `json:"odometer"`
	Liters     float64   `json:"liters"`
	Cost       float64   `json:"cost"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewFillUpCreated builds the event for a stored fill-up.
func NewFillUpCreated(f models.FillUp) FillUpCreated {
	return FillUpCreated{
		UserID:     f.UserID,
		VehicleID:  f.VehicleID,
		FillUpID:   f.ID,
		Date:       f.Date,
		Odometer:   f.Odometer,
		Liters:     f.Liters,
		Cost:       f.Cost,
		OccurredAt: time.Now().UTC(),
	}
}

func (e FillUpCreated) Type() string { return FillUpCreatedType }

// Topic is scoped per user so a client only subscribes to its own data.
func (e FillUpCreated) Topic(prefix string) string {
	return fmt.Sprintf("%s/users/%s/fillups", prefix, e.UserID)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// NoopPublisher drops every event; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close()                               {}

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// MQTTPublisher publishes events as JSON envelopes with QoS 1.
type MQTTPublisher struct {
	client  mqtt.Client
	prefix  string
	timeout time.Duration
}

// NewMQTTPublisher wraps an already configured client.
func NewMQTTPublisher(client mqtt.Client, prefix string, timeout time.Duration) *MQTTPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MQTTPublisher{client: client, prefix: prefix, timeout: timeout}
}

// ConnectMQTT dials the broker and returns a publisher on it.
func ConnectMQTT(broker, clientID, prefix string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		}).
		SetOnConnectHandler(func(mqtt.Client) {
			log.WithField("broker", broker).Info("mqtt connected")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return NewMQTTPublisher(client, prefix, 5*time.Second), nil
}

// Publish sends the event and waits for the broker acknowledgement, the
// publisher timeout or ctx, whichever comes first.
func (p *MQTTPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(envelope{Type: event.Type(), Data: event})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type(), err)
	}

	token := p.client.Publish(event.Topic(p.prefix), 1, false, payload)
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker, letting in-flight work finish.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// Instrumented counts every publish attempt on metrics.
type Instrumented struct {
	Publisher
	Metrics *monitoring.Metrics
}

func (i Instrumented) Publish(ctx context.Context, event Event) error {
	err := i.Publisher.Publish(ctx, event)
	i.Metrics.EventPublished(event.Type(), err)
	return err
}
