package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/MrSiJo/plugtrack/core/model"
	"github.com/MrSiJo/plugtrack/core/reminder"
	"github.com/MrSiJo/plugtrack/infra/logger"
)

// Notifier delivers reminder statuses to an external channel.
type Notifier interface {
	PublishReminder(v model.Vehicle, st reminder.Status) error
}

// NopNotifier discards everything.
type NopNotifier struct{}

func (NopNotifier) PublishReminder(model.Vehicle, reminder.Status) error { return nil }

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTNotifier publishes reminder notifications over MQTT.
type MQTTNotifier struct {
	cli        pahoClient
	topic      string
	qos        byte
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewMQTTNotifier connects to the broker described by cfg.
func NewMQTTNotifier(cfg Config) (*MQTTNotifier, error) {
	log := logger.New("notify")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTNotifier{
		cli:        c,
		topic:      cfg.Topic,
		qos:        cfg.QoS,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

type reminderMessage struct {
	NotificationID string `json:"notification_id"`
	VehicleID      int64  `json:"vehicle_id"`
	Vehicle        string `json:"vehicle"`
	Urgency        string `json:"urgency"`
	DueDate        string `json:"due_date"`
	DaysOverdue    int    `json:"days_overdue"`
	Message        string `json:"message"`
	Timestamp      int64  `json:"timestamp"`
}

// PublishReminder sends one reminder notification and retries with
// exponential backoff on publish failure.
func (n *MQTTNotifier) PublishReminder(v model.Vehicle, st reminder.Status) error {
	msg := reminderMessage{
		NotificationID: uuid.NewString(),
		VehicleID:      v.ID,
		Vehicle:        v.DisplayName(),
		Urgency:        string(st.Urgency),
		DaysOverdue:    st.DaysOverdue,
		Message:        st.Message,
		Timestamp:      time.Now().UnixMilli(),
	}
	if st.DueDate != nil {
		msg.DueDate = st.DueDate.Format("2006-01-02")
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	topic := fmt.Sprintf("%s/%d", n.topic, v.ID)
	maxRetries := n.maxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := n.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		token := n.cli.Publish(topic, n.qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			n.log.Infof("published reminder %s to %s", msg.NotificationID, topic)
			return nil
		}
		n.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(backoff * time.Duration(1<<attempt))
	}
	return publishErr
}

// Disconnect gracefully closes the MQTT connection.
func (n *MQTTNotifier) Disconnect() {
	if n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
}
