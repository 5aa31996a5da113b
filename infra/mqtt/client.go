package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremqtt "github.com/skyops/nightplan/core/mqtt"
	"github.com/skyops/nightplan/core/model"
	"github.com/skyops/nightplan/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	PlanTopic  string `json:"plan_topic"`
	QoS        byte   `json:"qos"`
	Retain     bool   `json:"retain"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`
	MaxRetries int    `json:"max_retries"`
	BackoffMS  int    `json:"backoff_ms"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("broker is required")
	}
	if c.PlanTopic == "" {
		return fmt.Errorf("plan_topic is required")
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// PahoPublisher implements the Publisher interface using Eclipse Paho.
type PahoPublisher struct {
	cli        pahoClient
	topic      string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoPublisher connects to the MQTT broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &PahoPublisher{
		cli:        c,
		topic:      cfg.PlanTopic,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := newTLSConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

func newTLSConfig(cfg Config) (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CABundle != "" {
		ca, err := os.ReadFile(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("read ca bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(ca) {
			return nil, fmt.Errorf("invalid ca bundle %s", cfg.CABundle)
		}
		tlsCfg.RootCAs = pool
	}
	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}
	return tlsCfg, nil
}

// planMessage is the wire format consumed by the execution engine.
type planMessage struct {
	PlanID  string                 `json:"plan_id"`
	Dusk    time.Time              `json:"dusk"`
	Dawn    time.Time              `json:"dawn"`
	Entries []model.ScheduledEntry `json:"entries"`
}

// PublishPlan implements Publisher. Failed publishes are retried with a fixed
// backoff up to MaxRetries.
func (p *PahoPublisher) PublishPlan(s model.Schedule) (string, error) {
	msg := planMessage{
		PlanID:  uuid.NewString(),
		Dusk:    s.Window.Dusk,
		Dawn:    s.Window.Dawn,
		Entries: s.Entries,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode plan: %w", err)
	}

	attempts := p.maxRetries + 1
	for i := 0; i < attempts; i++ {
		token := p.cli.Publish(p.topic, p.qos, p.retain, payload)
		if token.WaitTimeout(10*time.Second) && token.Error() == nil {
			p.log.Debugw("plan published", map[string]any{
				"plan_id": msg.PlanID,
				"entries": len(msg.Entries),
			})
			return msg.PlanID, nil
		}
		if token.Error() != nil {
			p.log.Warnf("publish attempt %d failed: %v", i+1, token.Error())
		}
		time.Sleep(p.backoff)
	}
	return "", coremqtt.ErrPublishTimeout
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() {
	p.cli.Disconnect(250)
}
