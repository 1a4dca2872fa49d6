// Telemetry: best-effort device status over MQTT. Loss is acceptable,
// blocking the tick loop is not, so publishes never wait on the broker.
package tele

import (
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/relogio-hw/relogio/log2"
)

type Config struct {
	Enable      bool   `hcl:"enable"`
	BrokerURL   string `hcl:"broker_url"`
	ClientID    string `hcl:"client_id"`
	Username    string `hcl:"username"`
	Password    string `hcl:"password"`
	TopicPrefix string `hcl:"topic_prefix"`
}

type Tele struct {
	log    *log2.Log
	conf   Config
	client paho.Client
}

type statusPayload struct {
	State string `json:"state"`
	At    int64  `json:"at"`
}

type errorPayload struct {
	Error string `json:"error"`
	At    int64  `json:"at"`
}

func New(log *log2.Log, conf Config) (*Tele, error) {
	if !conf.Enable {
		return nil, nil
	}
	if conf.BrokerURL == "" {
		return nil, errors.Errorf("tele: enable requires broker_url")
	}
	if conf.ClientID == "" {
		conf.ClientID = "relogio"
	}
	if conf.TopicPrefix == "" {
		conf.TopicPrefix = "relogio"
	}
	self := &Tele{log: log, conf: conf}

	opts := paho.NewClientOptions().
		AddBroker(conf.BrokerURL).
		SetClientID(conf.ClientID).
		SetUsername(conf.Username).
		SetPassword(conf.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)
	self.client = paho.NewClient(opts)
	// connect in background, AutoReconnect keeps trying
	token := self.client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Errorf("tele connect broker=%s err=%v", conf.BrokerURL, err)
		}
	}()
	return self, nil
}

// State publishes a state transition, fire and forget.
func (self *Tele) State(s string, atEpoch int64) {
	if self == nil {
		return
	}
	self.publish("status", statusPayload{State: s, At: atEpoch})
}

// Error forwards problems to the operator topic. Wired as log2 ErrorFunc.
func (self *Tele) Error(e error) {
	if self == nil || e == nil {
		return
	}
	self.publish("error", errorPayload{Error: e.Error(), At: time.Now().Unix()})
}

func (self *Tele) Close() {
	if self == nil {
		return
	}
	self.client.Disconnect(250)
}

func (self *Tele) publish(sub string, payload interface{}) {
	if !self.client.IsConnected() {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		self.log.Debugf("tele marshal err=%v", err)
		return
	}
	self.client.Publish(self.conf.TopicPrefix+"/"+sub, 0, false, b)
}
