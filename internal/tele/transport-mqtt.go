package tele

import (
	"context"
	"fmt"
	"net/url"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/juju/errors"
	"github.com/temoto/coinvend/helpers"
	tele_config "github.com/temoto/coinvend/internal/tele/config"
	"github.com/temoto/coinvend/log2"
)

const disconnectQuiesceMs = 250

type transportMqtt struct {
	log  *log2.Log
	m    mqtt.Client
	mopt *mqtt.ClientOptions

	networkTimeout time.Duration
	topicConnect   string
	topicError     string
	topicTelemetry string
}

func (self *transportMqtt) Init(ctx context.Context, log *log2.Log, teleConfig tele_config.Config) error {
	self.log = log
	if _, err := url.ParseRequestURI(teleConfig.MqttBroker); err != nil {
		return errors.Annotatef(err, "tele mqtt_broker=%q", teleConfig.MqttBroker)
	}

	vmid := int32(teleConfig.VmId)
	mqttClientId := fmt.Sprintf("vm%d", vmid)
	self.topicConnect = TopicConnect(vmid)
	self.topicError = TopicError(vmid)
	self.topicTelemetry = TopicTelemetry(vmid)
	self.networkTimeout = helpers.IntSecondDefault(teleConfig.NetworkTimeoutSec, DefaultNetworkTimeout)
	keepAlive := helpers.IntSecondDefault(teleConfig.KeepaliveSec, 60*time.Second)

	self.mopt = mqtt.NewClientOptions().
		AddBroker(teleConfig.MqttBroker).
		SetBinaryWill(self.topicConnect, []byte{0x00}, 1, true).
		SetCleanSession(false).
		SetClientID(mqttClientId).
		SetUsername(mqttClientId).
		SetPassword(teleConfig.MqttPassword).
		SetKeepAlive(keepAlive).
		SetPingTimeout(self.networkTimeout).
		SetAutoReconnect(true).
		SetOnConnectHandler(self.onConnectHandler).
		SetConnectionLostHandler(self.connectLostHandler)
	self.m = mqtt.NewClient(self.mopt)

	token := self.m.Connect()
	if !token.WaitTimeout(self.networkTimeout) {
		self.log.Infof("mqtt connect timeout broker=%s", teleConfig.MqttBroker)
	} else if err := token.Error(); err != nil {
		self.log.Infof("mqtt connect broker=%s err=%v", teleConfig.MqttBroker, err)
	}
	return nil
}

func (self *transportMqtt) Close() {
	if self.m == nil {
		return
	}
	if self.m.IsConnected() {
		self.m.Publish(self.topicConnect, 1, true, []byte{0x00}).WaitTimeout(self.networkTimeout)
	}
	self.m.Disconnect(disconnectQuiesceMs)
}

func (self *transportMqtt) SendTelemetry(payload []byte) bool {
	return self.publish(self.topicTelemetry, payload)
}

func (self *transportMqtt) SendError(payload []byte) bool {
	return self.publish(self.topicError, payload)
}

func (self *transportMqtt) publish(topic string, payload []byte) bool {
	if !self.m.IsConnected() {
		self.log.Debugf("mqtt publish topic=%s not connected", topic)
		return false
	}
	self.m.Publish(topic, 1, false, payload)
	return true
}

func (self *transportMqtt) onConnectHandler(c mqtt.Client) {
	self.log.Infof("mqtt connected")
	c.Publish(self.topicConnect, 1, true, []byte{0x01})
}

func (self *transportMqtt) connectLostHandler(c mqtt.Client, err error) {
	self.log.Infof("mqtt connection lost err=%v", err)
}
