package sensor

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/models"
)

// SampleHandler 采样回调
type SampleHandler func(sample models.Sample)

// SampleSource 采样来源
// Subscribe 为推送式订阅；传感器不可用时订阅失败，监测会话不启动
type SampleSource interface {
	Subscribe(handler SampleHandler) error
	Close()
}

// sampleMessage MQTT 采样消息格式
type sampleMessage struct {
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"` // Unix 秒；缺省用接收时间
	Mode      string  `json:"mode"`      // "resting" / "exercise"，缺省 resting
}

// MQTTSource 基于 MQTT 的采样来源
type MQTTSource struct {
	client mqtt.Client
	topic  string
	qos    byte
	logger *zap.Logger
}

// NewMQTTSource 连接 MQTT broker 并创建采样来源
// 连接失败视为配置错误直接返回（传感器不可用时会话不允许启动）
func NewMQTTSource(cfg *config.MQTTConfig, logger *zap.Logger) (*MQTTSource, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTSource{
		client: client,
		topic:  cfg.Topic,
		qos:    cfg.QoS,
		logger: logger,
	}, nil
}

// Subscribe 订阅采样主题
// 解析失败的消息记录日志后丢弃，不中断订阅
func (s *MQTTSource) Subscribe(handler SampleHandler) error {
	token := s.client.Subscribe(s.topic, s.qos, func(client mqtt.Client, msg mqtt.Message) {
		var m sampleMessage
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			s.logger.Warn("Failed to parse sample message",
				zap.String("topic", msg.Topic()),
				zap.Error(err),
			)
			return
		}

		ts := time.Now()
		if m.Timestamp > 0 {
			ts = time.Unix(m.Timestamp, 0)
		}

		mode := models.ModeResting
		if m.Mode == string(models.ModeExercise) {
			mode = models.ModeExercise
		}

		handler(models.Sample{
			Value:     m.Value,
			Timestamp: ts,
			Mode:      mode,
		})
	})

	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", s.topic, token.Error())
	}

	s.logger.Info("Subscribed to sample topic",
		zap.String("topic", s.topic),
	)

	return nil
}

// Close 断开 MQTT 连接
func (s *MQTTSource) Close() {
	s.client.Unsubscribe(s.topic)
	s.client.Disconnect(250)
}
