package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
	"wisefido-monitor/internal/alert"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig MQTT配置（传感器采样来源）
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string // 采样主题，如 "vital-focus/+/heartrate"
	QoS      byte
}

// Config 监测服务配置
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig

	// 监测会话配置
	Monitor struct {
		RingCapacity        int     // 短窗口容量（实时显示/区间/报警）
		WindowCapacity      int     // 特征窗口容量（长周期统计）
		EvalIntervalSeconds int     // 周期性评估间隔（秒）
		SampleChannelSize   int     // 采样通道缓冲大小
		EstimatedMaxHR      float64 // 运动分区使用的估计最大心率

		// Redis 缓存配置
		Cache struct {
			SnapshotKeyPrefix string // 实时评估快照键前缀，如 "vital-focus:monitor:"
			SnapshotSuffix    string // 实时评估快照键后缀，如 ":assessment"
			SnapshotTTL       int    // 快照 TTL（秒）
			OfflineSuffix     string // 离线缓存键后缀，如 ":offline"
		}

		ThresholdsFile string // 可选的报警阈值 YAML 文件
	}

	// 佩戴者画像（体能评估输入，可选）
	Profile struct {
		Age               float64
		BaselineRestingHR float64
		HRRecovery1Min    float64
		HRRecovery2Min    float64
		TimeToTargetSec   float64
	}

	// 报警阈值（默认值可被 ThresholdsFile 覆盖）
	Alert alert.Thresholds

	// 通知配置
	Notify struct {
		WebhookURL string // 为空时通知只更新状态，不外发
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 从环境变量加载（默认值）
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "vitalfocus")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = 10
	cfg.Database.MaxIdle = 5

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "wisefido-monitor")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_SAMPLE_TOPIC", "vital-focus/+/heartrate")
	cfg.MQTT.QoS = 1

	cfg.Monitor.RingCapacity = getEnvInt("MONITOR_RING_CAPACITY", 200)
	cfg.Monitor.WindowCapacity = getEnvInt("MONITOR_WINDOW_CAPACITY", 300)
	cfg.Monitor.EvalIntervalSeconds = getEnvInt("MONITOR_EVAL_INTERVAL", 60)
	cfg.Monitor.SampleChannelSize = getEnvInt("MONITOR_CHANNEL_SIZE", 256)
	cfg.Monitor.EstimatedMaxHR = 190

	cfg.Monitor.Cache.SnapshotKeyPrefix = getEnv("CACHE_SNAPSHOT_PREFIX", "vital-focus:monitor:")
	cfg.Monitor.Cache.SnapshotSuffix = ":assessment"
	cfg.Monitor.Cache.SnapshotTTL = 120
	cfg.Monitor.Cache.OfflineSuffix = ":offline"

	cfg.Monitor.ThresholdsFile = getEnv("MONITOR_THRESHOLDS_FILE", "")

	cfg.Profile.Age = getEnvFloat("PROFILE_AGE", 40)
	cfg.Profile.BaselineRestingHR = getEnvFloat("PROFILE_BASELINE_RESTING_HR", 65)
	cfg.Profile.HRRecovery1Min = getEnvFloat("PROFILE_HR_RECOVERY_1MIN", 20)
	cfg.Profile.HRRecovery2Min = getEnvFloat("PROFILE_HR_RECOVERY_2MIN", 35)
	cfg.Profile.TimeToTargetSec = getEnvFloat("PROFILE_TIME_TO_TARGET_SEC", 120)

	cfg.Alert = alert.DefaultThresholds()
	if cfg.Monitor.ThresholdsFile != "" {
		if err := loadThresholdsFile(cfg.Monitor.ThresholdsFile, &cfg.Alert); err != nil {
			return nil, fmt.Errorf("failed to load thresholds file: %w", err)
		}
	}

	cfg.Notify.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

// thresholdsFile 阈值文件结构
type thresholdsFile struct {
	Alert alert.Thresholds `yaml:"alert"`
}

// loadThresholdsFile 从 YAML 文件加载报警阈值覆盖
func loadThresholdsFile(path string, dst *alert.Thresholds) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	// 以当前值为基底，文件中出现的字段才会覆盖
	file := thresholdsFile{Alert: *dst}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	*dst = file.Alert
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
