package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"wisefido-monitor/internal/alert"
	"wisefido-monitor/internal/buffer"
	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/scoring"
	"wisefido-monitor/internal/sensor"
	"wisefido-monitor/internal/stats"
	"wisefido-monitor/internal/zone"
)

// Profile 佩戴者画像（体能评分器的会话级输入）
type Profile struct {
	Age               float64
	BaselineRestingHR float64
	EstimatedMaxHR    float64
	HRRecovery1Min    float64
	HRRecovery2Min    float64
	TimeToTargetSec   float64
}

// AssessmentStore 评估结果持久化接口（写失败记录日志，不中断监测）
type AssessmentStore interface {
	SaveAssessment(ctx context.Context, deviceID string, a models.Assessment, snap models.SourceSnapshot) error
}

// AssessmentCache 评估结果缓存接口（实时快照 + 离线缓存）
type AssessmentCache interface {
	StoreSnapshot(ctx context.Context, deviceID string, a models.Assessment) error
	StoreOffline(ctx context.Context, deviceID string, a models.Assessment) error
}

// Session 监测会话
// 每次启动监测新建一个会话实例；两个缓冲区只归会话的消费 goroutine 所有，
// 采样推送和周期定时都汇入同一个消费循环，保证单写者串行化。
type Session struct {
	cfg      *config.Config
	logger   *zap.Logger
	deviceID string
	profile  Profile

	source    sensor.SampleSource
	ancillary sensor.AncillaryProvider
	engine    *alert.Engine
	store     AssessmentStore
	cache     AssessmentCache

	ring   *buffer.SampleRing
	window *buffer.FeatureWindow

	samples      chan models.Sample
	evalInterval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	stateMu        sync.RWMutex
	currentZone    models.Zone
	alertStatus    models.AlertStatus
	lastAssessment *models.Assessment

	metrics Metrics
	now     func() time.Time
}

// NewSession 创建监测会话
// store/cache/ancillary 可为 nil（对应协作方不可用时监测本身照常运行）
func NewSession(
	cfg *config.Config,
	deviceID string,
	profile Profile,
	source sensor.SampleSource,
	ancillary sensor.AncillaryProvider,
	engine *alert.Engine,
	store AssessmentStore,
	cache AssessmentCache,
	logger *zap.Logger,
) *Session {
	if profile.EstimatedMaxHR <= 0 {
		profile.EstimatedMaxHR = cfg.Monitor.EstimatedMaxHR
	}
	interval := time.Duration(cfg.Monitor.EvalIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}

	return &Session{
		cfg:          cfg,
		logger:       logger,
		deviceID:     deviceID,
		profile:      profile,
		source:       source,
		ancillary:    ancillary,
		engine:       engine,
		store:        store,
		cache:        cache,
		ring:         buffer.NewSampleRing(cfg.Monitor.RingCapacity),
		window:       buffer.NewFeatureWindow(cfg.Monitor.WindowCapacity),
		samples:      make(chan models.Sample, channelSize(cfg)),
		evalInterval: interval,
		alertStatus:  models.AlertNormal,
		now:          time.Now,
	}
}

func channelSize(cfg *config.Config) int {
	if cfg.Monitor.SampleChannelSize > 0 {
		return cfg.Monitor.SampleChannelSize
	}
	return 256
}

// Start 启动监测会话
// 幂等：已在运行时直接返回，不会建立重复订阅
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn("Session already running, ignoring duplicate start",
			zap.String("device_id", s.deviceID),
		)
		return nil
	}

	// 传感器不可用视为配置错误，会话不启动
	if s.source != nil {
		if err := s.source.Subscribe(s.OnSample); err != nil {
			return fmt.Errorf("failed to subscribe to sample source: %w", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true
	s.metrics.markStarted(s.now())

	go s.run(runCtx)

	s.logger.Info("Monitoring session started",
		zap.String("device_id", s.deviceID),
		zap.Duration("eval_interval", s.evalInterval),
	)

	return nil
}

// Stop 停止监测会话
// 幂等：取消订阅与定时器、清空两个缓冲区并释放内存
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done

	if s.source != nil {
		s.source.Close()
	}

	s.ring.Clear()
	s.window.Clear()
	s.running = false

	s.logger.Info("Monitoring session stopped",
		zap.String("device_id", s.deviceID),
	)
}

// Running 会话是否在运行
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// OnSample 采样入口（传感器推送回调）
// 验证失败的采样直接丢弃；通道满时丢弃采样而不是阻塞生产者
func (s *Session) OnSample(sample models.Sample) {
	if !sample.Valid() {
		s.metrics.markRejected()
		return
	}

	select {
	case s.samples <- sample:
	default:
		s.metrics.markDiscarded()
	}
}

// run 消费循环：唯一拥有缓冲区的 goroutine
func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.evalInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case sample := <-s.samples:
			s.ingest(sample)
		case <-ticker.C:
			s.evaluateCycle(ctx)
		}
	}
}

// ingest 处理单个已验证采样：入缓冲、分区、驱动报警状态机
func (s *Session) ingest(sample models.Sample) {
	s.ring.Push(sample)
	s.window.Push(sample.Value)
	s.metrics.markAccepted(sample.Timestamp)

	z := zone.Classify(sample.Value, sample.Mode, s.profile.EstimatedMaxHR)

	previous := s.engine.Status()
	status, dispatched := s.engine.Evaluate(sample, s.window.Values())
	if status != previous {
		s.metrics.markNotification(dispatched)
	}

	s.stateMu.Lock()
	s.currentZone = z
	s.alertStatus = status
	s.stateMu.Unlock()
}

// evaluateCycle 周期性评估：粗粒度风险 + 四评分器集合 + 关键预检
func (s *Session) evaluateCycle(ctx context.Context) {
	values := s.window.Values()
	if len(values) == 0 {
		s.metrics.markEvaluation(s.now(), true)
		return
	}

	latest, _ := s.ring.Latest()

	// 粗粒度风险评估（窗口不足 60 时不评估）
	if score, ok := EvaluateWindowRisk(values, latest.Mode); ok {
		if score > ForceCriticalScore {
			previous := s.engine.Status()
			status, dispatched := s.engine.ForceCritical(
				fmt.Sprintf("Periodic risk score %.2f above threshold", score),
			)
			if status != previous {
				s.metrics.markNotification(dispatched)
			}
			s.logger.Warn("Periodic risk evaluation forced critical state",
				zap.String("device_id", s.deviceID),
				zap.Float64("score", score),
			)
		}
	}

	assessment, snapshot := s.assess(ctx, values, latest)
	s.metrics.markEvaluation(assessment.Timestamp, false)

	s.stateMu.Lock()
	s.lastAssessment = &assessment
	s.stateMu.Unlock()

	s.publish(ctx, assessment, snapshot)
}

// assess 运行评分集合与关键预检，组装本周期的 Assessment
func (s *Session) assess(ctx context.Context, values []float64, latest models.Sample) (models.Assessment, models.SourceSnapshot) {
	f := ComputeWindowFeatures(values)

	// HRV 代理：基于 RR 间期等效序列的 RMSSD/SDNN（毫秒尺度）
	intervals := RRIntervals(values)
	rmssd := stats.RMSSD(intervals)
	sdnn := stats.StdDev(intervals)

	// 辅助聚合数据：缺失时使用默认值
	within := time.Hour
	resp := sensor.RespiratoryRateOrDefault(ctx, s.ancillary, within)
	activity := sensor.ActivityEnergyOrDefault(ctx, s.ancillary, within)
	sleep := sensor.SleepRatioOrDefault(ctx, s.ancillary, within)

	rhythm := scoring.ScoreRhythm(f.Mean, f.StdDev, f.PNN50Like)

	risk := scoring.ScoreRisk(scoring.RiskInput{
		AvgHR:      f.Mean,
		HRVMean:    rmssd,
		RespRate:   resp,
		Activity:   activity,
		SleepRatio: sleep,
	})

	ringSamples := s.ring.Recent(s.ring.Len())
	heartRates := make([]float64, len(ringSamples))
	for i, sample := range ringSamples {
		heartRates[i] = sample.Value
	}
	pattern := scoring.ScorePattern(heartRates)

	fitness := scoring.ScoreFitness(scoring.FitnessInput{
		Age:               s.profile.Age,
		RestingHR:         f.Mean,
		HRReserve:         s.profile.EstimatedMaxHR - s.profile.BaselineRestingHR,
		HRRecovery1Min:    s.profile.HRRecovery1Min,
		HRRecovery2Min:    s.profile.HRRecovery2Min,
		TimeToTargetSec:   s.profile.TimeToTargetSec,
		RMSSD:             rmssd,
		SDNN:              sdnn,
		BaselineRestingHR: s.profile.BaselineRestingHR,
		SleepRatio:        sleep,
	})

	// 关键预检：独立于集合评估，命中即直接上报，不受冷却压制
	critical := scoring.CheckCritical(scoring.CriticalInput{
		HeartRate:       latest.Value,
		HRV:             rmssd,
		RespiratoryRate: resp,
		Activity:        activity,
	})
	for _, signal := range critical {
		s.logger.Error("Critical pre-check signal",
			zap.String("device_id", s.deviceID),
			zap.String("reason", signal.Reason),
			zap.String("advisory", signal.Advisory),
		)
	}

	assessment := scoring.BuildAssessment(rhythm, risk, pattern, fitness, critical, s.now())
	snapshot := models.SourceSnapshot{
		MeanHR:          f.Mean,
		StdHR:           f.StdDev,
		HRVMean:         rmssd,
		RespiratoryRate: resp,
		ActivityEnergy:  activity,
		SleepRatio:      sleep,
		SampleCount:     len(values),
	}

	return assessment, snapshot
}

// publish 下发本周期结果：实时快照、离线缓存、持久化
// 任一协作方失败都只记录日志，监测继续
func (s *Session) publish(ctx context.Context, assessment models.Assessment, snapshot models.SourceSnapshot) {
	if s.cache != nil {
		if err := s.cache.StoreSnapshot(ctx, s.deviceID, assessment); err != nil {
			s.logger.Error("Failed to update assessment snapshot cache",
				zap.String("device_id", s.deviceID),
				zap.Error(err),
			)
		}
		if err := s.cache.StoreOffline(ctx, s.deviceID, assessment); err != nil {
			s.logger.Error("Failed to update offline assessment cache",
				zap.String("device_id", s.deviceID),
				zap.Error(err),
			)
		}
	}

	if s.store != nil {
		if err := s.store.SaveAssessment(ctx, s.deviceID, assessment, snapshot); err != nil {
			s.metrics.markPersistFailure()
			s.logger.Error("Failed to persist assessment",
				zap.String("assessment_id", assessment.AssessmentID),
				zap.Error(err),
			)
		}
	}
}

// CurrentZone 当前生理强度区间
func (s *Session) CurrentZone() models.Zone {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.currentZone
}

// AlertStatus 当前报警状态
func (s *Session) AlertStatus() models.AlertStatus {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.alertStatus
}

// LastAssessment 最近一次评估结果（尚未评估过时返回 nil）
func (s *Session) LastAssessment() *models.Assessment {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.lastAssessment
}

// Metrics 指标快照
func (s *Session) Metrics() Metrics {
	return s.metrics.GetSnapshot()
}
