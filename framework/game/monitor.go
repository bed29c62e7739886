package game

import (
	"context"
	"sync"
	"time"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/common/metrics"
)

// LoadInfo 负载信息
type LoadInfo struct {
	Rooms int `json:"rooms"`
	metrics.Load
	SampledAt time.Time `json:"sampledAt"`
}

// Monitor 监控器
// 定期采样负载、清理空闲房间，/health 读取最近一次采样
type Monitor struct {
	roomManager    *RoomManager
	updateInterval time.Duration
	idleTTL        time.Duration

	latest LoadInfo
	mu     sync.RWMutex
	stopCh chan struct{}
	once   sync.Once
}

// NewMonitor 创建监控器
// updateInterval: 更新间隔（建议 5-10 秒）
// idleTTL: 房间空闲多久后清理，0 表示不清理
func NewMonitor(roomManager *RoomManager, updateInterval, idleTTL time.Duration) *Monitor {
	return &Monitor{
		roomManager:    roomManager,
		updateInterval: updateInterval,
		idleTTL:        idleTTL,
		stopCh:         make(chan struct{}),
	}
}

// Start 启动监控器，阻塞直到 ctx 结束或 Stop
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.updateInterval)
	defer ticker.Stop()

	// 立即执行一次
	m.tick()

	for {
		select {
		case <-ctx.Done():
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-m.stopCh:
			log.Info("Monitor 收到停止信号，退出监控")
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// Stop 停止监控器
func (m *Monitor) Stop() {
	m.once.Do(func() { close(m.stopCh) })
}

// Latest 最近一次采样
func (m *Monitor) Latest() LoadInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

func (m *Monitor) tick() {
	m.roomManager.SweepIdle(m.idleTTL)

	info, err := m.Collect()
	if err != nil {
		log.Warn("Monitor 采样失败: %v", err)
		return
	}
	m.mu.Lock()
	m.latest = info
	m.mu.Unlock()
	log.Debug("Monitor 负载: Rooms=%d, CPU=%.2f%%, Mem=%.2f%%, Goroutines=%d",
		info.Rooms, info.CPUPercent, info.MemPercent, info.Goroutines)
}

// Collect 立即采样一次
func (m *Monitor) Collect() (LoadInfo, error) {
	load, err := metrics.Sample(0)
	if err != nil {
		return LoadInfo{}, err
	}
	return LoadInfo{
		Rooms:     m.roomManager.GetStats(),
		Load:      load,
		SampledAt: time.Now(),
	}, nil
}
