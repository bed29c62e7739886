package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/Futarimiti/riichi-hairi/common/log"
	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

// RoomManager 房间管理器
// 管理所有客户端的会话，所有会话共用一份分解缓存
type RoomManager struct {
	rooms    map[string]*Room // roomID -> Room
	defaults mahjong.Rules
	memo     mahjong.Memo
	mu       sync.RWMutex
}

// NewRoomManager 创建房间管理器
func NewRoomManager(defaults mahjong.Rules, memo mahjong.Memo) *RoomManager {
	return &RoomManager{
		rooms:    make(map[string]*Room),
		defaults: defaults,
		memo:     memo,
	}
}

// CreateRoom 创建房间，players 为 0 时使用默认人数
func (rm *RoomManager) CreateRoom(players mahjong.PlayerCount, interactive bool) (*Room, error) {
	rules := rm.defaults
	if players != 0 {
		if !players.Valid() {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, players)
		}
		rules.Players = players
	}

	session := NewSession(rules, rm.memo)
	if interactive {
		session.SwitchMode(true)
	}
	room := NewRoom(session)

	rm.mu.Lock()
	rm.rooms[room.ID] = room
	rm.mu.Unlock()

	log.Info("RoomManager 创建房间 %s，人数: %d，交互: %v", room.ID, session.Players(), interactive)
	return room, nil
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(roomID string) (*Room, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, exists := rm.rooms[roomID]
	return room, exists
}

// DeleteRoom 删除房间
func (rm *RoomManager) DeleteRoom(roomID string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if _, exists := rm.rooms[roomID]; !exists {
		return fmt.Errorf("房间 %s 不存在", roomID)
	}
	delete(rm.rooms, roomID)

	log.Info("RoomManager 删除房间 %s", roomID)
	return nil
}

// GetStats 获取房间数
// 供 Monitor 使用
func (rm *RoomManager) GetStats() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// SweepIdle 删除超过 ttl 未访问的房间，返回删除数量
func (rm *RoomManager) SweepIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	deadline := time.Now().Add(-ttl)

	rm.mu.Lock()
	defer rm.mu.Unlock()

	n := 0
	for id, room := range rm.rooms {
		if room.LastActive().Before(deadline) {
			delete(rm.rooms, id)
			n++
		}
	}
	if n > 0 {
		log.Info("RoomManager 清理空闲房间 %d 个", n)
	}
	return n
}
