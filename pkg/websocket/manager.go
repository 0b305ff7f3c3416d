package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Manager WebSocket管理器，向看板推送完成的分析结果
type Manager struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

var globalManager *Manager

// InitGlobalWebSocketManager 在进程启动时初始化全局管理器
func InitGlobalWebSocketManager() *Manager {
	globalManager = &Manager{
		hub: newHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 看板与API同域部署，跨域校验交给网关
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	go globalManager.hub.run()
	logrus.Info("WebSocket管理器已初始化")
	return globalManager
}

// GetGlobalWebSocketManager 获取全局管理器，未初始化时返回nil
func GetGlobalWebSocketManager() *Manager {
	return globalManager
}

// HandleWebSocket 升级HTTP连接并接入Hub
func (m *Manager) HandleWebSocket(c *gin.Context) {
	conn, err := m.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("WebSocket升级失败: %v", err)
		return
	}

	client := &Client{
		hub:  m.hub,
		conn: conn,
		send: make(chan []byte, 16),
		id:   uuid.New().String(),
	}
	m.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastAnalysis 向所有客户端广播一次完成的分析
func (m *Manager) BroadcastAnalysis(data interface{}) {
	message := Message{
		Type:      "message",
		DataType:  "analysis",
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("编码WebSocket消息失败: %v", err)
		return
	}
	m.hub.broadcast <- payload
}
