package node

import "encoding/json"

// Envelope NATS 上传输的请求，Route 决定交给哪个处理器
type Envelope struct {
	Route string          `json:"route"`
	Data  json.RawMessage `json:"data"`
}

// Reply 处理器出错时的统一应答
type Reply struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}
