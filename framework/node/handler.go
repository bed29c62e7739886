package node

// LogicFunc 处理一条请求，返回值序列化后作为应答
type LogicFunc func(data []byte) any

type LogicHandler map[string]LogicFunc
