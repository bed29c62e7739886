package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/arl/statsviz"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Serve 在 addr 上提供 /debug/statsviz/，阻塞直到出错
func Serve(addr string) error {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return err
	}
	return http.ListenAndServe(addr, mux)
}

// Load 一次负载采样
type Load struct {
	CPUPercent float64 `json:"cpuPercent"`
	MemPercent float64 `json:"memPercent"`
	Goroutines int     `json:"goroutines"`
	HeapAlloc  uint64  `json:"heapAlloc"`
}

// Sample 采样系统 CPU、内存和本进程的 goroutine、堆。
// interval 为 0 时 CPU 使用率与上一次调用比较，不阻塞
func Sample(interval time.Duration) (Load, error) {
	var l Load
	percents, err := cpu.Percent(interval, false)
	if err != nil {
		return l, err
	}
	if len(percents) > 0 {
		l.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return l, err
	}
	l.MemPercent = vm.UsedPercent

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	l.HeapAlloc = ms.HeapAlloc
	l.Goroutines = runtime.NumGoroutine()
	return l, nil
}
