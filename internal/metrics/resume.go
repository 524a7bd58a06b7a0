package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 导出任务的结果标签。
const (
	ExportOutcomeCompleted = "completed"
	ExportOutcomeError     = "error"
	ExportOutcomeSkipped   = "skipped"
)

var (
	// ResumeDuplications 统计成功复制的简历份数。
	ResumeDuplications = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "resumeforge",
			Subsystem: "resume",
			Name:      "duplications_total",
			Help:      "成功复制的简历数量。",
		},
	)

	// ExportsTotal 按结果统计导出任务的执行次数（含重试）。
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumeforge",
			Subsystem: "export",
			Name:      "runs_total",
			Help:      "导出任务执行次数，按结果区分。",
		},
		[]string{"outcome"},
	)

	// ExportBytes 记录导出 PDF 的大小分布。
	ExportBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumeforge",
			Subsystem: "export",
			Name:      "bytes",
			Help:      "导出 PDF 的字节数分布。",
			Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 8),
		},
	)
)
