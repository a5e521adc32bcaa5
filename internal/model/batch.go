package model

import "time"

// BatchStatus 批次状态
type BatchStatus = string

const (
	StatusPending BatchStatus = "PENDING" // 待执行
	StatusRunning BatchStatus = "RUNNING" // 执行中
	StatusPass    BatchStatus = "PASS"    // 全部检查通过
	StatusFail    BatchStatus = "FAIL"    // 存在阈值/对称性检查失败
	StatusError   BatchStatus = "ERROR"   // 构建/运行/表结构错误，批次中止
)

// BatchTask 一次完整回归批次
type BatchTask struct {
	BatchID    int64        `json:"batch_id"`    // 批次唯一标识
	Fluxes     []FluxScheme `json:"fluxes"`      // 按顺序构建的通量格式
	DeckPath   string       `json:"deck_path"`   // 本地参数文件路径（优先）
	DeckBucket string       `json:"deck_bucket"` // 参数文件所在存储桶（可选）
	DeckMD5    string       `json:"deck_md5"`    // 参数文件MD5（对象名）
	CreateTime int64        `json:"create_time"` // 批次创建时间戳
}

// Diagnostic 单条检查诊断，命名失败的配置、波族和观测值
type Diagnostic struct {
	Flux          FluxScheme `json:"flux"`          // 所属通量格式
	Family        string     `json:"family"`        // 波族名称
	Check         string     `json:"check"`         // 检查类别 rms/max_rel/convergence/symmetry
	Message       string     `json:"message"`       // 含观测值与期望值的描述
	Informational bool       `json:"informational"` // 仅记录，不影响批次结论
}

// BatchResult 完整批次结果
type BatchResult struct {
	BatchID     int64         `json:"batch_id"`    // 对应批次ID
	Status      BatchStatus   `json:"status"`      // 最终状态
	Passed      bool          `json:"passed"`      // 所有非信息性检查是否通过
	Diagnostics []Diagnostic  `json:"diagnostics"` // 所有失败检查的诊断
	RowsPerFlux int           `json:"rows_per_flux"` // 每个配置的误差表行数
	SubmitTime  time.Time     `json:"submit_time"` // 提交时间
	FinishTime  time.Time     `json:"finish_time"` // 完成时间
	Duration    time.Duration `json:"duration"`    // 总耗时
	Error       string        `json:"error"`       // 批次级错误信息（仅 ERROR 状态）
}

// BatchRecord 批次结果的数据库记录
type BatchRecord struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Fluxes      string    `gorm:"size:128" json:"fluxes"`
	Status      string    `gorm:"size:16" json:"status"`
	Passed      bool      `json:"passed"`
	Diagnostics string    `gorm:"type:text" json:"diagnostics"` // JSON 序列化的诊断列表
	DurationMs  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定 gorm 表名
func (BatchRecord) TableName() string {
	return "regress_batches"
}
