package model

// FluxScheme 数值通量格式，对应求解器的一个构建变体
type FluxScheme = string

const (
	FluxHLLD FluxScheme = "hlld"
	FluxRoe  FluxScheme = "roe"
	FluxHLLE FluxScheme = "hlle"
)

// WaveFlag 波模编号，直接传给求解器的 problem/wave_flag
type WaveFlag int

const (
	WaveFastL   WaveFlag = 0 // 左行快磁声波
	WaveAlfvenL WaveFlag = 1 // 左行阿尔芬波
	WaveSlowL   WaveFlag = 2 // 左行慢磁声波
	WaveEntropy WaveFlag = 3 // 熵波
	WaveSlowR   WaveFlag = 4 // 右行慢磁声波
	WaveAlfvenR WaveFlag = 5 // 右行阿尔芬波
	WaveFastR   WaveFlag = 6 // 右行快磁声波
)

var waveNameMap = map[WaveFlag]string{
	WaveFastL:   "L-going fast wave",
	WaveAlfvenL: "L-going Alfven wave",
	WaveSlowL:   "L-going slow wave",
	WaveEntropy: "entropy wave",
	WaveSlowR:   "R-going slow wave",
	WaveAlfvenR: "R-going Alfven wave",
	WaveFastR:   "R-going fast wave",
}

// Name 波模的可读名称，用于诊断信息
func (w WaveFlag) Name() string {
	name, ok := waveNameMap[w]
	if !ok {
		return "unknown wave"
	}
	return name
}

// WaveCase 单个物理算例（波模、分辨率、模拟时长、背景流速）
type WaveCase struct {
	Flag         WaveFlag `json:"flag"`          // 波模编号
	Resolution   int      `json:"resolution"`    // 纵向网格数，0 表示使用参数文件默认网格
	TimeLimit    float64  `json:"time_limit"`    // 模拟时间上限 time/tlim
	FlowVelocity float64  `json:"flow_velocity"` // 背景流速 problem/vflow
}

// RunSpec 一次求解器调用，由规划器生成
// Args 的顺序是固定的，求解器按出现顺序覆盖参数文件中的同名项
type RunSpec struct {
	Case WaveCase `json:"case"` // 本次调用对应的物理算例
	Args []string `json:"args"` // section/key=value 形式的覆盖参数
}
