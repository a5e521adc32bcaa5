package planner

import (
	"fmt"
	"math"
	"strconv"

	"athena-regress/internal/constants"
	"athena-regress/internal/model"
	"athena-regress/pkg/errors"
)

// 所有算例共用的固定覆盖参数
const (
	argNcycleOut    = "time/ncycle_out=100"
	argRefinement   = "mesh/refinement=static"
	argNoOutput     = "output2/dt=-1"
	argComputeError = "problem/compute_error=true"
)

// Catalog 生成一个配置下的完整算例序列
// 顺序是契约的一部分：三个方向波族各扫两个分辨率，熵波扫两个分辨率，
// 最后是两个默认网格的单算例（左行/右行快波），验证器按此顺序定位行
func Catalog(resolutions []int) ([]model.WaveCase, error) {
	if len(resolutions) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidResolution,
			fmt.Sprintf("分辨率数量无效: %d (应恰好为粗、细两个)", len(resolutions)))
	}
	if resolutions[0] >= resolutions[1] {
		return nil, errors.New(errors.ErrCodeInvalidResolution,
			fmt.Sprintf("分辨率必须严格递增: %v", resolutions))
	}

	var cases []model.WaveCase

	// 左行快波/阿尔芬波/慢波，tlim 取波模编号与0.5的较大者
	for flag := model.WaveFastL; flag <= model.WaveSlowL; flag++ {
		tlim := math.Max(0.5, float64(flag))
		for _, res := range resolutions {
			cases = append(cases, model.WaveCase{
				Flag:         flag,
				Resolution:   res,
				TimeLimit:    tlim,
				FlowVelocity: 0.0,
			})
		}
	}

	// 熵波随背景流传播一个周期
	for _, res := range resolutions {
		cases = append(cases, model.WaveCase{
			Flag:         model.WaveEntropy,
			Resolution:   res,
			TimeLimit:    1.0,
			FlowVelocity: 1.0,
		})
	}

	// 左行/右行快波各一次，使用参数文件默认网格，用于方向对称性检查
	for _, flag := range []model.WaveFlag{model.WaveFastL, model.WaveFastR} {
		cases = append(cases, model.WaveCase{
			Flag:      flag,
			TimeLimit: 0.5,
		})
	}

	return cases, nil
}

// Compile 将一个算例编译为求解器调用
// 网格派生规则：纵向 nx1=res，横向 nx2=nx3=res/2，分块三个方向均为 res/4，
// 全部为精确整除——res 不是4的倍数时直接拒绝，绝不产生小数网格
func Compile(c model.WaveCase) (model.RunSpec, error) {
	args := []string{
		argNcycleOut,
		fmt.Sprintf("problem/wave_flag=%d", c.Flag),
	}

	if c.Resolution > 0 {
		if c.Resolution%constants.ResolutionGranularity != 0 {
			return model.RunSpec{}, errors.New(errors.ErrCodeInvalidResolution,
				fmt.Sprintf("分辨率 %d 不是%d的倍数，派生网格不是整数",
					c.Resolution, constants.ResolutionGranularity))
		}
		res := c.Resolution
		args = append(args,
			fmt.Sprintf("problem/vflow=%s", formatFloat(c.FlowVelocity)),
			argRefinement,
			fmt.Sprintf("mesh/nx1=%d", res),
			fmt.Sprintf("mesh/nx2=%d", res/2),
			fmt.Sprintf("mesh/nx3=%d", res/2),
			fmt.Sprintf("meshblock/nx1=%d", res/constants.ResolutionGranularity),
			fmt.Sprintf("meshblock/nx2=%d", res/constants.ResolutionGranularity),
			fmt.Sprintf("meshblock/nx3=%d", res/constants.ResolutionGranularity),
		)
	}

	args = append(args,
		argNoOutput,
		fmt.Sprintf("time/tlim=%s", strconv.FormatFloat(c.TimeLimit, 'f', -1, 64)),
		argComputeError,
	)

	return model.RunSpec{Case: c, Args: args}, nil
}

// Plan 生成一个配置下的全部调用序列
// 每个配置的序列完全相同，差异只体现在构建阶段选择的通量格式
func Plan(resolutions []int) ([]model.RunSpec, error) {
	cases, err := Catalog(resolutions)
	if err != nil {
		return nil, err
	}
	specs := make([]model.RunSpec, 0, len(cases))
	for _, c := range cases {
		spec, err := Compile(c)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Locate 在调用序列中定位指定波模和分辨率的算例下标
// 验证器用标签定位行，而不是硬编码行号，规划器和验证器不会悄悄漂移
func Locate(plan []model.RunSpec, flag model.WaveFlag, resolution int) (int, bool) {
	for i, spec := range plan {
		if spec.Case.Flag == flag && spec.Case.Resolution == resolution {
			return i, true
		}
	}
	return 0, false
}

// formatFloat 背景流速按一位小数输出（与参数文件中的写法一致）
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
