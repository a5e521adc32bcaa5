package verify

import (
	"fmt"

	"go.uber.org/zap"

	"athena-regress/internal/model"
	"athena-regress/internal/task/errtable"
	"athena-regress/internal/task/planner"
	"athena-regress/pkg/errors"
)

// 各项检查的固定阈值
const (
	// maxRelBound 最大相对误差上界，对快波/阿尔芬波/慢波统一适用
	maxRelBound = 8.0
	// convergenceBound 细/粗分辨率RMS误差比值上界
	// 分辨率加倍时二阶格式误差应降到1/4，0.4 留了余量；超过说明没有按预期阶数收敛
	convergenceBound = 0.4
)

// rmsBounds 细分辨率下各波族的RMS误差上界
var rmsBounds = map[model.WaveFlag]float64{
	model.WaveFastL:   4.5e-8,
	model.WaveAlfvenL: 4.0e-8,
	model.WaveSlowL:   5.0e-8,
	model.WaveEntropy: 2.75e-8,
}

// Analyze 对整张误差表执行全部检查
// 按配置切块后逐配置独立评估；检查之间互不影响，一次运行暴露全部违规
// 返回的 error 只表示表结构问题，阈值类失败体现在诊断列表里
func Analyze(table errtable.Table, fluxes []model.FluxScheme, plan []model.RunSpec) (bool, []model.Diagnostic, error) {
	blocks, err := table.Reshape(len(fluxes))
	if err != nil {
		return false, nil, err
	}

	passed := true
	var diags []model.Diagnostic
	for i, flux := range fluxes {
		fluxPassed, fluxDiags, err := analyzeFlux(flux, blocks[i], plan)
		if err != nil {
			return false, nil, err
		}
		passed = passed && fluxPassed
		diags = append(diags, fluxDiags...)
	}
	return passed, diags, nil
}

// analyzeFlux 对单个配置的行块执行检查
func analyzeFlux(flux model.FluxScheme, rows []errtable.Row, plan []model.RunSpec) (bool, []model.Diagnostic, error) {
	// 行块和规划序列一一对应，数量不一致说明规划器和执行器脱节
	if len(rows) != len(plan) {
		return false, nil, errors.New(errors.ErrCodeTableShape,
			fmt.Sprintf("配置 %s 的行数 %d 与规划的调用数 %d 不一致", flux, len(rows), len(plan)))
	}

	coarseRes, fineRes, err := sweptResolutions(plan)
	if err != nil {
		return false, nil, err
	}

	passed := true
	var diags []model.Diagnostic
	fail := func(d model.Diagnostic) {
		diags = append(diags, d)
		if !d.Informational {
			passed = false
		}
		zap.L().Warn("检查未通过",
			zap.String("flux", d.Flux),
			zap.String("family", d.Family),
			zap.String("check", d.Check),
			zap.Bool("informational", d.Informational),
			zap.String("detail", d.Message),
		)
	}

	row := func(flag model.WaveFlag, res int) (errtable.Row, error) {
		idx, ok := planner.Locate(plan, flag, res)
		if !ok {
			return nil, errors.New(errors.ErrCodeTableShape,
				fmt.Sprintf("规划序列中找不到算例 (%s, res=%d)", flag.Name(), res))
		}
		return rows[idx], nil
	}

	// 最大相对误差检查：快波和慢波在细分辨率下直接比较第13列
	for _, flag := range []model.WaveFlag{model.WaveFastL, model.WaveSlowL} {
		fine, err := row(flag, fineRes)
		if err != nil {
			return false, nil, err
		}
		if v := fine[errtable.ColMaxRel]; v > maxRelBound {
			fail(model.Diagnostic{
				Flux:   flux,
				Family: flag.Name(),
				Check:  "max_rel",
				Message: fmt.Sprintf("maximum relative error in %s too large: %g > %g",
					flag.Name(), v, maxRelBound),
			})
		}
	}

	// 阿尔芬波的密度分量恒为零，最大相对误差改用 M1 的最大误差与L1误差之比。
	// 这一项历来只记录不判负：是有意为之还是遗留缺陷无从考证，
	// 此处保持原语义并用 informational 标记，不要悄悄"修复"
	alfvenFine, err := row(model.WaveAlfvenL, fineRes)
	if err != nil {
		return false, nil, err
	}
	if r := alfvenFine[errtable.ColM1Max] / alfvenFine[errtable.ColM1L1]; r > maxRelBound {
		fail(model.Diagnostic{
			Flux:          flux,
			Family:        model.WaveAlfvenL.Name(),
			Check:         "max_rel",
			Informational: true,
			Message: fmt.Sprintf("maximum relative error in %s too large: %g > %g",
				model.WaveAlfvenL.Name(), r, maxRelBound),
		})
	}

	// RMS上界与收敛性检查：四个波族一致处理
	for _, flag := range []model.WaveFlag{
		model.WaveFastL, model.WaveAlfvenL, model.WaveSlowL, model.WaveEntropy,
	} {
		coarse, err := row(flag, coarseRes)
		if err != nil {
			return false, nil, err
		}
		fine, err := row(flag, fineRes)
		if err != nil {
			return false, nil, err
		}

		if v := fine[errtable.ColRMS]; v > rmsBounds[flag] {
			fail(model.Diagnostic{
				Flux:   flux,
				Family: flag.Name(),
				Check:  "rms",
				Message: fmt.Sprintf("RMS error in %s too large: %g > %g",
					flag.Name(), v, rmsBounds[flag]),
			})
		}
		if ratio := fine[errtable.ColRMS] / coarse[errtable.ColRMS]; ratio > convergenceBound {
			fail(model.Diagnostic{
				Flux:   flux,
				Family: flag.Name(),
				Check:  "convergence",
				Message: fmt.Sprintf("not converging for %s: coarse=%g fine=%g ratio=%g > %g",
					flag.Name(), coarse[errtable.ColRMS], fine[errtable.ColRMS],
					ratio, convergenceBound),
			})
		}
	}

	// 方向对称性检查：左行/右行快波的RMS误差必须逐位相等
	// 求解器对方向翻转是精确对称的，这里是严格相等而不是容差带
	left, err := row(model.WaveFastL, 0)
	if err != nil {
		return false, nil, err
	}
	right, err := row(model.WaveFastR, 0)
	if err != nil {
		return false, nil, err
	}
	if left[errtable.ColRMS] != right[errtable.ColRMS] {
		fail(model.Diagnostic{
			Flux:   flux,
			Family: "L/R-going fast waves",
			Check:  "symmetry",
			Message: fmt.Sprintf("error in L/R-going fast waves not equal: L=%g R=%g",
				left[errtable.ColRMS], right[errtable.ColRMS]),
		})
	}

	return passed, diags, nil
}

// sweptResolutions 从规划序列中提取粗、细两个扫描分辨率
func sweptResolutions(plan []model.RunSpec) (int, int, error) {
	coarse, fine := 0, 0
	for _, spec := range plan {
		res := spec.Case.Resolution
		if res == 0 {
			continue
		}
		if coarse == 0 || res < coarse {
			coarse = res
		}
		if res > fine {
			fine = res
		}
	}
	if coarse == 0 || coarse == fine {
		return 0, 0, errors.New(errors.ErrCodeInvalidResolution,
			fmt.Sprintf("规划序列中缺少粗/细两个扫描分辨率 (coarse=%d fine=%d)", coarse, fine))
	}
	return coarse, fine, nil
}
