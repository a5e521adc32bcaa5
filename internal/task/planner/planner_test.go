package planner

import (
	"strings"
	"testing"

	"athena-regress/internal/model"
	"athena-regress/pkg/errors"
)

func TestCatalog_Order(t *testing.T) {
	cases, err := Catalog([]int{32, 64})
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}

	// 顺序是验证器的契约：三个方向波族×两个分辨率，熵波×两个分辨率，
	// 最后左行/右行快波各一个默认网格算例
	want := []model.WaveCase{
		{Flag: model.WaveFastL, Resolution: 32, TimeLimit: 0.5, FlowVelocity: 0.0},
		{Flag: model.WaveFastL, Resolution: 64, TimeLimit: 0.5, FlowVelocity: 0.0},
		{Flag: model.WaveAlfvenL, Resolution: 32, TimeLimit: 1.0, FlowVelocity: 0.0},
		{Flag: model.WaveAlfvenL, Resolution: 64, TimeLimit: 1.0, FlowVelocity: 0.0},
		{Flag: model.WaveSlowL, Resolution: 32, TimeLimit: 2.0, FlowVelocity: 0.0},
		{Flag: model.WaveSlowL, Resolution: 64, TimeLimit: 2.0, FlowVelocity: 0.0},
		{Flag: model.WaveEntropy, Resolution: 32, TimeLimit: 1.0, FlowVelocity: 1.0},
		{Flag: model.WaveEntropy, Resolution: 64, TimeLimit: 1.0, FlowVelocity: 1.0},
		{Flag: model.WaveFastL, Resolution: 0, TimeLimit: 0.5, FlowVelocity: 0.0},
		{Flag: model.WaveFastR, Resolution: 0, TimeLimit: 0.5, FlowVelocity: 0.0},
	}

	if len(cases) != len(want) {
		t.Fatalf("Catalog returned %d cases, want %d", len(cases), len(want))
	}
	for i, c := range cases {
		if c != want[i] {
			t.Errorf("case[%d] = %+v, want %+v", i, c, want[i])
		}
	}
}

func TestCatalog_InvalidResolutions(t *testing.T) {
	tests := []struct {
		name        string
		resolutions []int
	}{
		{
			name:        "只有一个分辨率",
			resolutions: []int{32},
		},
		{
			name:        "三个分辨率",
			resolutions: []int{16, 32, 64},
		},
		{
			name:        "非递增",
			resolutions: []int{64, 32},
		},
		{
			name:        "相等",
			resolutions: []int{32, 32},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Catalog(tt.resolutions); err == nil {
				t.Errorf("Catalog(%v) expected error, got nil", tt.resolutions)
			}
		})
	}
}

func TestCompile_DerivedDims(t *testing.T) {
	spec, err := Compile(model.WaveCase{
		Flag:       model.WaveAlfvenL,
		Resolution: 64,
		TimeLimit:  1.0,
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	// 纵向=res，横向=res/2，分块=res/4，全部精确整除
	want := []string{
		"time/ncycle_out=100",
		"problem/wave_flag=1",
		"problem/vflow=0.0",
		"mesh/refinement=static",
		"mesh/nx1=64",
		"mesh/nx2=32",
		"mesh/nx3=32",
		"meshblock/nx1=16",
		"meshblock/nx2=16",
		"meshblock/nx3=16",
		"output2/dt=-1",
		"time/tlim=1",
		"problem/compute_error=true",
	}
	if len(spec.Args) != len(want) {
		t.Fatalf("Compile returned %d args, want %d:\n%v", len(spec.Args), len(want), spec.Args)
	}
	for i, arg := range spec.Args {
		if arg != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, arg, want[i])
		}
	}
}

func TestCompile_DeckDefault(t *testing.T) {
	spec, err := Compile(model.WaveCase{
		Flag:      model.WaveFastR,
		TimeLimit: 0.5,
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	want := []string{
		"time/ncycle_out=100",
		"problem/wave_flag=6",
		"output2/dt=-1",
		"time/tlim=0.5",
		"problem/compute_error=true",
	}
	if len(spec.Args) != len(want) {
		t.Fatalf("Compile returned %d args, want %d:\n%v", len(spec.Args), len(want), spec.Args)
	}
	for i, arg := range spec.Args {
		if arg != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, arg, want[i])
		}
	}
	for _, arg := range spec.Args {
		if strings.HasPrefix(arg, "mesh/") || strings.HasPrefix(arg, "meshblock/") {
			t.Errorf("默认网格算例不应覆盖网格参数: %q", arg)
		}
	}
}

func TestCompile_RejectsNonDivisible(t *testing.T) {
	tests := []struct {
		name       string
		resolution int
		wantErr    bool
	}{
		{
			name:       "30不是4的倍数",
			resolution: 30,
			wantErr:    true,
		},
		{
			name:       "34不是4的倍数",
			resolution: 34,
			wantErr:    true,
		},
		{
			name:       "32可以",
			resolution: 32,
			wantErr:    false,
		},
		{
			name:       "128可以",
			resolution: 128,
			wantErr:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(model.WaveCase{
				Flag:       model.WaveFastL,
				Resolution: tt.resolution,
				TimeLimit:  0.5,
			})
			if tt.wantErr {
				if !errors.IsErrorCode(err, errors.ErrCodeInvalidResolution) {
					t.Errorf("Compile(res=%d) error = %v, want ErrCodeInvalidResolution",
						tt.resolution, err)
				}
			} else if err != nil {
				t.Errorf("Compile(res=%d) unexpected error: %v", tt.resolution, err)
			}
		})
	}
}

func TestPlan_CountAndTags(t *testing.T) {
	plan, err := Plan([]int{32, 64})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan) != 10 {
		t.Fatalf("Plan returned %d specs, want 10", len(plan))
	}
	// 每个调用都带着自己的算例标签
	for i, spec := range plan {
		if len(spec.Args) == 0 {
			t.Errorf("spec[%d] has no args", i)
		}
	}
}

func TestLocate(t *testing.T) {
	plan, err := Plan([]int{32, 64})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	tests := []struct {
		name       string
		flag       model.WaveFlag
		resolution int
		wantIdx    int
		wantFound  bool
	}{
		{
			name:       "细分辨率快波",
			flag:       model.WaveFastL,
			resolution: 64,
			wantIdx:    1,
			wantFound:  true,
		},
		{
			name:       "粗分辨率熵波",
			flag:       model.WaveEntropy,
			resolution: 32,
			wantIdx:    6,
			wantFound:  true,
		},
		{
			name:       "默认网格右行快波",
			flag:       model.WaveFastR,
			resolution: 0,
			wantIdx:    9,
			wantFound:  true,
		},
		{
			name:       "不存在的组合",
			flag:       model.WaveSlowR,
			resolution: 32,
			wantFound:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, found := Locate(plan, tt.flag, tt.resolution)
			if found != tt.wantFound {
				t.Fatalf("Locate found = %v, want %v", found, tt.wantFound)
			}
			if found && idx != tt.wantIdx {
				t.Errorf("Locate idx = %d, want %d", idx, tt.wantIdx)
			}
		})
	}
}
