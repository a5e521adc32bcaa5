package builder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"athena-regress/internal/conf"
	"athena-regress/internal/model"
	file_util "athena-regress/internal/util/file"
	"athena-regress/pkg/errors"
)

func testConfig(repoDir string) *conf.HarnessConfig {
	return &conf.HarnessConfig{
		RepoDir:      repoDir,
		Python:       "python3",
		Make:         "make",
		MakeJobs:     2,
		ExecPath:     "bin/athena",
		ObjDir:       "obj",
		Configure:    "configure.py",
		BuildTimeout: time.Minute,
		RunTimeout:   time.Minute,
	}
}

// setupArtifacts 在临时仓库目录里摆好暂存状态的构建产物
func setupArtifacts(t *testing.T, repoDir string, flux model.FluxScheme) *Workspace {
	t.Helper()
	binDir := filepath.Join(repoDir, "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	execPath := filepath.Join(repoDir, "bin", "athena")
	objDir := filepath.Join(repoDir, "obj")
	ws := &Workspace{
		Flux:      flux,
		ExecPath:  execPath,
		ObjDir:    objDir,
		stashExec: execPath + "_" + flux,
		stashObj:  objDir + "_" + flux,
	}
	if err := os.WriteFile(ws.stashExec, []byte("fake-binary-"+flux), 0755); err != nil {
		t.Fatalf("write stash exec: %v", err)
	}
	if err := os.MkdirAll(ws.stashObj, 0755); err != nil {
		t.Fatalf("mkdir stash obj: %v", err)
	}
	return ws
}

func TestRestoreAndRelease(t *testing.T) {
	repoDir := t.TempDir()
	b := New(testConfig(repoDir))
	ws := setupArtifacts(t, repoDir, model.FluxHLLD)

	if err := b.Restore(ws); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !file_util.Exists(ws.ExecPath) {
		t.Errorf("恢复后活动槽位应存在可执行文件: %s", ws.ExecPath)
	}
	if file_util.Exists(ws.stashExec) {
		t.Errorf("恢复后暂存位置应已清空: %s", ws.stashExec)
	}
	if !file_util.Exists(ws.ObjDir) {
		t.Errorf("恢复后编译产物目录应存在: %s", ws.ObjDir)
	}

	content, err := os.ReadFile(ws.ExecPath)
	if err != nil {
		t.Fatalf("read restored exec: %v", err)
	}
	if string(content) != "fake-binary-hlld" {
		t.Errorf("恢复的可执行文件内容不对: %q", content)
	}

	b.Release(ws)
	if file_util.Exists(ws.ObjDir) {
		t.Errorf("Release 后编译产物目录应被删除: %s", ws.ObjDir)
	}
	if !file_util.Exists(ws.ExecPath) {
		t.Errorf("Release 不应删除活动槽位的可执行文件")
	}
}

func TestRelease_SkipsUnrestored(t *testing.T) {
	repoDir := t.TempDir()
	b := New(testConfig(repoDir))
	ws := setupArtifacts(t, repoDir, model.FluxRoe)

	// 未恢复的工作区不能清理，产物还在暂存位置
	b.Release(ws)
	if !file_util.Exists(ws.stashExec) {
		t.Errorf("未恢复的工作区 Release 后暂存产物应保留")
	}
	if !file_util.Exists(ws.stashObj) {
		t.Errorf("未恢复的工作区 Release 后暂存目录应保留")
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	// 两个配置轮换占用活动槽位
	repoDir := t.TempDir()
	b := New(testConfig(repoDir))
	wsA := setupArtifacts(t, repoDir, model.FluxHLLD)
	wsB := setupArtifacts(t, repoDir, model.FluxRoe)

	if err := b.Restore(wsA); err != nil {
		t.Fatalf("Restore(hlld) failed: %v", err)
	}
	b.Release(wsA)

	if err := b.Restore(wsB); err != nil {
		t.Fatalf("Restore(roe) failed: %v", err)
	}
	content, err := os.ReadFile(wsB.ExecPath)
	if err != nil {
		t.Fatalf("read restored exec: %v", err)
	}
	if string(content) != "fake-binary-roe" {
		t.Errorf("活动槽位应是后恢复配置的产物: %q", content)
	}
}

func TestRestore_MissingStash(t *testing.T) {
	repoDir := t.TempDir()
	b := New(testConfig(repoDir))
	ws := &Workspace{
		Flux:      model.FluxHLLD,
		ExecPath:  filepath.Join(repoDir, "bin", "athena"),
		ObjDir:    filepath.Join(repoDir, "obj"),
		stashExec: filepath.Join(repoDir, "bin", "athena_hlld"),
		stashObj:  filepath.Join(repoDir, "obj_hlld"),
	}
	err := b.Restore(ws)
	if !errors.IsErrorCode(err, errors.ErrCodeArtifactMissing) {
		t.Errorf("Restore error = %v, want ErrCodeArtifactMissing", err)
	}
}

func TestBuild_ToolNotFound(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Python = "no-such-interpreter-zz"
	b := New(cfg)
	_, err := b.Build(context.Background(), model.FluxHLLD)
	if !errors.IsErrorCode(err, errors.ErrCodeToolNotFound) {
		t.Errorf("Build error = %v, want ErrCodeToolNotFound", err)
	}
}

func TestTail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{
			name: "短于上限原样返回",
			in:   "short",
			n:    10,
			want: "short",
		},
		{
			name: "长于上限截取末尾",
			in:   strings.Repeat("a", 20) + "end",
			n:    5,
			want: "aaend",
		},
		{
			name: "空串",
			in:   "",
			n:    5,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tail(tt.in, tt.n); got != tt.want {
				t.Errorf("tail(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
