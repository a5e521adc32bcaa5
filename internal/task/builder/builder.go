package builder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"athena-regress/internal/conf"
	"athena-regress/internal/constants"
	"athena-regress/internal/model"
	file_util "athena-regress/internal/util/file"
	"athena-regress/pkg/errors"
)

// Workspace 一个配置的构建产物句柄
// 构建产物在活动槽位（bin/athena 和 obj）和按配置命名的暂存位置之间移动，
// 句柄显式地在各阶段之间传递，不依赖进程级的隐式目录状态
type Workspace struct {
	Flux       model.FluxScheme // 对应的通量格式
	ExecPath   string           // 活动执行槽位（绝对路径）
	ObjDir     string           // 活动编译产物目录（绝对路径）
	stashExec  string           // 暂存的可执行文件
	stashObj   string           // 暂存的编译产物目录
	restored   bool             // 是否已恢复到活动槽位
}

// Builder 按通量格式构建求解器
type Builder struct {
	cfg *conf.HarnessConfig
}

// New 创建构建器
func New(cfg *conf.HarnessConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build 以指定通量格式配置并构建求解器，然后把产物暂存到配置限定的名字下
// 活动槽位同一时刻只能放一个构建产物，暂存保证轮换构建时不会互相覆盖
func (b *Builder) Build(ctx context.Context, flux model.FluxScheme) (*Workspace, error) {
	if _, err := exec.LookPath(b.cfg.Python); err != nil {
		return nil, errors.Wrap(errors.ErrCodeToolNotFound,
			fmt.Sprintf("命令不存在: %s", b.cfg.Python), err)
	}

	buildCtx, cancel := context.WithTimeout(ctx, b.cfg.BuildTimeout)
	defer cancel()

	// 1. configure：选择磁场支持、问题类型、坐标系和通量格式
	configureCmd := exec.CommandContext(buildCtx,
		b.cfg.Python, b.cfg.Configure,
		"-b",
		"--prob="+constants.DefaultProblem,
		"--coord="+constants.DefaultCoord,
		"--flux="+flux,
	)
	configureCmd.Dir = b.cfg.RepoDir
	if err := runBuildStep(configureCmd); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigure,
			fmt.Sprintf("configure 失败 (flux=%s)", flux), err)
	}

	// 2. make
	makeCmd := exec.CommandContext(buildCtx, b.cfg.Make, "-j", strconv.Itoa(b.cfg.MakeJobs))
	makeCmd.Dir = b.cfg.RepoDir
	if err := runBuildStep(makeCmd); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMake,
			fmt.Sprintf("make 失败 (flux=%s)", flux), err)
	}

	execPath := filepath.Join(b.cfg.RepoDir, b.cfg.ExecPath)
	objDir := filepath.Join(b.cfg.RepoDir, b.cfg.ObjDir)
	if !file_util.Exists(execPath) {
		return nil, errors.New(errors.ErrCodeArtifactMissing,
			fmt.Sprintf("构建后可执行文件未生成: %s", execPath))
	}

	ws := &Workspace{
		Flux:      flux,
		ExecPath:  execPath,
		ObjDir:    objDir,
		stashExec: execPath + "_" + flux,
		stashObj:  objDir + "_" + flux,
	}

	// 3. 暂存产物，给下一个配置让出活动槽位
	if err := file_util.Move(execPath, ws.stashExec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeArtifactMissing, "暂存可执行文件失败", err)
	}
	if file_util.Exists(objDir) {
		if err := os.Rename(objDir, ws.stashObj); err != nil {
			return nil, errors.Wrap(errors.ErrCodeArtifactMissing, "暂存编译产物目录失败", err)
		}
	}

	zap.L().Info("构建完成",
		zap.String("flux", flux),
		zap.String("stash_exec", ws.stashExec),
	)
	return ws, nil
}

// Restore 把暂存的产物恢复到活动执行槽位
func (b *Builder) Restore(ws *Workspace) error {
	if err := file_util.Move(ws.stashExec, ws.ExecPath); err != nil {
		return errors.Wrap(errors.ErrCodeArtifactMissing,
			fmt.Sprintf("恢复可执行文件失败 (flux=%s)", ws.Flux), err)
	}
	if file_util.Exists(ws.stashObj) {
		if err := os.Rename(ws.stashObj, ws.ObjDir); err != nil {
			return errors.Wrap(errors.ErrCodeArtifactMissing,
				fmt.Sprintf("恢复编译产物目录失败 (flux=%s)", ws.Flux), err)
		}
	}
	ws.restored = true
	return nil
}

// Release 配置的全部调用结束后清理编译中间产物
// 可执行文件留在活动槽位里，下一个配置恢复时会覆盖它
func (b *Builder) Release(ws *Workspace) {
	if !ws.restored {
		return
	}
	if err := os.RemoveAll(ws.ObjDir); err != nil {
		zap.L().Warn("清理编译产物目录失败",
			zap.String("flux", ws.Flux),
			zap.String("dir", ws.ObjDir),
			zap.Error(err),
		)
	}
}

// runBuildStep 执行一个构建步骤并在失败时带上 stderr 末尾内容
func runBuildStep(cmd *exec.Cmd) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w, 错误详情: %s", err, tail(stderr.String(), 1024))
	}
	return nil
}

// tail 截取字符串末尾，构建日志可能很长，诊断只要最后一段
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
