package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"athena-regress/internal/conf"
	"athena-regress/internal/model"
	"athena-regress/pkg/errors"
)

// Runner 求解器运行器
// 在求解器的 bin 目录下依次执行规划好的调用，求解器把每次运行的误差行
// 追加到共享误差表文件里，行序就是调用序，所以绝不允许并发执行
type Runner struct {
	cfg *conf.HarnessConfig
}

// New 创建运行器
func New(cfg *conf.HarnessConfig) *Runner {
	return &Runner{cfg: cfg}
}

// ErrorFilePath 共享误差表文件的绝对路径
func (r *Runner) ErrorFilePath() string {
	return filepath.Join(r.cfg.RepoDir, r.cfg.ErrorFile)
}

// TruncateErrorFile 批次开始前清掉上一批次的误差表
// 求解器只会追加，不清理的话新旧批次的行会混在一起
func (r *Runner) TruncateErrorFile() error {
	path := r.ErrorFilePath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeRun,
			fmt.Sprintf("清理误差表文件失败: %s", path), err)
	}
	return nil
}

// Run 执行一次求解器调用
// deckPath 为空时使用配置里的默认参数文件；覆盖参数按规划顺序原样传递
func (r *Runner) Run(ctx context.Context, flux model.FluxScheme, deckPath string, spec model.RunSpec) error {
	execPath := filepath.Join(r.cfg.RepoDir, r.cfg.ExecPath)
	absExec, err := filepath.Abs(execPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRun, "获取可执行文件绝对路径失败", err)
	}

	if deckPath == "" {
		deckPath = r.cfg.Deck
	}
	if !filepath.IsAbs(deckPath) {
		deckPath = filepath.Join(r.cfg.RepoDir, deckPath)
	}
	absDeck, err := filepath.Abs(deckPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDeck, "获取参数文件绝对路径失败", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.RunTimeout)
	defer cancel()

	args := append([]string{"-i", absDeck}, spec.Args...)
	cmd := exec.CommandContext(runCtx, absExec, args...)
	// 在 bin 目录下运行，误差表文件写在可执行文件旁边
	cmd.Dir = filepath.Dir(absExec)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	zap.L().Info("执行求解器",
		zap.String("flux", flux),
		zap.String("wave", spec.Case.Flag.Name()),
		zap.Int("resolution", spec.Case.Resolution),
	)

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return errors.Wrap(errors.ErrCodeRunTimeout,
				fmt.Sprintf("求解器运行超时 (flux=%s, wave=%s)", flux, spec.Case.Flag.Name()), err)
		}
		return errors.Wrap(errors.ErrCodeRun,
			fmt.Sprintf("求解器运行失败 (flux=%s, wave=%s): %s",
				flux, spec.Case.Flag.Name(), tail(stderr.String(), 1024)), err)
	}
	return nil
}

// tail 截取字符串末尾
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
