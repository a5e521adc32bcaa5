package file_util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile 复制单个文件，保留权限
func CopyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("源文件错误: %v", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("%s 不是常规文件", src)
	}

	// 确保目标目录存在
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %v", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("打开源文件失败: %v", err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("创建目标文件失败: %v", err)
	}
	defer dstFile.Close()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		os.Remove(dst)
		return fmt.Errorf("复制内容失败: %v", err)
	}
	if err = dstFile.Sync(); err != nil {
		return fmt.Errorf("同步到磁盘失败: %v", err)
	}
	return nil
}

// Move 移动文件或目录
// 优先用 rename，跨文件系统时回退为复制后删除（仅支持常规文件）
func Move(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// Exists 判断路径是否存在
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
