package errtable

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"athena-regress/pkg/errors"
)

// 误差表列的固定下标。求解器按固定顺序输出各列，消费端不允许重排：
// 0..3 Nx1 Nx2 Nx3 Ncycle，4 总RMS误差，5..12 各守恒量的L1误差
// (d,M1,M2,M3,E,B1c,B2c,B3c)，13 最大相对误差，14..21 各守恒量的最大误差
const (
	ColRMS    = 4  // 总RMS误差（L1）
	ColM1L1   = 6  // M1 动量的L1误差
	ColMaxRel = 13 // 最大相对误差
	ColM1Max  = 15 // M1 动量的最大误差

	// MinColumns 一行至少要包含的列数（覆盖所有被引用的下标）
	MinColumns = 16
)

// Row 误差表的一行，对应一次求解器调用
type Row []float64

// Table 一个批次的完整误差表
type Table struct {
	Rows []Row
}

// NumRows 总行数
func (t Table) NumRows() int {
	return len(t.Rows)
}

// Reshape 按配置数切分为每个配置一个连续块
// 总行数不能被配置数整除时返回形状错误，说明规划器和执行器不一致
// （比如某个配置少跑或重跑了一次）
func (t Table) Reshape(numConfigs int) ([][]Row, error) {
	if numConfigs <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam,
			fmt.Sprintf("配置数无效: %d", numConfigs))
	}
	total := len(t.Rows)
	if total == 0 || total%numConfigs != 0 {
		return nil, errors.NewShapeError(total, numConfigs)
	}
	perConfig := total / numConfigs
	blocks := make([][]Row, numConfigs)
	for i := 0; i < numConfigs; i++ {
		blocks[i] = t.Rows[i*perConfig : (i+1)*perConfig]
	}
	return blocks, nil
}

// ReadFile 读取求解器输出的误差表文件
// 文件是空白分隔的数值表，# 开头的行是表头注释
// 出现 NaN 说明求解器数值发散，直接报错而不是留给阈值检查
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeErrorFileMissing,
			fmt.Sprintf("打开误差表文件失败: %s", path), err)
	}
	defer f.Close()

	var table Table
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		row := make(Row, 0, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return Table{}, errors.Wrap(errors.ErrCodeTableParse,
					fmt.Sprintf("第%d行解析失败: %q", lineNo, field), err)
			}
			if math.IsNaN(v) {
				return Table{}, errors.New(errors.ErrCodeTableParse,
					fmt.Sprintf("第%d行出现NaN，求解器数值发散", lineNo))
			}
			row = append(row, v)
		}
		if len(row) < MinColumns {
			return Table{}, errors.New(errors.ErrCodeTableColumns,
				fmt.Sprintf("第%d行只有%d列 (至少需要%d列)", lineNo, len(row), MinColumns))
		}
		table.Rows = append(table.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeTableParse, "读取误差表文件失败", err)
	}
	return table, nil
}
