package errtable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"athena-regress/pkg/errors"
)

// makeLine 生成一行 n 列的数值文本，首列取 seed 便于区分
func makeLine(seed float64, n int) string {
	fields := make([]string, n)
	fields[0] = fmt.Sprintf("%g", seed)
	for i := 1; i < n; i++ {
		fields[i] = fmt.Sprintf("%g", float64(i)*1e-8)
	}
	return strings.Join(fields, "  ")
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "errors.dat")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestReadFile_SkipsCommentsAndBlank(t *testing.T) {
	content := strings.Join([]string{
		"# Nx1  Nx2  Nx3  Ncycle  RMS-L1  d_L1  M1_L1 ...",
		"",
		makeLine(32, 22),
		"   ",
		makeLine(64, 22),
		"# trailing comment",
	}, "\n")

	table, err := ReadFile(writeTemp(t, content))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if table.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", table.NumRows())
	}
	if table.Rows[0][0] != 32 || table.Rows[1][0] != 64 {
		t.Errorf("行顺序错误: %v, %v", table.Rows[0][0], table.Rows[1][0])
	}
}

func TestReadFile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode errors.ErrorCode
	}{
		{
			name:     "非数值字段",
			content:  "32 16 16 abc 1e-8 " + makeLine(0, 17),
			wantCode: errors.ErrCodeTableParse,
		},
		{
			name:     "NaN视为发散",
			content:  strings.Replace(makeLine(32, 22), "1e-08", "nan", 1),
			wantCode: errors.ErrCodeTableParse,
		},
		{
			name:     "列数不足",
			content:  makeLine(32, 10),
			wantCode: errors.ErrCodeTableColumns,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile(writeTemp(t, tt.content))
			if !errors.IsErrorCode(err, tt.wantCode) {
				t.Errorf("ReadFile error = %v, want code %d", err, tt.wantCode)
			}
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "no-such-file.dat"))
	if !errors.IsErrorCode(err, errors.ErrCodeErrorFileMissing) {
		t.Errorf("ReadFile error = %v, want ErrCodeErrorFileMissing", err)
	}
}

func TestReshape(t *testing.T) {
	makeTable := func(n int) Table {
		var tb Table
		for i := 0; i < n; i++ {
			row := make(Row, MinColumns)
			row[0] = float64(i)
			tb.Rows = append(tb.Rows, row)
		}
		return tb
	}

	tests := []struct {
		name       string
		totalRows  int
		numConfigs int
		wantPer    int
		wantErr    bool
	}{
		{
			name:       "20行两个配置",
			totalRows:  20,
			numConfigs: 2,
			wantPer:    10,
		},
		{
			name:       "9行不能被2整除",
			totalRows:  9,
			numConfigs: 2,
			wantErr:    true,
		},
		{
			name:       "空表",
			totalRows:  0,
			numConfigs: 2,
			wantErr:    true,
		},
		{
			name:       "配置数为0",
			totalRows:  10,
			numConfigs: 0,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := makeTable(tt.totalRows).Reshape(tt.numConfigs)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Reshape(%d/%d) expected error, got nil", tt.totalRows, tt.numConfigs)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reshape failed: %v", err)
			}
			if len(blocks) != tt.numConfigs {
				t.Fatalf("len(blocks) = %d, want %d", len(blocks), tt.numConfigs)
			}
			for i, block := range blocks {
				if len(block) != tt.wantPer {
					t.Errorf("block[%d] has %d rows, want %d", i, len(block), tt.wantPer)
				}
			}
			// 按原始顺序连续切分
			if blocks[1][0][0] != float64(tt.wantPer) {
				t.Errorf("block[1][0] 首列 = %v, want %d", blocks[1][0][0], tt.wantPer)
			}
		})
	}
}

func TestReshape_ShapeErrorMessage(t *testing.T) {
	var tb Table
	for i := 0; i < 9; i++ {
		tb.Rows = append(tb.Rows, make(Row, MinColumns))
	}
	_, err := tb.Reshape(2)
	if !errors.IsErrorCode(err, errors.ErrCodeTableShape) {
		t.Fatalf("Reshape error = %v, want ErrCodeTableShape", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "9") || !strings.Contains(msg, "2") {
		t.Errorf("形状错误应包含总行数和配置数: %q", msg)
	}
}
