package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"

	"athena-regress/internal/dao"
	"athena-regress/pkg/errors"
)

// DownloadDeckByMD5 根据 bucket 和 md5 下载参数文件
// 对象名就是文件内容的 MD5，回归批次引用的参数文件按内容寻址，
// 同一份参数文件不同批次拿到的必然是同一个对象
func DownloadDeckByMD5(bucket, md5 string) ([]byte, error) {
	if bucket == "" || md5 == "" {
		return nil, errors.New(errors.ErrCodeMissingParam, "bucket 和 md5 不能为空")
	}
	if dao.MinIOClient == nil {
		return nil, errors.New(errors.ErrCodeStorage, "minio 未初始化")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	object, err := dao.MinIOClient.GetObject(ctx, bucket, md5, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDeckDownloadFailed,
			fmt.Sprintf("获取参数文件对象失败: %s/%s", bucket, md5), err)
	}
	defer object.Close()

	content, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDeckDownloadFailed,
			fmt.Sprintf("读取参数文件内容失败: %s/%s", bucket, md5), err)
	}
	return content, nil
}
