package cache

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"athena-regress/internal/conf"
	"athena-regress/internal/constants"
	"athena-regress/internal/dao/minio"
	"athena-regress/pkg/errors"
)

// DeckCache 参数文件本地缓存
// 参数文件按内容寻址（对象名即MD5），落盘后做完整性校验，
// 过期和超出磁盘配额的条目按最久未访问顺序淘汰
type DeckCache struct {
	cache        map[string]*cachedDeck
	mutex        sync.Mutex
	ttl          time.Duration
	cleanFreq    time.Duration
	cacheDir     string // 本地缓存目录
	maxDiskUsage int64  // 最大磁盘使用量（字节）
	currentUsage int64  // 当前磁盘使用量
}

type cachedDeck struct {
	filePath   string    // 缓存文件的路径
	expireTime time.Time // 过期时间
	size       int64     // 文件大小
	accessTime time.Time // 最后访问时间
	md5Hash    string    // 文件的MD5哈希值
}

var (
	instance *DeckCache
	once     sync.Once

	// 实例化前通过 Configure 覆盖的参数
	cfgTTL          = constants.DefaultCacheTTL
	cfgCleanFreq    = constants.DefaultCleanFrequency
	cfgMaxDiskUsage = int64(constants.DefaultMaxDiskUsage)
)

// Configure 设置缓存参数，必须在第一次 GetDeckCache 之前调用才会生效
func Configure(c *conf.CacheConfig) {
	if c == nil {
		return
	}
	if c.DeckTTL > 0 {
		cfgTTL = c.DeckTTL
	}
	if c.CleanFrequency > 0 {
		cfgCleanFreq = c.CleanFrequency
	}
	if c.MaxDiskUsage > 0 {
		cfgMaxDiskUsage = c.MaxDiskUsage
	}
}

// GetDeckCache 获取单例缓存实例
func GetDeckCache() *DeckCache {
	once.Do(func() {
		cacheDir := filepath.Join(os.TempDir(), constants.CacheDirName)
		if err := os.MkdirAll(cacheDir, constants.CacheDirPerm); err != nil {
			panic(fmt.Errorf("create deck cache dir fail: %w", err))
		}
		instance = &DeckCache{
			cache:        make(map[string]*cachedDeck),
			ttl:          cfgTTL,
			cleanFreq:    cfgCleanFreq,
			cacheDir:     cacheDir,
			maxDiskUsage: cfgMaxDiskUsage,
		}
		go instance.startCleaner()
	})
	return instance
}

// GetFilePath 获取缓存的参数文件路径
func (c *DeckCache) GetFilePath(bucket, md5Hash string) (string, bool) {
	key := c.generateKey(bucket, md5Hash)

	c.mutex.Lock()
	defer c.mutex.Unlock()
	cached, exists := c.cache[key]
	if !exists {
		return "", false
	}

	// 过期或文件丢失都按未命中处理
	if time.Now().After(cached.expireTime) || !fileExists(cached.filePath) {
		c.dropLocked(key)
		return "", false
	}

	// 落盘内容被改动过的条目不可信，直接淘汰
	if !verifyIntegrity(cached.filePath, cached.md5Hash) {
		c.dropLocked(key)
		return "", false
	}

	cached.accessTime = time.Now()
	return cached.filePath, true
}

// Set 把参数文件内容写入缓存
func (c *DeckCache) Set(bucket, md5Hash string, content []byte) error {
	actual := fmt.Sprintf("%x", md5.Sum(content))
	if actual != md5Hash {
		return errors.New(errors.ErrCodeCacheFailed,
			fmt.Sprintf("MD5不匹配: 期望 %s 实际 %s", md5Hash, actual))
	}

	if err := c.ensureSpace(int64(len(content))); err != nil {
		return err
	}

	filePath := filepath.Join(c.cacheDir, fmt.Sprintf("%s_%s", bucket, md5Hash))
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeCacheFailed, "写入缓存文件失败", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	key := c.generateKey(bucket, md5Hash)
	if old, exists := c.cache[key]; exists {
		os.Remove(old.filePath)
		c.currentUsage -= old.size
	}
	c.cache[key] = &cachedDeck{
		filePath:   filePath,
		expireTime: time.Now().Add(c.ttl),
		size:       int64(len(content)),
		accessTime: time.Now(),
		md5Hash:    md5Hash,
	}
	c.currentUsage += int64(len(content))
	return nil
}

// DownloadDeckWithCache 获取参数文件的本地路径，未命中时从 MinIO 下载
func (c *DeckCache) DownloadDeckWithCache(bucket, md5Hash string) (string, error) {
	if path, found := c.GetFilePath(bucket, md5Hash); found {
		zap.L().Debug("参数文件缓存命中", zap.String("md5", md5Hash))
		return path, nil
	}

	content, err := minio.DownloadDeckByMD5(bucket, md5Hash)
	if err != nil {
		return "", err
	}
	if err := c.Set(bucket, md5Hash, content); err != nil {
		return "", err
	}

	path, found := c.GetFilePath(bucket, md5Hash)
	if !found {
		return "", errors.New(errors.ErrCodeCacheFailed, "缓存写入后未命中")
	}
	return path, nil
}

// Clear 清空所有缓存
func (c *DeckCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, cached := range c.cache {
		os.Remove(cached.filePath)
	}
	c.cache = make(map[string]*cachedDeck)
	c.currentUsage = 0
}

// GetCacheStats 获取缓存统计信息
func (c *DeckCache) GetCacheStats() map[string]interface{} {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return map[string]interface{}{
		"cache_size":    len(c.cache),
		"current_usage": c.currentUsage,
		"max_usage":     c.maxDiskUsage,
		"cache_dir":     c.cacheDir,
		"ttl":           c.ttl.String(),
	}
}

// ensureSpace 空间不足时按最久未访问顺序淘汰
func (c *DeckCache) ensureSpace(newSize int64) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.currentUsage+newSize > c.maxDiskUsage {
		type entry struct {
			key  string
			deck *cachedDeck
		}
		var entries []entry
		for key, deck := range c.cache {
			entries = append(entries, entry{key, deck})
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].deck.accessTime.Before(entries[j].deck.accessTime)
		})
		for _, e := range entries {
			if c.currentUsage+newSize <= c.maxDiskUsage {
				break
			}
			c.dropLocked(e.key)
		}
	}

	if c.currentUsage+newSize > c.maxDiskUsage {
		return errors.New(errors.ErrCodeCacheFailed, "缓存磁盘空间不足")
	}
	return nil
}

// dropLocked 移除一个缓存条目，调用方必须持有锁
func (c *DeckCache) dropLocked(key string) {
	if cached, exists := c.cache[key]; exists {
		os.Remove(cached.filePath)
		c.currentUsage -= cached.size
		delete(c.cache, key)
	}
}

// startCleaner 启动过期清理协程
func (c *DeckCache) startCleaner() {
	ticker := time.NewTicker(c.cleanFreq)
	defer ticker.Stop()
	for range ticker.C {
		c.cleanExpired()
	}
}

// cleanExpired 清理过期的缓存项
func (c *DeckCache) cleanExpired() {
	now := time.Now()
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key, cached := range c.cache {
		if now.After(cached.expireTime) {
			c.dropLocked(key)
		}
	}
}

// generateKey 生成缓存键
func (c *DeckCache) generateKey(bucket, md5Hash string) string {
	return fmt.Sprintf("%s:%s", bucket, md5Hash)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// verifyIntegrity 校验落盘文件的MD5
func verifyIntegrity(filePath, expectedMD5 string) bool {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return false
	}
	return fmt.Sprintf("%x", md5.Sum(content)) == expectedMD5
}
