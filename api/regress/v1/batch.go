package v1

// BatchReq 回归批次请求
// 所有字段都可选，缺省时使用配置文件里的扫描参数
type BatchReq struct {
	Fluxes      []string `json:"fluxes"`      // 通量格式列表，按顺序构建
	Resolutions []int    `json:"resolutions"` // 扫描分辨率（粗、细）
	DeckPath    string   `json:"deck_path"`   // 本地参数文件路径（优先）
	DeckBucket  string   `json:"deck_bucket"` // 参数文件所在存储桶
	DeckMD5     string   `json:"deck_md5"`    // 参数文件MD5（对象名）
}

// TokenResp 令牌刷新响应
type TokenResp struct {
	AccessToken string `json:"accessToken"`
}
