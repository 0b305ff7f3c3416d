package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Watchlist 定时扫描的自选股清单，从YAML文件加载
type Watchlist struct {
	Symbols []string `yaml:"symbols"`
	Model   string   `yaml:"model,omitempty"` // 可选，扫描统一使用的模型标识
}

// LoadWatchlist 从YAML文件加载自选股清单
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取自选股文件失败: %v", err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("解析自选股文件失败: %v", err)
	}
	if len(wl.Symbols) == 0 {
		return nil, fmt.Errorf("自选股清单为空: %s", path)
	}
	return &wl, nil
}
