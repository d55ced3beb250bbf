package filter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rushteam/tagkit/core"
	"github.com/rushteam/tagkit/pkg/conv"
)

// BlacklistFilter 过滤掉固定列表中的候选，以及 rctx.Params["exclude"] 中请求级排除的候选。
// 名单按 id 文本匹配：名单中的 "7" 同时命中数字 id 7 与字符串 id "7"。
type BlacklistFilter struct {
	ids map[string]struct{}
}

// NewBlacklistFilter 创建黑名单过滤器
func NewBlacklistFilter(itemIDs []string) *BlacklistFilter {
	ids := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		ids[id] = struct{}{}
	}
	return &BlacklistFilter{ids: ids}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	text := idText(item.ID)
	if _, ok := f.ids[text]; ok {
		return true, nil
	}
	if rctx == nil {
		return false, nil
	}
	for _, id := range excludeList(rctx.Params["exclude"]) {
		if id == text {
			return true, nil
		}
	}
	return false, nil
}

// excludeList 接受 []string 或 JSON 解码得到的 []any
func excludeList(v any) []string {
	if ids, ok := v.([]string); ok {
		return ids
	}
	return conv.SliceAnyToString(v)
}

// idText 去掉字符串 id 的 JSON 引号，数字 id 原样返回
func idText(id string) string {
	if !strings.HasPrefix(id, `"`) {
		return id
	}
	var s string
	if err := json.Unmarshal([]byte(id), &s); err != nil {
		return id
	}
	return s
}
