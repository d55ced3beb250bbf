package recommend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rushteam/tagkit/core"
)

// Request 是推荐接口的请求体：{"user_id": <id>, "posts": [{"id": <id>, ...}, ...]}。
// id 可以是字符串或数字，原样回显；帖子的其余字段进入 Item.Meta，可被过滤表达式引用。
// exclude 与 params 可选：params 进入 rctx.params，exclude 并入 rctx.params.exclude。
type Request struct {
	UserID  any            `json:"user_id"`
	Posts   []Post         `json:"posts"`
	Exclude []any          `json:"exclude,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// Post 是一个候选帖子的原始字段
type Post map[string]any

// Response 是推荐接口的返回体，ids 与请求中的写法一致。
type Response struct {
	RecommendedPosts []any `json:"recommended_posts"`
}

// DecodeRequest 解析请求体，数字保留为 json.Number 以便原样回显大整数 id。
// 非法 JSON 返回 INVALID_INPUT。
func DecodeRequest(r io.Reader) (*Request, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, core.NewInvalidInputError(core.ModuleRecommend, "Invalid input")
	}
	return &req, nil
}

// idKey 返回 id 的规范化字符串：字符串 "1" 与数字 1 视为不同的 id。
func idKey(id any) (string, error) {
	switch v := id.(type) {
	case string, json.Number, float64, int, int64:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
	default:
		return "", fmt.Errorf("unsupported id type %T", id)
	}
}

// idText 返回 id 的文本形式（字符串去引号，数字保留原始写法），用于按文本匹配的排除名单。
func idText(id any) (string, error) {
	switch v := id.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64, int, int64:
		return idKey(v)
	default:
		return "", fmt.Errorf("unsupported id type %T", id)
	}
}

// truthy 判断 user_id 是否为“真值”：null、空串、0、false、空数组/对象都视为缺失。
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}
