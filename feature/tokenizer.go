package feature

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer 把文本切分为词项序列。
type Tokenizer interface {
	Tokenize(text string) []string
}

// WordTokenizer 是默认分词器：按“字母/数字/下划线”连续片段切分，
// 丢弃长度小于 MinLength 个字符的片段。
// 对应 Unicode 语义下的 `\b\w\w+\b`；RE2 的 `\b` 只认 ASCII，所以该规则不走正则。
type WordTokenizer struct {
	MinLength int
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func (t WordTokenizer) Tokenize(text string) []string {
	minLen := t.MinLength
	if minLen <= 0 {
		minLen = 2
	}
	fields := strings.FieldsFunc(text, func(r rune) bool { return !isWordRune(r) })
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minLen {
			out = append(out, f)
		}
	}
	return out
}

// RegexpTokenizer 使用正则表达式（RE2 语法）抽取词项。
// 若表达式包含捕获组，使用第一个捕获组作为词项。
type RegexpTokenizer struct {
	re *regexp.Regexp
}

// DefaultTokenPattern 是默认的词项规则，artifact 中写明该规则时使用 WordTokenizer
const DefaultTokenPattern = `\b\w\w+\b`

// NewTokenizer 按 token_pattern 创建分词器：为空或等于 DefaultTokenPattern 时返回 WordTokenizer，
// 否则返回 RegexpTokenizer。
func NewTokenizer(pattern string) (Tokenizer, error) {
	switch strings.TrimPrefix(pattern, "(?u)") {
	case "", DefaultTokenPattern:
		return WordTokenizer{}, nil
	}
	return NewRegexpTokenizer(pattern)
}

// NewRegexpTokenizer 编译分词正则。
// 去掉 `(?u)` 前缀，`\w`/`\W` 改写为 Unicode 字符类；`\b` 仍是 ASCII 边界。
func NewRegexpTokenizer(pattern string) (*RegexpTokenizer, error) {
	pattern = unicodeWordClasses(strings.TrimPrefix(pattern, "(?u)"))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}
	if re.NumSubexp() > 1 {
		return nil, fmt.Errorf("token pattern %q has more than one capture group", pattern)
	}
	return &RegexpTokenizer{re: re}, nil
}

const wordClass = `\p{L}\p{N}\p{Mn}_`

// unicodeWordClasses 把 `\w` 改写为 [\p{L}\p{N}\p{Mn}_]，`\W` 改写为其补集；
// 字符类内部的 `\w` 展开为不带括号的形式。
func unicodeWordClasses(pattern string) string {
	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			next := pattern[i+1]
			i++
			switch {
			case next == 'w' && inClass:
				b.WriteString(wordClass)
			case next == 'w':
				b.WriteString("[" + wordClass + "]")
			case next == 'W' && !inClass:
				b.WriteString("[^" + wordClass + "]")
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			continue
		}
		switch {
		case c == '[' && !inClass:
			inClass = true
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (t *RegexpTokenizer) Tokenize(text string) []string {
	if t.re.NumSubexp() == 0 {
		return t.re.FindAllString(text, -1)
	}
	matches := t.re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// wordNgrams 生成 [minN, maxN] 范围内的词 n-gram，n-gram 内部以单个空格连接。
func wordNgrams(tokens []string, minN, maxN int) []string {
	if minN == 1 && maxN == 1 {
		return tokens
	}
	out := make([]string, 0, len(tokens)*(maxN-minN+1))
	if minN == 1 {
		out = append(out, tokens...)
		minN = 2
	}
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}
