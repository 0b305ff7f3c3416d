package analysis

import (
	"regexp"
	"strings"
)

// 修复规则的正则，顺序与Repair中的应用顺序对应
var (
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	singleQuotedRe  = regexp.MustCompile(`'([^']*)'`)
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	quotedNullRe    = regexp.MustCompile(`"(?:null|undefined)"`)
)

// Repair 第三阶段的预处理：在严格解析前按固定顺序修复常见的模型输出毛病
//  1. 去掉控制字符
//  2. 嵌入的换行/制表符压缩为单个空格
//  3. 裸键名加引号 {ident}: -> "{ident}":
//  4. 单引号字符串改双引号
//  5. 删除闭括号前的尾随逗号
//  6. 字符串形式的"null"/"undefined"改为裸null
func Repair(text string) string {
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return ' '
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, text)

	text = bareKeyRe.ReplaceAllString(text, `$1"$2":`)
	text = singleQuotedRe.ReplaceAllString(text, `"$1"`)
	text = trailingCommaRe.ReplaceAllString(text, `$1`)
	text = quotedNullRe.ReplaceAllString(text, `null`)
	return text
}

// anchorRe 兜底重试用的锚定模式：要求shortTerm与longTerm两个键按序出现在同一个对象里
var anchorRe = regexp.MustCompile(`(?s)\{.*?"?shortTerm"?\s*:.*?"?longTerm"?\s*:.*\}`)

// FindAnchored 在未清洗的原始文本里搜索锚定模式，找不到返回空串
func FindAnchored(original string) string {
	return anchorRe.FindString(original)
}
