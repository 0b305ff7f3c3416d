package analysis

import (
	"regexp"
	"strings"
)

var (
	fenceRe      = regexp.MustCompile("(?i)```[a-z]*")
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown 第一阶段：去掉带或不带语言标签的围栏代码块标记，
// 修剪首尾空白并压缩多余空行
func StripMarkdown(text string) string {
	text = fenceRe.ReplaceAllString(text, "")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// ExtractObject 第二阶段：定位第一个'{'，用括号深度计数找到配对的'}'
// 模型输出的自由文本里可能夹带大括号，"第一个{到最后一个}"或非贪婪正则都会误判，
// 必须用平衡扫描
func ExtractObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	// 深度始终未归零，提取失败
	return "", false
}
