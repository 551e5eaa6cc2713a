package zxbasic

import (
	"regexp"
	"strings"
)

var (
	documentTitle = regexp.MustCompile(`\A[ \t]*#[ \t]+[^\n]*\n*`)
	sectionTitle  = regexp.MustCompile(`(?m)^##[ \t]+([^#\n]*)\n*`)
	subTitle      = regexp.MustCompile(`(?m)^###[ \t]+([^#\n]*)\n*`)
)

// FormatDescription turns a keyword page into a description: the
// document title is dropped, section titles become bold and sub titles
// italic.
func FormatDescription(markdown string) string {
	text := strings.ReplaceAll(markdown, "\r\n", "\n")
	text = documentTitle.ReplaceAllString(text, "")
	text = replaceTitles(sectionTitle, text, "**")
	return replaceTitles(subTitle, text, "*")
}

func replaceTitles(re *regexp.Regexp, text, emphasis string) string {
	return re.ReplaceAllStringFunc(text, func(match string) string {
		title := strings.TrimSpace(re.FindStringSubmatch(match)[1])
		return emphasis + title + emphasis + "\n\n"
	})
}
