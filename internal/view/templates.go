package view

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// FuncMap 返回模板使用的辅助函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": formatDate,
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
	}
}

// Templates 解析内嵌的全部页面模板，模板名即文件名。
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates 与 Templates 相同，解析失败时 panic。
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

func formatDate(value any) string {
	switch t := value.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04")
	default:
		return ""
	}
}
