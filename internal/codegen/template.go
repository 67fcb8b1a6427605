package codegen

import "strings"

// Template substitutes `%name%` placeholders in text against vars,
// leaving unrecognized placeholders untouched.
func Template(text string, vars map[string]string) string {
	var b strings.Builder
	i := 0
	for i < len(text) {
		if text[i] != '%' {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := strings.IndexByte(text[i+1:], '%')
		if end < 0 {
			b.WriteByte(text[i])
			i++
			continue
		}
		name := text[i+1 : i+1+end]
		if v, ok := vars[name]; ok {
			b.WriteString(v)
			i += end + 2
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}
