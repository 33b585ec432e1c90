package user

import "strings"

// normalizeCommand turns "/start@bot payload" into "start".
func normalizeCommand(raw string) string {
	cmd := strings.TrimSpace(raw)
	if i := strings.IndexAny(cmd, " \t\n"); i >= 0 {
		cmd = cmd[:i]
	}
	cmd = strings.TrimPrefix(cmd, "/")
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}
