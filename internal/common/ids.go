package common

import "strings"

// TemporaryIDPrefix отмечает локальные id черновиков, которые сервер никогда не выдавал.
const TemporaryIDPrefix = "tmp-"

func IsTemporaryID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), TemporaryIDPrefix)
}
