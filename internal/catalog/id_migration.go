package catalog

// 旧的英文课程ID -> 当前使用的中文ID
var idMigrationMap = map[string]string{
	"python-basics":     "Python基础入门",
	"javascript-basics": "JavaScript基础",
}

// MigrateToNewID 没有映射时原样返回
func MigrateToNewID(oldID string) string {
	if newID, ok := idMigrationMap[oldID]; ok {
		return newID
	}
	return oldID
}

// IsLegacyID 是否为需要迁移的旧ID
func IsLegacyID(id string) bool {
	_, ok := idMigrationMap[id]
	return ok
}

// LegacyIDs 旧ID到新ID的映射副本
func LegacyIDs() map[string]string {
	m := make(map[string]string, len(idMigrationMap))
	for oldID, newID := range idMigrationMap {
		m[oldID] = newID
	}
	return m
}
