package catalog

import "fmt"

// ChapterRange 步骤编号区间 [Start, End] 对应的章节文件夹
type ChapterRange struct {
	Start  int    `mapstructure:"start" json:"start"`
	End    int    `mapstructure:"end" json:"end"`
	Folder string `mapstructure:"folder" json:"folder"`
}

func (r ChapterRange) Contains(id int) bool {
	return id >= r.Start && id <= r.End
}

func (r ChapterRange) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// CoursePath 单门课程的路径配置
type CoursePath struct {
	BasePath      string         `json:"basePath"`
	Ranges        []ChapterRange `json:"ranges"`
	DefaultFolder string         `json:"defaultFolder"`
}

// FolderFor 命中区间时返回对应文件夹，否则返回默认文件夹
func (p *CoursePath) FolderFor(id int) (folder string, matched bool) {
	for _, r := range p.Ranges {
		if r.Contains(id) {
			return r.Folder, true
		}
	}
	if p.DefaultFolder != "" {
		return p.DefaultFolder, false
	}
	if len(p.Ranges) > 0 {
		return p.Ranges[0].Folder, false
	}
	return "", false
}

// PathTable 课程ID -> 路径配置
type PathTable map[string]*CoursePath

func DefaultPathTable() PathTable {
	return PathTable{
		"Python基础入门": {
			BasePath: "/Markdown/Python/Python基础入门",
			Ranges: []ChapterRange{
				{Start: 1, End: 2, Folder: "1-初识Python"},
				{Start: 3, End: 7, Folder: "2-第一个Python程序"},
				{Start: 8, End: 10, Folder: "3-变量和命名规则"},
			},
			DefaultFolder: "1-初识Python",
		},
		"JavaScript基础": {
			BasePath: "/Markdown/JavaScript/JavaScript基础",
			Ranges: []ChapterRange{
				{Start: 1, End: 3, Folder: "1-基础语法"},
				{Start: 4, End: 6, Folder: "2-数据类型"},
			},
			DefaultFolder: "1-基础语法",
		},
	}
}

// Lookup 兼容旧课程ID
func (t PathTable) Lookup(courseID string) *CoursePath {
	if p, ok := t[courseID]; ok {
		return p
	}
	return t[MigrateToNewID(courseID)]
}

// RangeOverlap 两个互相重叠的区间
type RangeOverlap struct {
	CourseID string       `json:"courseId"`
	First    ChapterRange `json:"first"`
	Second   ChapterRange `json:"second"`
}

func (o RangeOverlap) Error() string {
	return fmt.Sprintf("course %s: chapter ranges %s and %s overlap", o.CourseID, o.First, o.Second)
}

// Overlaps 只报告重叠，不阻止使用
func (t PathTable) Overlaps(courseID string) []RangeOverlap {
	p := t.Lookup(courseID)
	if p == nil {
		return nil
	}
	var overlaps []RangeOverlap
	for i := 0; i < len(p.Ranges); i++ {
		for j := i + 1; j < len(p.Ranges); j++ {
			a, b := p.Ranges[i], p.Ranges[j]
			if a.Start <= b.End && b.Start <= a.End {
				overlaps = append(overlaps, RangeOverlap{CourseID: courseID, First: a, Second: b})
			}
		}
	}
	return overlaps
}

func (t PathTable) CourseIDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	return ids
}
