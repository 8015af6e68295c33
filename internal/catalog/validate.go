package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var folderOrderPattern = regexp.MustCompile(`^(\d+)-`)

func folderOrder(folder string) (int, bool) {
	m := folderOrderPattern.FindStringSubmatch(folder)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// Validate 启动时执行，发现课程编写错误直接失败：
// 区间重叠、章节/步骤ID重复、带编号的步骤落在别的章节的区间里
func Validate(c *Catalog, table PathTable) error {
	var errs []error

	for _, course := range c.Courses() {
		chapterIDs := make(map[int]bool)
		for _, chapter := range course.Chapters {
			if chapterIDs[chapter.ID] {
				errs = append(errs, fmt.Errorf("course %s: duplicate chapter id %d", course.ID, chapter.ID))
			}
			chapterIDs[chapter.ID] = true

			stepIDs := make(map[int]bool)
			for _, step := range chapter.Steps {
				if stepIDs[step.ID] {
					errs = append(errs, fmt.Errorf("course %s chapter %d: duplicate step id %d", course.ID, chapter.ID, step.ID))
				}
				stepIDs[step.ID] = true
			}
		}

		path := table.Lookup(course.ID)
		if path == nil {
			continue
		}
		for _, overlap := range table.Overlaps(course.ID) {
			errs = append(errs, overlap)
		}

		for _, chapter := range course.Chapters {
			for _, step := range chapter.Steps {
				fileID := ExtractFileID(step.Title)
				if fileID == 0 {
					continue
				}
				folder, matched := path.FolderFor(fileID)
				if !matched {
					errs = append(errs, fmt.Errorf("course %s: step %q has no chapter range", course.ID, step.Title))
					continue
				}
				if order, ok := folderOrder(folder); ok && order != chapter.ID {
					errs = append(errs, fmt.Errorf("course %s: step %q belongs to chapter %d but range maps it to %q", course.ID, step.Title, chapter.ID, folder))
				}
			}
		}
	}

	return errors.Join(errs...)
}
