package model

import (
	"fmt"
	"strconv"
	"strings"
)

// StepKey 章节ID与步骤ID的组合键，步骤ID只在章节内唯一
type StepKey string

func NewStepKey(chapterID, stepID int) StepKey {
	return StepKey(fmt.Sprintf("%d-%d", chapterID, stepID))
}

// Parse 拆出章节ID和步骤ID
func (k StepKey) Parse() (chapterID, stepID int, ok bool) {
	parts := strings.SplitN(string(k), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	c, err1 := strconv.Atoi(parts[0])
	s, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return c, s, true
}
