package model

// SearchHistory 搜索记录，同一查询词只保留一条
type SearchHistory struct {
	UUIDBase
	UserID      uint   `gorm:"index;not null" json:"-"`
	Query       string `gorm:"size:255;not null" json:"query"`
	Timestamp   int64  `json:"timestamp"`
	ResultCount int    `json:"resultCount"`
}

func (SearchHistory) TableName() string {
	return "search_histories"
}

const MaxSearchHistories = 50

// HotSearch 热门搜索词
type HotSearch struct {
	ID    string `json:"id"`
	Query string `json:"query"`
	Count int64  `json:"count"`
	Trend string `json:"trend"` // up | down | stable
}
