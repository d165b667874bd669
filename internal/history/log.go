package history

import (
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"
	"github.com/S-4-Sidra/heart-disease/internal/risk"
)

// Log 会话内的评估历史，只追加、不淘汰，顺序即插入顺序。
// 不加锁：同一会话的评估由上层串行执行。
type Log struct {
	entries []domain.HistoryEntry
}

// NewLog 创建空历史
func NewLog() *Log {
	return &Log{}
}

// Restore rebuilds a log from a stored snapshot, preserving order.
func Restore(entries []domain.HistoryEntry) *Log {
	l := &Log{entries: make([]domain.HistoryEntry, len(entries))}
	copy(l.entries, entries)
	return l
}

// Append 追加一条记录
func (l *Log) Append(e domain.HistoryEntry) {
	l.entries = append(l.entries, e)
}

// Len 记录条数
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries 返回副本
func (l *Log) Entries() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Row 导出表格的一行
type Row struct {
	Date        string `json:"date"`
	RiskLevel   string `json:"risk_level"`
	Probability string `json:"probability"`
	Age         int    `json:"age"`
	Sex         string `json:"sex"`
}

// Header 导出列顺序（固定）
var Header = []string{"Date", "Risk Level", "Probability", "Age", "Sex"}

// DateLayout 历史记录时间格式
const DateLayout = "2006-01-02 15:04"

// Rows 按插入顺序格式化为表格行
func (l *Log) Rows() []Row {
	rows := make([]Row, 0, len(l.entries))
	for _, e := range l.entries {
		rows = append(rows, toRow(e))
	}
	return rows
}

func toRow(e domain.HistoryEntry) Row {
	return Row{
		Date:        e.Timestamp.Format(DateLayout),
		RiskLevel:   risk.Label(e.Tier),
		Probability: FormatPercent(e.Probability),
		Age:         e.Age,
		Sex:         e.Sex.Label(),
	}
}

// TrendPoint 风险趋势图上的一个点
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Level int       `json:"level"`
}

// Trend maps each entry to Low=1, Medium=2, High=3. Returns nil with fewer
// than two entries, when there is no trend to draw.
func (l *Log) Trend() []TrendPoint {
	if len(l.entries) < 2 {
		return nil
	}
	points := make([]TrendPoint, 0, len(l.entries))
	for _, e := range l.entries {
		points = append(points, TrendPoint{Date: e.Timestamp, Level: risk.Numeric(e.Tier)})
	}
	return points
}
