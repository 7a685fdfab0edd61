package model

// ConfidenceScale 把 1-4 的平均信心换算到百分比刻度，
// 与正确率（0-100）同量纲后才能相减。
const ConfidenceScale = 100.0 / 4.0

// CategoryStat 单个分类的聚合指标，每次加载分析页时重算，从不落库
// swagger:model CategoryStat
type CategoryStat struct {
	Name            string  `json:"name"`
	Volume          int     `json:"volume"`          // 作答总次数
	Accuracy        float64 `json:"accuracy"`        // 正确率（百分比）
	AvgConfidence   float64 `json:"avgConfidence"`   // 平均信心 1-4
	AvgSatisfaction float64 `json:"avgSatisfaction"` // 平均满意度 1-4，无数据为 0
	SeenCount       int     `json:"seenCount"`       // 见过的不同题目数
	MasteredCount   int     `json:"masteredCount"`   // 答对过至少一次的不同题目数
	TotalInDB       int     `json:"totalInDb"`       // 该分类题库总题数
	DelusionScore   float64 `json:"delusionScore"`   // 信心×刻度 − 正确率
	Urgency         float64 `json:"urgency"`         // 信心 − 正确率/刻度
}

// ChartPoint 7 日正确率趋势中的一个点
// swagger:model ChartPoint
type ChartPoint struct {
	Date     string  `json:"date"`
	Accuracy float64 `json:"acc"`
}

// AnalyticsSummary 分析页的完整响应
// swagger:model AnalyticsSummary
type AnalyticsSummary struct {
	Total       int            `json:"total"`  // 作答记录总数
	Streak      int            `json:"streak"` // 连续学习天数
	Categories  []CategoryStat `json:"categories"`
	ChartPoints []ChartPoint   `json:"chartPoints"`
}

// CategoryCount get_category_counts 存储过程的一行结果
type CategoryCount struct {
	CatName string `gorm:"column:cat_name" json:"catName"`
	QCount  int    `gorm:"column:q_count" json:"qCount"`
}
