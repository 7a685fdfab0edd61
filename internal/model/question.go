package model

// Question 题库中的一道多选题，应用侧只读（由导入流程写入）
// swagger:model Question
type Question struct {
	UUIDBase
	Category       string     `gorm:"size:120;index;not null" json:"category"`
	QuestionText   string     `gorm:"type:text;not null" json:"question_text"`
	Options        StringList `gorm:"type:json" json:"options"`
	CorrectAnswers StringList `gorm:"type:json" json:"correct_answers"`
	Explanation    string     `gorm:"type:text" json:"explanation"`
}

func (Question) TableName() string {
	return "questions"
}
