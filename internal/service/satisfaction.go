package service

// satisfactionOp 满意度变更的落库动作
type satisfactionOp int

const (
	satisfactionNoop satisfactionOp = iota
	satisfactionInsert
	satisfactionDelete
	satisfactionUpdate
)

// resolveSatisfactionOp 测验页和历史页共用的满意度规则：
// 没有记录且给了分就插入；有记录时传空或点同一个分数删除整条记录；
// 其余情况只更新满意度字段。
func resolveSatisfactionOp(hasRecord bool, current, requested *int) satisfactionOp {
	if !hasRecord {
		if requested == nil {
			return satisfactionNoop
		}
		return satisfactionInsert
	}
	if requested == nil {
		return satisfactionDelete
	}
	if current != nil && *current == *requested {
		return satisfactionDelete
	}
	return satisfactionUpdate
}
