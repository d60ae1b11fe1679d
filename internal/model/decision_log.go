package model

import (
	"gorm.io/datatypes"
)

// DecisionLog 管理员审核动作的审计记录
// swagger:model DecisionLog
type DecisionLog struct {
	BaseModel
	SubmissionID    string         `gorm:"index;type:varchar(36);not null" json:"submissionId"`
	AdminID         uint           `gorm:"index;not null" json:"adminId"`
	Decision        string         `gorm:"size:30;not null" json:"decision"`
	Notes           string         `gorm:"type:text" json:"notes"`
	PayloadSnapshot datatypes.JSON `gorm:"type:json" json:"payloadSnapshot"` // 决策时刻的投稿文档快照
}

func (DecisionLog) TableName() string {
	return "decision_logs"
}
