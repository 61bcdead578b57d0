package models

import "time"

// Review is a buyer's score for a delivered order.
type Review struct {
	ReviewID     string     `gorm:"column:review_id;index;not null"`
	OrderID      string     `gorm:"column:order_id;index;not null"`
	ReviewScore  int        `gorm:"column:review_score;not null"`
	CreationDate *time.Time `gorm:"column:creation_date"`
	AnswerDate   *time.Time `gorm:"column:answer_date"`
}

func (Review) TableName() string {
	return "order_reviews"
}
