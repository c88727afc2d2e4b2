package model

type TransactionSource string

const (
	SourceItemDrop    TransactionSource = "item_drop"
	SourceCheckIn     TransactionSource = "check_in"
	SourceProgression TransactionSource = "progression"
	SourceReferral    TransactionSource = "referral"
	SourcePurchase    TransactionSource = "purchase"
)

// MedalTransaction 勋章流水，只追加不修改；正数为收入，负数为支出。
// 用户余额 = 该用户全部 Amount 之和，Character.Medals 为其缓存
type MedalTransaction struct {
	BaseModel
	UserID      uint              `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Amount      int               `gorm:"not null" json:"amount"`
	Source      TransactionSource `gorm:"size:20;not null" json:"source"`
	SourceID    *uint             `json:"sourceId,omitempty"`
	Description string            `gorm:"size:255" json:"description"`
}

func (MedalTransaction) TableName() string {
	return "medal_transactions"
}
