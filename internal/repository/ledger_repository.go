package repository

import (
	"runpal_backend/internal/model"
	"runpal_backend/internal/util"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	DB *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

// appendMedalTx 在同一事务内写入一条勋章流水并同步更新角色余额缓存。
// 余额挂在存活角色上：角色不存在（或已死亡）返回 ErrNoActiveCharacter，
// 支出超过余额返回 ErrInsufficientBalance；两种情况都不会留下半笔状态。
func appendMedalTx(tx *gorm.DB, m *model.MedalTransaction) error {
	q := tx.Model(&model.Character{}).
		Where("user_id = ? AND is_alive = ?", m.UserID, true)
	if m.Amount < 0 {
		// 条件更新挡住并发下的透支
		q = q.Where("medals >= ?", -m.Amount)
	}

	res := q.Update("medals", gorm.Expr("medals + ?", m.Amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if m.Amount < 0 {
			var count int64
			if err := tx.Model(&model.Character{}).
				Where("user_id = ? AND is_alive = ?", m.UserID, true).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return util.ErrInsufficientBalance
			}
		}
		return util.ErrNoActiveCharacter
	}

	return tx.Create(m).Error
}

// Append 原子地写入流水并更新余额
func (r *LedgerRepository) Append(m *model.MedalTransaction) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return appendMedalTx(tx, m)
	})
}

// CurrentBalance 读取余额缓存（存活角色的 Medals 列）
func (r *LedgerRepository) CurrentBalance(userID uint) (int, error) {
	var character model.Character
	err := r.DB.Where("user_id = ? AND is_alive = ?", userID, true).First(&character).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, util.ErrNoActiveCharacter
		}
		return 0, err
	}
	return character.Medals, nil
}

// SumTransactions 按流水求和，用于对账（余额缓存应恒等于该值）
func (r *LedgerRepository) SumTransactions(userID uint) (int, error) {
	var total int64
	err := r.DB.Model(&model.MedalTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return int(total), err
}

// ListByUser 分页获取流水，按时间倒序
func (r *LedgerRepository) ListByUser(userID uint, page, limit int) ([]model.MedalTransaction, int64, error) {
	var txs []model.MedalTransaction
	var total int64

	query := r.DB.Model(&model.MedalTransaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&txs).Error
	return txs, total, err
}
